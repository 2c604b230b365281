package validation

import (
	"errors"
	"strings"
)

// ValidateName validates profile name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateUsername validates an admin username: 3-32 characters of
// letters, digits, dots, dashes and underscores.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}

	if len(username) > 32 {
		return errors.New("username is too long (max 32 characters)")
	}

	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return errors.New("username may only contain letters, digits, '.', '-' and '_'")
		}
	}

	return nil
}

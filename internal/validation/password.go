package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 12
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

var weakPasswordFragments = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"portfolio",
}

// ValidatePassword enforces the admin password policy.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", maxPasswordBytes)
	}

	lower := strings.ToLower(password)
	for _, fragment := range weakPasswordFragments {
		if strings.Contains(lower, fragment) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}

package validation

import (
	"errors"
	"net/mail"
	"strings"
)

const maxEmailLength = 254

// ValidateEmail accepts a bare address ("ada@example.com"). Display-name
// forms that net/mail also parses ("Ada <ada@example.com>") are rejected
// because the value is stored and used as a login key as-is.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	if len(email) > maxEmailLength {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") {
		return errors.New("invalid email address format")
	}

	return nil
}

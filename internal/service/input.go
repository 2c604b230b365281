package service

import (
	"strings"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
)

// requireText returns the trimmed value or a validation error when it is
// absent or blank.
func requireText(v *string, message string) (string, error) {
	if v == nil {
		return "", apperr.Validation(message)
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", apperr.Validation(message)
	}
	return s, nil
}

// overwriteText applies a present required field. A present but blank
// value is rejected, an absent one leaves dst alone.
func overwriteText(dst *string, v *string, message string) error {
	if v == nil {
		return nil
	}
	s, err := requireText(v, message)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// optionalText applies a present optional field (blank clears it).
func optionalText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// normalizeList resolves a raw list field. present is false when the field
// was not sent.
func normalizeList(raw fields.Raw, name string) (list []string, present bool, err error) {
	list, present, err = raw.Normalize()
	if err != nil {
		return nil, false, apperr.E(apperr.KindValidation, "Invalid "+name, err)
	}
	return list, present, nil
}

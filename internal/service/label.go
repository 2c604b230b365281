package service

import (
	"strings"

	"golang.org/x/text/cases"
)

// sameLabel compares free-text labels (categories, tags, technologies)
// under full Unicode case folding, so "web" matches "Web" and "STRASSE"
// matches "Straße".
func sameLabel(a, b string) bool {
	// Casers keep state and must not be shared between goroutines.
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

package validation

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

const MaxNameLength = 100

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name is too long (max 100 characters)")
)

// CleanName trims the name and collapses inner runs of whitespace.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeName is the key two names are compared on: case and
// whitespace differences are ignored.
func NormalizeName(name string) string {
	return cases.Fold().String(CleanName(name))
}

// ValidateName validates theme and category names
func ValidateName(name string) error {
	trimmed := CleanName(name)

	if trimmed == "" {
		return ErrNameRequired
	}

	if len([]rune(trimmed)) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}

package form

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/crud-generator/pkg/model"
)

// Validator checks one submitted value and returns an error message, or ""
// when the value is acceptable.
type Validator func(col model.Column, value string) string

// Required rejects blank values for required columns. Booleans are exempt
// since an unchecked checkbox submits nothing.
func Required(col model.Column, value string) string {
	if !col.Required || col.Type == model.TypeBoolean {
		return ""
	}
	if strings.TrimSpace(value) == "" {
		return "This field is required."
	}
	return ""
}

// MaxLength enforces the column's character limit.
func MaxLength(col model.Column, value string) string {
	if col.MaxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) > col.MaxLength {
		return fmt.Sprintf("Must be at most %d characters.", col.MaxLength)
	}
	return ""
}

// TypeCheck verifies that non-blank values parse as the column's type.
func TypeCheck(col model.Column, value string) string {
	if strings.TrimSpace(value) == "" || col.Type == model.TypeText {
		return ""
	}
	if _, err := col.Parse(value); err != nil {
		switch col.Type {
		case model.TypeInteger:
			return "Must be a whole number."
		case model.TypeFloat:
			return "Must be a number."
		case model.TypeBoolean:
			return "Must be true or false."
		case model.TypeUUID:
			return "Must be a valid UUID."
		case model.TypeTimestamp:
			return "Must be an RFC 3339 timestamp."
		}
		return "Invalid value."
	}
	return ""
}

var defaultValidators = []Validator{Required, MaxLength, TypeCheck}

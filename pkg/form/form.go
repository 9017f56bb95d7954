// Package form provides HTML form descriptors for generated create and
// edit pages: binding submitted values, validating them against a model
// definition and protecting submissions with a CSRF token.
package form

import (
	"net/http"

	"github.com/JaimeStill/crud-generator/pkg/model"
)

// CSRFField is the form field and cookie name carrying the CSRF token.
// Generated routes strip it from Data before building a record.
const CSRFField = "csrf_token"

// Form binds and validates a single form submission.
type Form interface {
	// ValidateOnSubmit reports whether the request is a POST whose
	// submitted values pass validation.
	ValidateOnSubmit(r *http.Request) bool
	// Data returns the bound values, including the CSRF token.
	Data() map[string]string
	Errors() map[string][]string
	Fields() []Field
	CSRFToken() string
}

// Factory builds a form for a create page.
type Factory func(w http.ResponseWriter, r *http.Request) Form

// EditFactory builds a form pre-populated from an existing record.
type EditFactory func(w http.ResponseWriter, r *http.Request, rec model.Record) Form

// Field is the render-ready view of one form input.
type Field struct {
	Name      string
	Label     string
	Input     string
	Value     string
	Required  bool
	MaxLength int
	Errors    []string
}

// Checked reports whether a checkbox input should render as checked.
func (f Field) Checked() bool {
	switch f.Value {
	case "true", "on", "1", "yes", "y":
		return true
	}
	return false
}

// InputType returns the HTML input type used for a column type.
func InputType(t model.ColumnType) string {
	switch t {
	case model.TypeInteger, model.TypeFloat:
		return "number"
	case model.TypeBoolean:
		return "checkbox"
	case model.TypeTimestamp:
		return "datetime"
	default:
		return "text"
	}
}

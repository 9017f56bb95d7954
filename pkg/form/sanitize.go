package form

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from submitted text.
type Sanitizer interface {
	Sanitize(s string) string
}

type strictSanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer that removes every HTML element,
// keeping only text content. Entities produced by the policy are decoded
// so stored values stay plain text; templates escape on output.
func NewSanitizer() Sanitizer {
	return &strictSanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *strictSanitizer) Sanitize(v string) string {
	if v == "" {
		return v
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

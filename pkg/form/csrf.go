package form

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

// csrfToken returns the token stored in the request's CSRF cookie, issuing
// a new one when the cookie is absent. The same value must be echoed back
// in the submitted form (double-submit cookie).
func csrfToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CSRFField); err == nil && c.Value != "" {
		return c.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFField,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func validToken(expected, submitted string) bool {
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

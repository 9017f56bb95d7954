package crud

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/crud-generator/pkg/handlers"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

// ErrNotBound is returned when routes are generated before Init.
var ErrNotBound = errors.New("crud generator is not bound to an application and session")

// mapHTTPStatus classifies errors from JSON API handlers. Invalid path ids
// are reported as not found.
func mapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, model.ErrInvalidID):
		return http.StatusNotFound
	case errors.Is(err, session.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnknownField),
		errors.Is(err, model.ErrInvalidValue),
		errors.Is(err, handlers.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

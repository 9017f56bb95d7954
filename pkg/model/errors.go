package model

import "errors"

var (
	// ErrUnknownField indicates a field name that is not a declared column.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue indicates a value that cannot be stored in its column.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidID indicates a path identifier that does not parse as the primary key type.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidDefinition indicates a model definition that failed validation.
	ErrInvalidDefinition = errors.New("invalid model definition")
)

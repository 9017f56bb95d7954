package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseID parses a URL path segment into the primary key's Go value:
// int64 for integer keys, the canonical string form for uuid keys, and the
// segment itself for text keys.
func (d Definition) ParseID(s string) (any, error) {
	pk := d.PrimaryKey()
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidID)
	}
	switch pk.Type {
	case TypeInteger, TypeUUID, TypeText:
		id, err := pk.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("%w: unsupported key type %q", ErrInvalidID, pk.Type)
	}
}

// Parse converts a textual value, such as a query parameter or form field,
// into the column's Go representation.
func (c Column) Parse(s string) (any, error) {
	switch c.Type {
	case TypeInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, c.Name)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidValue, c.Name)
		}
		return v, nil
	case TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "on", "yes", "y":
			return true, nil
		case "off", "no", "n", "":
			return false, nil
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean", ErrInvalidValue, c.Name)
		}
		return v, nil
	case TypeUUID:
		v, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a uuid", ErrInvalidValue, c.Name)
		}
		return v.String(), nil
	case TypeTimestamp:
		v, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an RFC 3339 timestamp", ErrInvalidValue, c.Name)
		}
		return v, nil
	default:
		return s, nil
	}
}

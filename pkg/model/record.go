package model

import (
	"fmt"
	"maps"
	"math"

	"github.com/google/uuid"
)

// Record is the plain-mapping form of a model instance keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// ID returns the record's primary key value.
func (r Record) ID(def Definition) any {
	return r[def.PrimaryKey().Name]
}

// New constructs a record from a mapping of field name to value.
// Every key must be a declared column; values are normalized for their column type.
func (d Definition) New(fields map[string]any) (Record, error) {
	rec := make(Record, len(fields))
	for name, value := range fields {
		col, ok := d.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, d.Name, name)
		}
		v, err := normalize(col, value)
		if err != nil {
			return nil, err
		}
		rec[name] = v
	}
	return rec, nil
}

// Filter returns the subset of fields whose keys are declared columns.
func (d Definition) Filter(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		if d.HasColumn(name) {
			out[name] = value
		}
	}
	return out
}

// Apply returns a copy of rec with each given field overwritten.
// Keys that are not declared columns fail with ErrUnknownField and rec is never mutated.
func (d Definition) Apply(rec Record, fields map[string]any) (Record, error) {
	out := rec.Clone()
	for name, value := range fields {
		col, ok := d.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, d.Name, name)
		}
		v, err := normalize(col, value)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// ApplyRaw returns a copy of rec with each submitted field that names a declared
// column assigned verbatim. Unknown keys are skipped.
func (d Definition) ApplyRaw(rec Record, fields map[string]string) Record {
	out := rec.Clone()
	for name, value := range fields {
		if d.HasColumn(name) {
			out[name] = value
		}
	}
	return out
}

// normalize converts decoded JSON values into their column's Go representation.
// encoding/json decodes every number as float64; integer columns need int64.
func normalize(col Column, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch col.Type {
	case TypeInteger:
		switch v := value.(type) {
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidValue, col.Name, v)
			}
			// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
			if v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("%w: %s is out of range, got %v", ErrInvalidValue, col.Name, v)
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		}
	case TypeFloat:
		switch v := value.(type) {
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case TypeUUID:
		switch v := value.(type) {
		case string:
			return col.Parse(v)
		case uuid.UUID:
			return v.String(), nil
		default:
			return nil, fmt.Errorf("%w: %s must be a uuid", ErrInvalidValue, col.Name)
		}
	}
	return value, nil
}

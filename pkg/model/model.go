// Package model describes persistable record types as data.
// A Definition lists a model's named, typed columns; a Record is the
// plain-mapping form of one instance. Definitions drive SQL generation,
// JSON serialization, form rendering, and allow-list filtering of
// submitted fields.
package model

import (
	"fmt"
	"strings"
)

// ColumnType identifies the storage type of a column.
type ColumnType string

// Supported column types.
const (
	TypeInteger   ColumnType = "integer"
	TypeFloat     ColumnType = "float"
	TypeText      ColumnType = "text"
	TypeBoolean   ColumnType = "boolean"
	TypeUUID      ColumnType = "uuid"
	TypeTimestamp ColumnType = "timestamp"
)

// Validate checks if the type is a supported column type.
func (t ColumnType) Validate() error {
	switch t {
	case TypeInteger, TypeFloat, TypeText, TypeBoolean, TypeUUID, TypeTimestamp:
		return nil
	default:
		return fmt.Errorf("unsupported column type: %q", t)
	}
}

// Column describes a single named, typed field of a model.
type Column struct {
	Name       string     `toml:"name" yaml:"name" json:"name"`
	Type       ColumnType `toml:"type" yaml:"type" json:"type"`
	PrimaryKey bool       `toml:"primary_key" yaml:"primary_key" json:"primary_key,omitempty"`
	Required   bool       `toml:"required" yaml:"required" json:"required,omitempty"`
	MaxLength  int        `toml:"max_length" yaml:"max_length" json:"max_length,omitempty"`
	Title      string     `toml:"label" yaml:"label" json:"label,omitempty"`
}

// Label returns the display label for the column.
// Without an explicit label, the column name is humanized ("created_at" -> "Created at").
func (c Column) Label() string {
	if c.Title != "" {
		return c.Title
	}
	s := strings.ReplaceAll(c.Name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Definition describes a persistable record type.
type Definition struct {
	Name    string   `toml:"name" yaml:"name" json:"name"`
	Table   string   `toml:"table" yaml:"table" json:"table"`
	Columns []Column `toml:"columns" yaml:"columns" json:"columns"`
}

// Key returns the lowercased model name used for URL prefixes and route group names.
func (d Definition) Key() string {
	return strings.ToLower(d.Name)
}

// Normalize fills derived defaults. An empty Table becomes Key() + "s".
func (d *Definition) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if d.Table == "" && d.Name != "" {
		d.Table = d.Key() + "s"
	}
	for i := range d.Columns {
		if d.Columns[i].Type == "" {
			d.Columns[i].Type = TypeText
		}
	}
}

// Validate checks that the definition names a model, declares uniquely named
// columns of supported types, and has exactly one primary key.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidDefinition)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: %s: at least one column required", ErrInvalidDefinition, d.Name)
	}

	seen := make(map[string]struct{}, len(d.Columns))
	keys := 0
	for _, c := range d.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: %s: column name required", ErrInvalidDefinition, d.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s: duplicate column %q", ErrInvalidDefinition, d.Name, c.Name)
		}
		seen[c.Name] = struct{}{}

		if err := c.Type.Validate(); err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidDefinition, d.Name, c.Name, err)
		}

		if c.PrimaryKey {
			keys++
			switch c.Type {
			case TypeInteger, TypeUUID, TypeText:
			default:
				return fmt.Errorf("%w: %s.%s: primary key must be integer, uuid, or text", ErrInvalidDefinition, d.Name, c.Name)
			}
		}
	}

	if keys != 1 {
		return fmt.Errorf("%w: %s: exactly one primary key required, found %d", ErrInvalidDefinition, d.Name, keys)
	}
	return nil
}

// ColumnNames returns the column names in declaration order.
func (d Definition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a declared column.
func (d Definition) HasColumn(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// Column returns the column with the given name.
func (d Definition) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the primary key column.
// The zero Column is returned for definitions that have not been validated.
func (d Definition) PrimaryKey() Column {
	for _, c := range d.Columns {
		if c.PrimaryKey {
			return c
		}
	}
	return Column{}
}

// EditableColumns returns every column except the primary key.
func (d Definition) EditableColumns() []Column {
	cols := make([]Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		if !c.PrimaryKey {
			cols = append(cols, c)
		}
	}
	return cols
}

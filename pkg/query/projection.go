// Package query builds parameterized PostgreSQL statements from a projection
// of a table's columns.
package query

import (
	"fmt"
	"strings"
)

type projection struct {
	column string
	view   string
}

// ProjectionMap maps view names onto the columns of an aliased table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []projection
	index   map[string]string
}

// NewProjectionMap creates an empty projection for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make([]projection, 0),
		index:   make(map[string]string),
	}
}

// Project adds a column under the given view name.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	p.columns = append(p.columns, projection{column: column, view: view})
	p.index[view] = column
	return p
}

// Table returns the qualified table with its alias, e.g. "public.users u".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the alias-qualified column for a view name.
// Unknown view names are returned unchanged.
func (p *ProjectionMap) Column(view string) string {
	col, ok := p.index[view]
	if !ok {
		return view
	}
	return p.alias + "." + col
}

// Source returns the unqualified column for a view name, as required by
// INSERT column lists and UPDATE SET clauses.
func (p *ProjectionMap) Source(view string) (string, bool) {
	col, ok := p.index[view]
	return col, ok
}

// Columns returns the comma-separated, alias-qualified column list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ColumnList(), ", ")
}

// ColumnList returns the alias-qualified columns in projection order.
func (p *ProjectionMap) ColumnList() []string {
	cols := make([]string, len(p.columns))
	for i, c := range p.columns {
		cols[i] = p.alias + "." + c.column
	}
	return cols
}

// Views returns the view names in projection order.
func (p *ProjectionMap) Views() []string {
	views := make([]string, len(p.columns))
	for i, c := range p.columns {
		views[i] = c.view
	}
	return views
}

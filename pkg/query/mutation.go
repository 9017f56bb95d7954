package query

import (
	"fmt"
	"strings"
)

// BuildInsert returns an INSERT of the given values keyed by view name,
// returning every projected column. Values for unprojected names are ignored.
// An empty value set inserts a row of column defaults.
func BuildInsert(p *ProjectionMap, values map[string]any) (string, []any) {
	cols := make([]string, 0, len(values))
	params := make([]string, 0, len(values))
	args := make([]any, 0, len(values))

	for _, view := range p.Views() {
		v, ok := values[view]
		if !ok {
			continue
		}
		col, _ := p.Source(view)
		args = append(args, v)
		cols = append(cols, col)
		params = append(params, fmt.Sprintf("$%d", len(args)))
	}

	target := fmt.Sprintf("%s.%s AS %s", p.schema, p.table, p.alias)
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", target, p.Columns()), nil
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		target,
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
		p.Columns(),
	)
	return sql, args
}

// BuildUpdate returns an UPDATE that sets the given values on the row whose
// idField equals id, returning every projected column. The id field itself is
// never assigned.
func BuildUpdate(p *ProjectionMap, idField string, id any, values map[string]any) (string, []any) {
	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)

	for _, view := range p.Views() {
		if view == idField {
			continue
		}
		v, ok := values[view]
		if !ok {
			continue
		}
		col, _ := p.Source(view)
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if len(sets) == 0 {
		col, _ := p.Source(idField)
		sets = append(sets, fmt.Sprintf("%s = %s", col, p.Column(idField)))
	}

	args = append(args, id)
	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d RETURNING %s",
		p.Table(),
		strings.Join(sets, ", "),
		p.Column(idField),
		len(args),
		p.Columns(),
	)
	return sql, args
}

// BuildDelete returns a DELETE of the row whose idField equals id.
func BuildDelete(p *ProjectionMap, idField string, id any) (string, []any) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", p.Table(), p.Column(idField))
	return sql, []any{id}
}

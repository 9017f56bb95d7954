package crud

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

// Reserved list query parameters. Columns sharing these names cannot be
// filtered by equality.
const (
	paramSearch = "q"
	paramSort   = "sort"
	paramOrder  = "order"
)

func reserved(name string) bool {
	switch name {
	case paramSearch, paramSort, paramOrder, pagination.ParamPage, pagination.ParamPageSize:
		return true
	}
	return false
}

// listQuery builds a session query from URL parameters. Parameters naming
// a column become equality filters parsed for that column's type; any
// other parameter is ignored.
func listQuery(def model.Definition, values url.Values) (session.Query, error) {
	q := session.Query{
		Search: strings.TrimSpace(values.Get(paramSearch)),
	}

	for name, vals := range values {
		if reserved(name) || len(vals) == 0 {
			continue
		}
		col, ok := def.Column(name)
		if !ok {
			continue
		}
		v, err := col.Parse(vals[0])
		if err != nil {
			return q, err
		}
		if q.Equals == nil {
			q.Equals = make(map[string]any)
		}
		q.Equals[name] = v
	}

	if sort := values.Get(paramSort); sort != "" {
		if !def.HasColumn(sort) {
			return q, fmt.Errorf("%w: cannot sort by %q", model.ErrInvalidValue, sort)
		}
		q.Sort = sort
	}

	switch strings.ToLower(values.Get(paramOrder)) {
	case "", "asc":
	case "desc":
		q.Descending = true
	default:
		return q, fmt.Errorf("%w: order must be asc or desc", model.ErrInvalidValue)
	}

	return q, nil
}

// Package session provides transactional record storage for model definitions.
// A System reads records and opens transactions; a Tx stages writes that become
// visible to other readers only after Commit.
package session

import (
	"context"
	"errors"

	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrTxDone    = errors.New("transaction has already been committed or rolled back")
)

// Query narrows and orders the records returned by System.All.
type Query struct {
	// Equals holds column equality filters, values already parsed for their column.
	Equals map[string]any
	// Search matches a case-insensitive substring across text columns.
	Search     string
	Sort       string
	Descending bool
	// Page selects one page of the ordered result. A zero Size returns every record.
	Page pagination.Page
}

// Paged reports whether the query asks for a single page.
func (q Query) Paged() bool {
	return q.Page.Size > 0
}

func (q Query) page() pagination.Page {
	return pagination.Page{Number: max(q.Page.Number, 1), Size: q.Page.Size}
}

// Window returns the slice bounds of the query's page within n records.
func (q Query) Window(n int) (start, end int) {
	if !q.Paged() {
		return 0, n
	}
	start = min(q.page().Offset(), n)
	end = min(start+q.Page.Size, n)
	return start, end
}

// System is the read side of a session and the factory for transactions.
type System interface {
	All(ctx context.Context, def model.Definition, q Query) ([]model.Record, error)
	Get(ctx context.Context, def model.Definition, id any) (model.Record, error)
	Begin(ctx context.Context) (Tx, error)
}

// Tx stages writes against one or more models.
// Rollback after Commit is a no-op that returns ErrTxDone.
type Tx interface {
	// Add inserts rec and returns the stored record including its generated key.
	Add(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error)
	// Save overwrites the stored record sharing rec's primary key.
	Save(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error)
	Delete(ctx context.Context, def model.Definition, id any) error
	Commit() error
	Rollback() error
}

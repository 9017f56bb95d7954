package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

var book = model.Definition{
	Name:  "Book",
	Table: "books",
	Columns: []model.Column{
		{Name: "id", Type: model.TypeInteger, PrimaryKey: true},
		{Name: "title", Type: model.TypeText},
		{Name: "author", Type: model.TypeText},
	},
}

func add(t *testing.T, sys session.System, rec model.Record) model.Record {
	t.Helper()
	ctx := context.Background()

	tx, err := sys.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	stored, err := tx.Add(ctx, book, rec)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	return stored
}

func TestMemory_AddAssignsSequentialIDs(t *testing.T) {
	sys := session.NewMemory()

	first := add(t, sys, model.Record{"title": "Dune", "author": "Herbert"})
	second := add(t, sys, model.Record{"title": "Emma"})

	want := model.Record{"id": int64(1), "title": "Dune", "author": "Herbert"}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}

	if second["id"] != int64(2) {
		t.Errorf("second id = %v, want 2", second["id"])
	}
	if v, ok := second["author"]; !ok || v != nil {
		t.Errorf("second author = %v, %v, want nil, true", v, ok)
	}
}

func TestMemory_UUIDKeys(t *testing.T) {
	def := model.Definition{
		Name:    "Tag",
		Table:   "tags",
		Columns: []model.Column{{Name: "id", Type: model.TypeUUID, PrimaryKey: true}, {Name: "label", Type: model.TypeText}},
	}
	sys := session.NewMemory()
	ctx := context.Background()

	tx, _ := sys.Begin(ctx)
	rec, err := tx.Add(ctx, def, model.Record{"label": "go"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	tx.Commit()

	id, ok := rec["id"].(string)
	if !ok || len(id) != 36 {
		t.Fatalf("id = %v, want generated uuid", rec["id"])
	}

	got, err := sys.Get(ctx, def, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["label"] != "go" {
		t.Errorf("label = %v, want go", got["label"])
	}
}

func TestMemory_TextKeyRequired(t *testing.T) {
	def := model.Definition{
		Name:    "Code",
		Table:   "codes",
		Columns: []model.Column{{Name: "code", Type: model.TypeText, PrimaryKey: true}},
	}
	sys := session.NewMemory()
	ctx := context.Background()

	tx, _ := sys.Begin(ctx)
	defer tx.Rollback()

	if _, err := tx.Add(ctx, def, model.Record{}); !errors.Is(err, model.ErrInvalidValue) {
		t.Errorf("Add() error = %v, want ErrInvalidValue", err)
	}
}

func TestMemory_WritesHiddenUntilCommit(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()

	tx, _ := sys.Begin(ctx)
	rec, err := tx.Add(ctx, book, model.Record{"title": "Dune"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := sys.Get(ctx, book, rec["id"]); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get() before commit error = %v, want ErrNotFound", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, err := sys.Get(ctx, book, rec["id"]); err != nil {
		t.Errorf("Get() after commit error = %v", err)
	}
}

func TestMemory_RollbackDiscards(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()
	stored := add(t, sys, model.Record{"title": "Dune"})

	tx, _ := sys.Begin(ctx)
	if _, err := tx.Save(ctx, book, model.Record{"id": stored["id"], "title": "Changed"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := tx.Delete(ctx, book, stored["id"]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	got, err := sys.Get(ctx, book, stored["id"])
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got["title"] != "Dune" {
		t.Errorf("title = %v, want Dune", got["title"])
	}
}

func TestMemory_SaveOverwritesGivenFields(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()
	stored := add(t, sys, model.Record{"title": "Dune", "author": "Herbert"})

	tx, _ := sys.Begin(ctx)
	saved, err := tx.Save(ctx, book, model.Record{"id": stored["id"], "title": "Dune Messiah"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	tx.Commit()

	want := model.Record{"id": int64(1), "title": "Dune Messiah", "author": "Herbert"}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Errorf("Save() mismatch (-want +got):\n%s", diff)
	}

	got, _ := sys.Get(ctx, book, int64(1))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_NotFound(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()

	if _, err := sys.Get(ctx, book, int64(9)); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}

	tx, _ := sys.Begin(ctx)
	defer tx.Rollback()

	if _, err := tx.Save(ctx, book, model.Record{"id": int64(9)}); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Save() error = %v, want ErrNotFound", err)
	}
	if err := tx.Delete(ctx, book, int64(9)); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemory_Duplicate(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()
	add(t, sys, model.Record{"id": int64(5), "title": "Dune"})

	tx, _ := sys.Begin(ctx)
	defer tx.Rollback()

	if _, err := tx.Add(ctx, book, model.Record{"id": int64(5)}); !errors.Is(err, session.ErrDuplicate) {
		t.Errorf("Add() error = %v, want ErrDuplicate", err)
	}

	next, err := tx.Add(ctx, book, model.Record{"title": "Emma"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if next["id"] != int64(6) {
		t.Errorf("id = %v, want 6", next["id"])
	}
}

func TestMemory_ConcurrentDuplicateFailsCommit(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()

	first, _ := sys.Begin(ctx)
	second, _ := sys.Begin(ctx)

	if _, err := first.Add(ctx, book, model.Record{"id": int64(1)}); err != nil {
		t.Fatalf("first Add() error = %v", err)
	}
	if _, err := second.Add(ctx, book, model.Record{"id": int64(1)}); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}

	if err := first.Commit(); err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}
	if err := second.Commit(); !errors.Is(err, session.ErrDuplicate) {
		t.Errorf("second Commit() error = %v, want ErrDuplicate", err)
	}
}

func TestMemory_TxDone(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()

	tx, _ := sys.Begin(ctx)
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if err := tx.Rollback(); !errors.Is(err, session.ErrTxDone) {
		t.Errorf("Rollback() error = %v, want ErrTxDone", err)
	}
	if _, err := tx.Add(ctx, book, model.Record{}); !errors.Is(err, session.ErrTxDone) {
		t.Errorf("Add() error = %v, want ErrTxDone", err)
	}
}

func TestMemory_All(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()
	add(t, sys, model.Record{"title": "Dune", "author": "Herbert"})
	add(t, sys, model.Record{"title": "Emma", "author": "Austen"})
	add(t, sys, model.Record{"title": "Children of Dune", "author": "Herbert"})

	tests := []struct {
		name    string
		query   session.Query
		wantIDs []any
	}{
		{"all by key", session.Query{}, []any{int64(1), int64(2), int64(3)}},
		{"equals", session.Query{Equals: map[string]any{"author": "Herbert"}}, []any{int64(1), int64(3)}},
		{"search", session.Query{Search: "dune"}, []any{int64(1), int64(3)}},
		{"sort descending", session.Query{Sort: "title", Descending: true}, []any{int64(2), int64(1), int64(3)}},
		{"unknown sort uses key", session.Query{Sort: "isbn"}, []any{int64(1), int64(2), int64(3)}},
		{"first page", session.Query{Page: pagination.Page{Size: 2}}, []any{int64(1), int64(2)}},
		{"second page", session.Query{Page: pagination.Page{Number: 2, Size: 2}}, []any{int64(3)}},
		{"page past end", session.Query{Page: pagination.Page{Number: 5, Size: 2}}, []any{}},
		{"page after filter", session.Query{Equals: map[string]any{"author": "Herbert"}, Page: pagination.Page{Number: 2, Size: 1}}, []any{int64(3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := sys.All(ctx, book, tt.query)
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}

			ids := make([]any, len(records))
			for i, r := range records {
				ids[i] = r["id"]
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("All() ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMemory_AllEmpty(t *testing.T) {
	records, err := session.NewMemory().All(context.Background(), book, session.Query{})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("All() = %v, want empty non-nil slice", records)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	sys := session.NewMemory()
	ctx := context.Background()
	stored := add(t, sys, model.Record{"title": "Dune"})
	stored["title"] = "mutated"

	got, _ := sys.Get(ctx, book, int64(1))
	got["title"] = "mutated again"

	again, _ := sys.Get(ctx, book, int64(1))
	if again["title"] != "Dune" {
		t.Errorf("title = %v, want Dune", again["title"])
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := session.NewMemory().Begin(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Begin() error = %v, want context.Canceled", err)
	}
}

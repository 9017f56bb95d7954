package session

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/crud-generator/pkg/model"
)

type table struct {
	rows map[string]model.Record
	seq  int64
}

type memory struct {
	mu     sync.RWMutex
	tables map[string]*table
}

// NewMemory creates an in-process session. Integer keys auto-increment from 1,
// uuid keys are generated, and text keys must be supplied by the caller.
func NewMemory() System {
	return &memory{tables: make(map[string]*table)}
}

func rowKey(id any) string {
	return fmt.Sprint(id)
}

// table returns the table for def. Callers must hold mu for writing.
func (m *memory) table(def model.Definition) *table {
	t, ok := m.tables[def.Table]
	if !ok {
		t = &table{rows: make(map[string]model.Record)}
		m.tables[def.Table] = t
	}
	return t
}

func (m *memory) All(ctx context.Context, def model.Definition, q Query) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[def.Table]
	if !ok {
		return []model.Record{}, nil
	}

	records := make([]model.Record, 0, len(t.rows))
	for _, rec := range t.rows {
		if matches(def, rec, q) {
			records = append(records, rec.Clone())
		}
	}

	sortBy := def.PrimaryKey().Name
	if q.Sort != "" && def.HasColumn(q.Sort) {
		sortBy = q.Sort
	}
	slices.SortStableFunc(records, func(a, b model.Record) int {
		c := compare(a[sortBy], b[sortBy])
		if q.Descending {
			return -c
		}
		return c
	})

	start, end := q.Window(len(records))
	return records[start:end], nil
}

func (m *memory) Get(ctx context.Context, def model.Definition, id any) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[def.Table]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := t.rows[rowKey(id)]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *memory) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memoryTx{store: m}, nil
}

type opKind int

const (
	opAdd opKind = iota
	opSave
	opDelete
)

type op struct {
	kind  opKind
	table string
	key   string
	rec   model.Record
}

type memoryTx struct {
	store *memory
	ops   []op
	done  bool
}

// staged reports whether the transaction holds a pending add for key.
func (tx *memoryTx) staged(tableName, key string) bool {
	present := false
	for _, o := range tx.ops {
		if o.table != tableName || o.key != key {
			continue
		}
		present = o.kind != opDelete
	}
	return present
}

func (tx *memoryTx) Add(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := make(model.Record, len(def.Columns))
	for _, c := range def.Columns {
		stored[c.Name] = rec[c.Name]
	}

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	t := tx.store.table(def)
	pk := def.PrimaryKey()

	if stored[pk.Name] == nil {
		switch pk.Type {
		case model.TypeInteger:
			t.seq++
			stored[pk.Name] = t.seq
		case model.TypeUUID:
			stored[pk.Name] = uuid.NewString()
		default:
			return nil, fmt.Errorf("%w: %s required", model.ErrInvalidValue, pk.Name)
		}
	} else if n, ok := stored[pk.Name].(int64); ok && n > t.seq {
		t.seq = n
	}

	key := rowKey(stored[pk.Name])
	if _, exists := t.rows[key]; exists || tx.staged(def.Table, key) {
		return nil, fmt.Errorf("%w: %s %s", ErrDuplicate, def.Name, key)
	}

	tx.ops = append(tx.ops, op{kind: opAdd, table: def.Table, key: key, rec: stored})
	return stored.Clone(), nil
}

func (tx *memoryTx) Save(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := rec.ID(def)
	if id == nil {
		return nil, ErrNotFound
	}
	key := rowKey(id)

	tx.store.mu.RLock()
	var existing model.Record
	if t, ok := tx.store.tables[def.Table]; ok {
		existing = t.rows[key]
	}
	tx.store.mu.RUnlock()

	if existing == nil && !tx.staged(def.Table, key) {
		return nil, ErrNotFound
	}

	stored := existing.Clone()
	for _, c := range def.Columns {
		if v, ok := rec[c.Name]; ok {
			stored[c.Name] = v
		}
	}

	tx.ops = append(tx.ops, op{kind: opSave, table: def.Table, key: key, rec: stored})
	return stored.Clone(), nil
}

func (tx *memoryTx) Delete(ctx context.Context, def model.Definition, id any) error {
	if tx.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key := rowKey(id)

	tx.store.mu.RLock()
	exists := false
	if t, ok := tx.store.tables[def.Table]; ok {
		_, exists = t.rows[key]
	}
	tx.store.mu.RUnlock()

	if !exists && !tx.staged(def.Table, key) {
		return ErrNotFound
	}

	tx.ops = append(tx.ops, op{kind: opDelete, table: def.Table, key: key})
	return nil
}

// Commit applies staged writes atomically. An add that collides with a row
// committed by another transaction fails the whole commit with ErrDuplicate.
func (tx *memoryTx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range tx.ops {
		if o.kind != opAdd {
			continue
		}
		if t, ok := s.tables[o.table]; ok {
			if _, exists := t.rows[o.key]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicate, o.key)
			}
		}
	}

	for _, o := range tx.ops {
		t, ok := s.tables[o.table]
		if !ok {
			t = &table{rows: make(map[string]model.Record)}
			s.tables[o.table] = t
		}
		switch o.kind {
		case opAdd:
			t.rows[o.key] = o.rec
		case opSave:
			prev, ok := t.rows[o.key]
			if !ok {
				continue
			}
			merged := prev.Clone()
			for k, v := range o.rec {
				merged[k] = v
			}
			t.rows[o.key] = merged
		case opDelete:
			delete(t.rows, o.key)
		}
	}

	tx.ops = nil
	return nil
}

func (tx *memoryTx) Rollback() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true
	tx.ops = nil
	return nil
}

func matches(def model.Definition, rec model.Record, q Query) bool {
	for name, want := range q.Equals {
		if !def.HasColumn(name) {
			continue
		}
		if rowKey(rec[name]) != rowKey(want) {
			return false
		}
	}

	if q.Search == "" {
		return true
	}

	needle := strings.ToLower(q.Search)
	for _, c := range def.Columns {
		if c.Type != model.TypeText {
			continue
		}
		if s, ok := rec[c.Name].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// compare orders nil first, then values of matching numeric, string, or time
// types naturally, falling back to their formatted representation.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/query"
	"github.com/JaimeStill/crud-generator/pkg/repository"
)

const (
	schema = "public"
	alias  = "t"
)

type sqlSession struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQL creates a session backed by a PostgreSQL database opened through
// the pgx stdlib driver. Each model maps onto public.<table>.
func NewSQL(db *sql.DB, logger *slog.Logger) System {
	return &sqlSession{
		db:     db,
		logger: logger.With("system", "session"),
	}
}

func projectionFor(def model.Definition) *query.ProjectionMap {
	pm := query.NewProjectionMap(schema, def.Table, alias)
	for _, c := range def.Columns {
		pm.Project(c.Name, c.Name)
	}
	return pm
}

func scanRecord(def model.Definition) repository.ScanFunc[model.Record] {
	return func(s repository.Scanner) (model.Record, error) {
		values := make([]any, len(def.Columns))
		dest := make([]any, len(def.Columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := s.Scan(dest...); err != nil {
			return nil, err
		}

		rec := make(model.Record, len(def.Columns))
		for i, c := range def.Columns {
			rec[c.Name] = fromDriver(values[i])
		}
		return rec, nil
	}
}

// fromDriver converts driver values into the representations used by model.Record.
func fromDriver(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case [16]byte:
		return uuid.UUID(x).String()
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

func (s *sqlSession) All(ctx context.Context, def model.Definition, q Query) ([]model.Record, error) {
	pm := projectionFor(def)
	qb := query.NewBuilder(pm, def.PrimaryKey().Name)

	names := make([]string, 0, len(q.Equals))
	for name := range q.Equals {
		if def.HasColumn(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		qb.WhereEquals(name, q.Equals[name])
	}

	if q.Search != "" {
		text := make([]string, 0, len(def.Columns))
		for _, c := range def.Columns {
			if c.Type == model.TypeText {
				text = append(text, c.Name)
			}
		}
		qb.WhereSearch(&q.Search, text...)
	}

	sort := ""
	if def.HasColumn(q.Sort) {
		sort = q.Sort
	}
	qb.OrderBy(sort, q.Descending)

	var (
		sqlStr string
		args   []any
	)
	if q.Paged() {
		p := q.page()
		sqlStr, args = qb.BuildPage(p.Size, p.Offset())
	} else {
		sqlStr, args = qb.BuildSelect()
	}
	records, err := repository.QueryMany(ctx, s.db, sqlStr, args, scanRecord(def))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", def.Table, err)
	}
	return records, nil
}

func (s *sqlSession) Get(ctx context.Context, def model.Definition, id any) (model.Record, error) {
	q, args := query.NewBuilder(projectionFor(def), def.PrimaryKey().Name).
		BuildSingle(def.PrimaryKey().Name, id)

	rec, err := repository.QueryOne(ctx, s.db, q, args, scanRecord(def))
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return rec, nil
}

func (s *sqlSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, logger: s.logger}, nil
}

type sqlTx struct {
	tx     *sql.Tx
	logger *slog.Logger
	writes int
}

func (t *sqlTx) Add(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error) {
	values := make(map[string]any, len(rec))
	for k, v := range rec {
		values[k] = v
	}
	pk := def.PrimaryKey().Name
	if values[pk] == nil {
		delete(values, pk)
	}

	q, args := query.BuildInsert(projectionFor(def), values)
	stored, err := repository.QueryOne(ctx, t.tx, q, args, scanRecord(def))
	if err != nil {
		return nil, t.mapError(err)
	}

	t.writes++
	t.logger.Debug("record added", "model", def.Name, "id", stored[pk])
	return stored, nil
}

func (t *sqlTx) Save(ctx context.Context, def model.Definition, rec model.Record) (model.Record, error) {
	pk := def.PrimaryKey().Name
	id := rec[pk]
	if id == nil {
		return nil, ErrNotFound
	}

	q, args := query.BuildUpdate(projectionFor(def), pk, id, rec)
	stored, err := repository.QueryOne(ctx, t.tx, q, args, scanRecord(def))
	if err != nil {
		return nil, t.mapError(err)
	}

	t.writes++
	t.logger.Debug("record saved", "model", def.Name, "id", id)
	return stored, nil
}

func (t *sqlTx) Delete(ctx context.Context, def model.Definition, id any) error {
	q, args := query.BuildDelete(projectionFor(def), def.PrimaryKey().Name, id)
	if err := repository.ExecExpectOne(ctx, t.tx, q, args...); err != nil {
		return t.mapError(err)
	}

	t.writes++
	t.logger.Debug("record deleted", "model", def.Name, "id", id)
	return nil
}

func (t *sqlTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return t.mapError(err)
	}
	if t.writes > 0 {
		t.logger.Info("transaction committed", "writes", t.writes)
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	return t.mapError(t.tx.Rollback())
}

func (t *sqlTx) mapError(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return ErrTxDone
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

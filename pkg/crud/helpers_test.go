package crud_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/crud-generator/pkg/crud"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/routes"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

var book = model.Definition{
	Name: "Book",
	Columns: []model.Column{
		{Name: "id", Type: model.TypeInteger, PrimaryKey: true},
		{Name: "title", Type: model.TypeText, Required: true},
		{Name: "author", Type: model.TypeText},
	},
}

var novel = model.Definition{
	Name: "Novel",
	Columns: []model.Column{
		{Name: "id", Type: model.TypeInteger, PrimaryKey: true},
		{Name: "title", Type: model.TypeText, Required: true, MaxLength: 40},
		{Name: "pages", Type: model.TypeInteger},
		{Name: "in_print", Type: model.TypeBoolean},
	},
}

var discard = slog.New(slog.DiscardHandler)

type harness struct {
	app     routes.System
	sess    session.System
	gen     *crud.Generator
	handler http.Handler
	dir     string
}

func newHarness(t *testing.T, sess session.System, opts ...crud.Option) *harness {
	t.Helper()
	if sess == nil {
		sess = session.NewMemory()
	}
	dir := t.TempDir()
	app := routes.New(discard)
	opts = append([]crud.Option{crud.WithTemplateDir(dir)}, opts...)
	return &harness{
		app:  app,
		sess: sess,
		gen:  crud.NewBound(app, sess, discard, opts...),
		dir:  dir,
	}
}

// build must be called after every Generate call of a test.
func (h *harness) build() {
	h.handler = h.app.Build()
}

func (h *harness) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) postForm(t *testing.T, target string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) seed(t *testing.T, def model.Definition, rec model.Record) model.Record {
	t.Helper()
	def.Normalize()
	ctx := context.Background()
	tx, err := h.sess.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	stored, err := tx.Add(ctx, def, rec)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return stored
}

func (h *harness) get(t *testing.T, def model.Definition, id any) (model.Record, error) {
	t.Helper()
	def.Normalize()
	return h.sess.Get(context.Background(), def, id)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

var errDiskFull = errors.New("disk full")

// failingSession reads through to a real session but fails every save.
type failingSession struct {
	session.System
}

func (s failingSession) Begin(ctx context.Context) (session.Tx, error) {
	tx, err := s.System.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{Tx: tx}, nil
}

type failingTx struct {
	session.Tx
}

func (failingTx) Save(context.Context, model.Definition, model.Record) (model.Record, error) {
	return nil, errDiskFull
}

package crud

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/crud-generator/pkg/handlers"
	"github.com/JaimeStill/crud-generator/pkg/metrics"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
	"github.com/JaimeStill/crud-generator/pkg/routes"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

// APIOption customizes a generated JSON API group.
type APIOption func(*apiSettings)

type apiSettings struct {
	name   string
	prefix string
}

// WithGroupName overrides the group name, "api_<model>" by default.
func WithGroupName(name string) APIOption {
	return func(s *apiSettings) { s.name = name }
}

// WithPrefix overrides the URL prefix, "/api/<model>" by default.
func WithPrefix(prefix string) APIOption {
	return func(s *apiSettings) { s.prefix = prefix }
}

// apiGroup holds the parameters of one generated JSON API group.
type apiGroup struct {
	def         model.Definition
	sess        session.System
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxBodySize int64
	paging      *pagination.Config
}

// GenerateRoutes registers a JSON API group for def and returns it.
//
//	GET    /      list records, filtered by ?column=value
//	GET    /{id}  fetch one record
//	POST   /      create a record from a JSON object
//	PUT    /{id}  overwrite the given fields of a record
//	DELETE /{id}  remove a record
func (g *Generator) GenerateRoutes(def model.Definition, opts ...APIOption) (routes.Group, error) {
	def, err := g.prepare(def)
	if err != nil {
		return routes.Group{}, err
	}

	s := apiSettings{
		name:   "api_" + def.Key(),
		prefix: "/api/" + def.Key(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	a := &apiGroup{
		def:         def,
		sess:        g.sess,
		logger:      g.logger.With("group", s.name),
		metrics:     g.metrics,
		maxBodySize: g.maxBodySize,
		paging:      g.pagination,
	}
	ops := newOperations(def, s.name, g.pagination != nil)

	group := routes.Group{
		Prefix:      s.prefix,
		Name:        s.name,
		Tags:        []string{def.Name},
		Description: def.Name + " records",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/", Handler: a.List, OpenAPI: ops.List},
			{Method: "GET", Pattern: "/{id}", Handler: a.Get, OpenAPI: ops.Get},
			{Method: "POST", Pattern: "/", Handler: a.Create, OpenAPI: ops.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: a.Update, OpenAPI: ops.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: a.Delete, OpenAPI: ops.Delete},
		},
		Schemas: schemas(def),
	}

	g.app.RegisterGroup(group)
	return group, nil
}

func (a *apiGroup) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, err := listQuery(a.def, values)
	if err != nil {
		handlers.RespondError(w, a.logger, http.StatusBadRequest, err)
		return
	}
	if a.paging != nil {
		page, ok, err := pagination.FromQuery(values, *a.paging)
		if err != nil {
			handlers.RespondError(w, a.logger, http.StatusBadRequest, err)
			return
		}
		if ok {
			q.Page = page
		}
	}

	records, err := a.sess.All(r.Context(), a.def, q)
	if err != nil {
		handlers.RespondError(w, a.logger, http.StatusInternalServerError, err)
		return
	}
	if records == nil {
		records = []model.Record{}
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

func (a *apiGroup) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := a.find(r)
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

func (a *apiGroup) Create(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := handlers.DecodeJSON(w, r, &body, a.maxBodySize); err != nil {
		handlers.RespondError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := a.def.New(body)
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	stored, err := a.write(r, "create", func(tx session.Tx) (model.Record, error) {
		return tx.Add(r.Context(), a.def, rec)
	})
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	a.logger.Info("record created", "id", stored.ID(a.def))
	handlers.RespondJSON(w, http.StatusCreated, stored)
}

// Update overwrites only the fields present in the body. The primary key
// always comes from the path.
func (a *apiGroup) Update(w http.ResponseWriter, r *http.Request) {
	current, err := a.find(r)
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	var body map[string]any
	if err := handlers.DecodeJSON(w, r, &body, a.maxBodySize); err != nil {
		handlers.RespondError(w, a.logger, http.StatusBadRequest, err)
		return
	}

	pk := a.def.PrimaryKey().Name
	delete(body, pk)

	updated, err := a.def.Apply(current, body)
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	stored, err := a.write(r, "update", func(tx session.Tx) (model.Record, error) {
		return tx.Save(r.Context(), a.def, updated)
	})
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stored)
}

func (a *apiGroup) Delete(w http.ResponseWriter, r *http.Request) {
	current, err := a.find(r)
	if err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	id := current.ID(a.def)
	if _, err := a.write(r, "delete", func(tx session.Tx) (model.Record, error) {
		return nil, tx.Delete(r.Context(), a.def, id)
	}); err != nil {
		handlers.RespondError(w, a.logger, mapHTTPStatus(err), err)
		return
	}

	a.logger.Info("record deleted", "id", id)
	handlers.RespondNoContent(w)
}

func (a *apiGroup) find(r *http.Request) (model.Record, error) {
	id, err := a.def.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return a.sess.Get(r.Context(), a.def, id)
}

// write runs fn in its own transaction, committing on success and rolling
// back on failure.
func (a *apiGroup) write(r *http.Request, op string, fn func(session.Tx) (model.Record, error)) (model.Record, error) {
	rec, err := transact(r, a.sess, fn)
	a.metrics.ObserveWrite(a.def.Key(), op, err)
	return rec, err
}

func transact(r *http.Request, sess session.System, fn func(session.Tx) (model.Record, error)) (model.Record, error) {
	tx, err := sess.Begin(r.Context())
	if err != nil {
		return nil, err
	}

	rec, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

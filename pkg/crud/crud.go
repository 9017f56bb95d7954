// Package crud generates JSON API and server-rendered HTML route groups
// that list, show, create, update and delete the records of a model.
//
// A Generator is bound to a routes.System, which receives every generated
// group, and a session.System, which stores the records:
//
//	gen := crud.NewBound(app, sess, logger)
//	if _, err := gen.GenerateRoutes(book); err != nil { ... }
//	if _, err := gen.GenerateWebRoutes(book, crud.WebOptions{}); err != nil { ... }
package crud

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/crud-generator/pkg/form"
	"github.com/JaimeStill/crud-generator/pkg/metrics"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/pagination"
	"github.com/JaimeStill/crud-generator/pkg/routes"
	"github.com/JaimeStill/crud-generator/pkg/session"
)

const (
	DefaultTemplateDir       = "templates"
	DefaultMaxBodySize int64 = 1 << 20
)

// Generator registers CRUD route groups for model definitions.
type Generator struct {
	app    routes.System
	sess   session.System
	logger *slog.Logger

	templateDir string
	maxBodySize int64
	sanitizer   form.Sanitizer
	metrics     *metrics.Metrics
	pagination  *pagination.Config
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplateDir sets the host directory templates are installed into.
func WithTemplateDir(dir string) Option {
	return func(g *Generator) { g.templateDir = dir }
}

// WithMaxBodySize caps JSON and form request bodies. Non-positive values
// keep the default.
func WithMaxBodySize(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxBodySize = n
		}
	}
}

// WithSanitizer strips markup from text fields of plain form submissions.
func WithSanitizer(s form.Sanitizer) Option {
	return func(g *Generator) { g.sanitizer = s }
}

// WithMetrics counts record writes made through generated routes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithPagination lets JSON list requests select a page with ?page= and
// ?page_size=. Without either parameter every record is returned.
func WithPagination(cfg pagination.Config) Option {
	return func(g *Generator) { g.pagination = &cfg }
}

// New creates an unbound generator. Call Init before generating routes.
func New(logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger:      logger.With("system", "crud"),
		templateDir: DefaultTemplateDir,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewBound creates a generator and binds it when both app and sess are given.
func NewBound(app routes.System, sess session.System, logger *slog.Logger, opts ...Option) *Generator {
	g := New(logger, opts...)
	if app != nil && sess != nil {
		g.Init(app, sess)
	}
	return g
}

// Init binds the generator to an application and a session. Binding again
// replaces the previous collaborators; groups already generated keep theirs.
func (g *Generator) Init(app routes.System, sess session.System) {
	g.app = app
	g.sess = sess
}

// Bound reports whether Init has supplied both collaborators.
func (g *Generator) Bound() bool {
	return g.app != nil && g.sess != nil
}

// TemplateDir returns the host template directory.
func (g *Generator) TemplateDir() string {
	return g.templateDir
}

func (g *Generator) prepare(def model.Definition) (model.Definition, error) {
	if !g.Bound() {
		return def, ErrNotBound
	}
	def.Columns = append([]model.Column(nil), def.Columns...)
	def.Normalize()
	if err := def.Validate(); err != nil {
		return def, fmt.Errorf("generate %s: %w", def.Name, err)
	}
	return def, nil
}

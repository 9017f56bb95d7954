package main

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/crud-generator/internal/config"
	"github.com/JaimeStill/crud-generator/internal/infrastructure"
	"github.com/JaimeStill/crud-generator/pkg/crud"
	"github.com/JaimeStill/crud-generator/pkg/form"
	"github.com/JaimeStill/crud-generator/pkg/lifecycle"
	"github.com/JaimeStill/crud-generator/pkg/middleware"
	"github.com/JaimeStill/crud-generator/pkg/openapi"
	"github.com/JaimeStill/crud-generator/pkg/routes"
)

// App is the assembled HTTP application: generated groups for every
// configured model plus the infrastructure endpoints.
type App struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	routes routes.System
	models []config.ModelConfig
	spec   *openapi.Spec
	pages  bool
}

// NewApp generates the route groups for every configured model. With pages
// false only the JSON API groups are generated and no templates are installed.
func NewApp(cfg *config.Config, infra *infrastructure.Infrastructure, pages bool) (*App, error) {
	models, err := cfg.ResolveModels()
	if err != nil {
		return nil, fmt.Errorf("resolve models: %w", err)
	}

	app := &App{
		cfg:    cfg,
		infra:  infra,
		routes: routes.New(infra.Logger),
		models: models,
		pages:  pages,
	}

	if err := app.generate(); err != nil {
		return nil, err
	}
	app.registerInfrastructure()

	app.spec = app.buildSpec()
	specBytes, err := openapi.MarshalJSON(app.spec)
	if err != nil {
		return nil, fmt.Errorf("render openapi: %w", err)
	}
	app.routes.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/openapi.json",
		Handler: openapi.ServeSpec(specBytes),
	})

	infra.Logger.Info("application initialized", "models", len(models))
	return app, nil
}

func (a *App) generatorOptions() []crud.Option {
	opts := []crud.Option{
		crud.WithTemplateDir(a.cfg.Web.TemplateDir),
		crud.WithMaxBodySize(a.cfg.Web.MaxBodySizeBytes()),
		crud.WithMetrics(a.infra.Metrics),
		crud.WithPagination(a.cfg.API.Pagination),
	}
	if a.cfg.Web.Sanitize {
		opts = append(opts, crud.WithSanitizer(form.NewSanitizer()))
	}
	return opts
}

func (a *App) generate() error {
	gen := crud.NewBound(a.routes, a.infra.Session, a.infra.Logger, a.generatorOptions()...)

	for _, m := range a.models {
		def := m.Definition()

		if _, err := gen.GenerateRoutes(def, crud.WithPrefix(a.cfg.API.Prefix(def.Key()))); err != nil {
			return fmt.Errorf("generate api for %s: %w", def.Name, err)
		}

		if !a.pages || m.SkipWeb {
			continue
		}
		opts := crud.WebOptions{ListConfig: m.List}
		if m.Forms {
			var formOpts []form.Option
			if a.cfg.Web.Sanitize {
				formOpts = append(formOpts, form.WithSanitizer(form.NewSanitizer()))
			}
			opts.Form = form.New(def, formOpts...)
			opts.EditForm = form.NewEdit(def, formOpts...)
		}
		if _, err := gen.GenerateWebRoutes(def, opts); err != nil {
			return fmt.Errorf("generate pages for %s: %w", def.Name, err)
		}
	}
	return nil
}

func (a *App) registerInfrastructure() {
	a.routes.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
		OpenAPI: &openapi.Operation{
			Summary: "Health check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is healthy"},
			},
		},
	})

	a.routes.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			handleReadinessCheck(w, a.infra.Lifecycle)
		},
		OpenAPI: &openapi.Operation{
			Summary: "Readiness check endpoint",
			Tags:    []string{"Infrastructure"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Service is ready"},
				503: {Description: "Service not ready"},
			},
		},
	})

	a.routes.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/metrics",
		Handler: a.infra.Metrics.Handler().ServeHTTP,
	})

	if first := a.firstPageModel(); first != "" {
		a.routes.RegisterRoute(routes.Route{
			Method:  "GET",
			Pattern: "/",
			Handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/"+first+"/", http.StatusSeeOther)
			},
		})
	}
}

func (a *App) firstPageModel() string {
	if !a.pages {
		return ""
	}
	for _, m := range a.models {
		if !m.SkipWeb {
			return m.Definition().Key()
		}
	}
	return ""
}

// buildSpec documents every generated API group and the infrastructure routes.
func (a *App) buildSpec() *openapi.Spec {
	spec := openapi.NewSpec(a.cfg.API.OpenAPI.Title, a.cfg.Version)
	spec.SetDescription(a.cfg.API.OpenAPI.Description)

	for _, g := range a.routes.Groups() {
		g.AddToSpec("", spec)
	}
	for _, r := range a.routes.Routes() {
		if r.OpenAPI != nil {
			spec.Path(r.Pattern).Set(r.Method, r.OpenAPI)
		}
	}
	return spec
}

// Spec returns the OpenAPI document of the application.
func (a *App) Spec() *openapi.Spec {
	return a.spec
}

// Handler builds the multiplexer wrapped in the middleware chain.
func (a *App) Handler() http.Handler {
	mw := middleware.New()
	mw.Use(middleware.Logger(a.infra.Logger))
	mw.Use(middleware.CORS(&a.cfg.API.CORS))
	mw.Use(a.infra.Metrics.Middleware())
	return mw.Apply(a.routes.Build())
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}

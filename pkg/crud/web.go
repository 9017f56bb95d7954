package crud

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"maps"
	"net/http"
	"os"

	"github.com/JaimeStill/crud-generator/pkg/form"
	"github.com/JaimeStill/crud-generator/pkg/metrics"
	"github.com/JaimeStill/crud-generator/pkg/model"
	"github.com/JaimeStill/crud-generator/pkg/routes"
	"github.com/JaimeStill/crud-generator/pkg/session"
	"github.com/JaimeStill/crud-generator/pkg/web"
)

// Template files rendered by generated HTML routes.
const (
	LayoutPage  = "layout.html"
	ListPage    = "list.html"
	DetailsPage = "details.html"
	CreatePage  = "create.html"
	EditPage    = "edit.html"
	FormPage    = "wtf_create.html"
)

var pages = []string{ListPage, DetailsPage, CreatePage, EditPage, FormPage}

// ListConfig selects what the list page shows. Keys are not checked
// against the model; unknown keys render empty cells.
type ListConfig struct {
	Keys              []string `toml:"keys" yaml:"keys"`
	DetailsPropertyOn string   `toml:"details_property_on" yaml:"details_property_on"`
	UniqueIdentifier  string   `toml:"unique_identifier" yaml:"unique_identifier"`
}

// withDefaults fills Keys with every column, UniqueIdentifier with the
// primary key and DetailsPropertyOn with the first key.
func (c *ListConfig) withDefaults(def model.Definition) ListConfig {
	var out ListConfig
	if c != nil {
		out = *c
		out.Keys = append([]string(nil), c.Keys...)
	}
	if len(out.Keys) == 0 {
		out.Keys = def.ColumnNames()
	}
	if out.UniqueIdentifier == "" {
		out.UniqueIdentifier = def.PrimaryKey().Name
	}
	if out.DetailsPropertyOn == "" && len(out.Keys) > 0 {
		out.DetailsPropertyOn = out.Keys[0]
	}
	return out
}

// WebOptions customizes a generated HTML group. Form and EditForm switch
// the create and edit pages from plain column inputs to form descriptors.
type WebOptions struct {
	GroupName  string
	Prefix     string
	Form       form.Factory
	EditForm   form.EditFactory
	ListConfig *ListConfig
}

// NavLink is one entry of the page navigation.
type NavLink struct {
	Label string
	URL   string
}

// Page is the data every generated template receives.
type Page struct {
	ModelName  string
	Items      []model.Record
	Item       model.Record
	Keys       []string
	ListConfig ListConfig
	DetailsURL string
	EditURL    string
	Columns    []model.Column
	Form       form.Form
	Action     string
	NavLinks   []NavLink
}

// webGroup holds the parameters of one generated HTML group.
type webGroup struct {
	def       model.Definition
	sess      session.System
	logger    *slog.Logger
	metrics   *metrics.Metrics
	templates *web.TemplateSet
	sanitizer form.Sanitizer
	maxBody   int64

	form     form.Factory
	editForm form.EditFactory
	list     ListConfig

	listURL    string
	createURL  string
	detailsURL string
	editURL    string
}

// GenerateWebRoutes installs the bundled templates into the host template
// directory, overwriting same-named files, then registers an HTML group
// for def and returns it.
//
//	GET      /           list page
//	GET      /{id}       details page
//	GET|POST /create/    create page
//	GET|POST /edit/{id}  edit page
func (g *Generator) GenerateWebRoutes(def model.Definition, opts WebOptions) (routes.Group, error) {
	def, err := g.prepare(def)
	if err != nil {
		return routes.Group{}, err
	}

	if _, err := InstallTemplates(g.templateDir); err != nil {
		return routes.Group{}, err
	}
	ts, err := web.NewTemplateSet(os.DirFS(g.templateDir), LayoutPage, pages, templateFuncs)
	if err != nil {
		return routes.Group{}, fmt.Errorf("load templates from %s: %w", g.templateDir, err)
	}

	name := opts.GroupName
	if name == "" {
		name = def.Key()
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "/" + name
	}

	wg := &webGroup{
		def:        def,
		sess:       g.sess,
		logger:     g.logger.With("group", name),
		metrics:    g.metrics,
		templates:  ts,
		sanitizer:  g.sanitizer,
		maxBody:    g.maxBodySize,
		form:       opts.Form,
		editForm:   opts.EditForm,
		list:       opts.ListConfig.withDefaults(def),
		listURL:    prefix + "/",
		createURL:  prefix + "/create/",
		detailsURL: prefix + "/",
		editURL:    prefix + "/edit/",
	}

	group := routes.Group{
		Prefix: prefix,
		Name:   name,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/", Handler: wg.List},
			{Method: "GET", Pattern: "/{id}", Handler: wg.Details},
			{Method: "GET", Pattern: "/create/", Handler: wg.Create},
			{Method: "POST", Pattern: "/create/", Handler: wg.Create},
			{Method: "GET", Pattern: "/edit/{id}", Handler: wg.Edit},
			{Method: "POST", Pattern: "/edit/{id}", Handler: wg.Edit},
		},
	}

	g.app.RegisterGroup(group)
	return group, nil
}

var templateFuncs = template.FuncMap{
	"field": func(rec model.Record, key string) string {
		return form.FormatValue(rec[key])
	},
	"value":     form.FormatValue,
	"inputType": form.InputType,
}

func (wg *webGroup) navLinks() []NavLink {
	return []NavLink{
		{Label: "List", URL: wg.listURL},
		{Label: "Create", URL: wg.createURL},
	}
}

func (wg *webGroup) page() Page {
	return Page{
		ModelName:  wg.def.Name,
		Keys:       wg.list.Keys,
		ListConfig: wg.list,
		DetailsURL: wg.detailsURL,
		EditURL:    wg.editURL,
		Columns:    wg.def.EditableColumns(),
		NavLinks:   wg.navLinks(),
	}
}

func (wg *webGroup) render(w http.ResponseWriter, status int, name string, p Page) {
	if err := wg.templates.Render(w, status, name, p); err != nil {
		wg.logger.Error("render failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (wg *webGroup) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, wg.listURL, http.StatusSeeOther)
}

func (wg *webGroup) List(w http.ResponseWriter, r *http.Request) {
	q, err := listQuery(wg.def, r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := wg.sess.All(r.Context(), wg.def, q)
	if err != nil {
		wg.logger.Error("list failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p := wg.page()
	p.Items = records
	wg.render(w, http.StatusOK, ListPage, p)
}

func (wg *webGroup) Details(w http.ResponseWriter, r *http.Request) {
	rec, ok := wg.find(w, r)
	if !ok {
		return
	}

	p := wg.page()
	p.Item = rec
	p.Columns = wg.def.Columns
	wg.render(w, http.StatusOK, DetailsPage, p)
}

func (wg *webGroup) Create(w http.ResponseWriter, r *http.Request) {
	wg.limitBody(w, r)
	if wg.form != nil {
		wg.createWithForm(w, r)
		return
	}

	p := wg.page()
	p.Action = wg.createURL

	if r.Method != http.MethodPost {
		wg.render(w, http.StatusOK, CreatePage, p)
		return
	}

	if err := wg.createPlain(r); err != nil {
		wg.logger.Warn("create failed", "error", err)
		wg.render(w, http.StatusOK, CreatePage, p)
		return
	}
	wg.redirect(w, r)
}

// createPlain builds a record from the submitted fields that name columns,
// ignoring the rest. Failures roll back the transaction.
func (wg *webGroup) createPlain(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	tx, err := wg.sess.Begin(r.Context())
	if err != nil {
		return err
	}

	rec, err := wg.buildPlain(r)
	if err == nil {
		_, err = tx.Add(r.Context(), wg.def, rec)
	}
	if err != nil {
		tx.Rollback()
		wg.metrics.ObserveWrite(wg.def.Key(), "create", err)
		return err
	}

	err = tx.Commit()
	wg.metrics.ObserveWrite(wg.def.Key(), "create", err)
	return err
}

func (wg *webGroup) buildPlain(r *http.Request) (model.Record, error) {
	submitted := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		if !wg.def.HasColumn(name) {
			continue
		}
		v := r.PostForm.Get(name)
		if col, _ := wg.def.Column(name); wg.sanitizer != nil && col.Type == model.TypeText {
			v = wg.sanitizer.Sanitize(v)
		}
		submitted[name] = v
	}

	values, err := form.Values(wg.def, submitted)
	if err != nil {
		return nil, err
	}
	return wg.def.New(values)
}

func (wg *webGroup) createWithForm(w http.ResponseWriter, r *http.Request) {
	f := wg.form(w, r)
	p := wg.page()
	p.Form = f
	p.Action = wg.createURL

	if !f.ValidateOnSubmit(r) {
		wg.render(w, http.StatusOK, FormPage, p)
		return
	}

	_, err := transact(r, wg.sess, func(tx session.Tx) (model.Record, error) {
		values, err := form.Values(wg.def, f.Data())
		if err != nil {
			return nil, err
		}
		rec, err := wg.def.New(values)
		if err != nil {
			return nil, err
		}
		return tx.Add(r.Context(), wg.def, rec)
	})
	wg.metrics.ObserveWrite(wg.def.Key(), "create", err)
	if err != nil {
		wg.logger.Warn("create failed", "error", err)
		wg.render(w, http.StatusOK, FormPage, p)
		return
	}
	wg.redirect(w, r)
}

func (wg *webGroup) Edit(w http.ResponseWriter, r *http.Request) {
	rec, ok := wg.find(w, r)
	if !ok {
		return
	}
	wg.limitBody(w, r)

	if wg.editForm != nil {
		wg.editWithForm(w, r, rec)
		return
	}

	if r.Method != http.MethodPost {
		p := wg.page()
		p.Item = rec
		p.Action = wg.editURL + form.FormatValue(rec.ID(wg.def))
		wg.render(w, http.StatusOK, EditPage, p)
		return
	}

	if err := wg.editPlain(r, rec); err != nil {
		wg.logger.Error("edit failed", "id", rec.ID(wg.def), "error", err)
	}
	wg.redirect(w, r)
}

// editPlain assigns each submitted column field verbatim and saves the
// record. The primary key is never reassigned.
func (wg *webGroup) editPlain(r *http.Request, rec model.Record) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	pk := wg.def.PrimaryKey().Name
	submitted := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		if name == pk {
			continue
		}
		v := r.PostForm.Get(name)
		if col, ok := wg.def.Column(name); ok && wg.sanitizer != nil && col.Type == model.TypeText {
			v = wg.sanitizer.Sanitize(v)
		}
		submitted[name] = v
	}

	updated := wg.def.ApplyRaw(rec, submitted)
	_, err := transact(r, wg.sess, func(tx session.Tx) (model.Record, error) {
		return tx.Save(r.Context(), wg.def, updated)
	})
	wg.metrics.ObserveWrite(wg.def.Key(), "update", err)
	return err
}

func (wg *webGroup) editWithForm(w http.ResponseWriter, r *http.Request, rec model.Record) {
	f := wg.editForm(w, r, rec)
	p := wg.page()
	p.Item = rec
	p.Form = f
	p.Action = wg.editURL + form.FormatValue(rec.ID(wg.def))

	if !f.ValidateOnSubmit(r) {
		wg.render(w, http.StatusOK, FormPage, p)
		return
	}

	data := maps.Clone(f.Data())
	delete(data, form.CSRFField)
	delete(data, wg.def.PrimaryKey().Name)

	_, err := transact(r, wg.sess, func(tx session.Tx) (model.Record, error) {
		values, err := form.Values(wg.def, data)
		if err != nil {
			return nil, err
		}
		updated, err := wg.def.Apply(rec, values)
		if err != nil {
			return nil, err
		}
		return tx.Save(r.Context(), wg.def, updated)
	})
	wg.metrics.ObserveWrite(wg.def.Key(), "update", err)
	if err != nil {
		wg.logger.Warn("edit failed", "id", rec.ID(wg.def), "error", err)
		wg.render(w, http.StatusOK, FormPage, p)
		return
	}
	wg.redirect(w, r)
}

// find loads the record named by the {id} path value, writing a 404 page
// when it does not exist.
func (wg *webGroup) find(w http.ResponseWriter, r *http.Request) (model.Record, bool) {
	id, err := wg.def.ParseID(r.PathValue("id"))
	if err == nil {
		var rec model.Record
		rec, err = wg.sess.Get(r.Context(), wg.def, id)
		if err == nil {
			return rec, true
		}
	}

	if errors.Is(err, session.ErrNotFound) || errors.Is(err, model.ErrInvalidID) {
		web.NotFound(w)
		return nil, false
	}
	wg.logger.Error("lookup failed", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	return nil, false
}

func (wg *webGroup) limitBody(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && wg.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, wg.maxBody)
	}
}

// Package web renders server-side HTML pages from a template directory.
// Templates are parsed once when the set is built so broken templates fail
// at startup rather than per request.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// LayoutTemplate is the name every page is rendered through.
const LayoutTemplate = "layout"

// TemplateSet holds one pre-parsed template tree per page, each a clone of
// the shared layout.
type TemplateSet struct {
	pages map[string]*template.Template
}

// NewTemplateSet parses layoutFile from fsys and clones it for each page.
// Pages define the blocks the layout leaves open ("title", "content").
func NewTemplateSet(fsys fs.FS, layoutFile string, pages []string, funcs template.FuncMap) (*TemplateSet, error) {
	layout, err := template.New(layoutFile).Funcs(funcs).ParseFS(fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", layoutFile, err)
	}

	set := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", p, err)
		}
		if _, err := t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", p, err)
		}
		set[p] = t
	}

	return &TemplateSet{pages: set}, nil
}

// Has reports whether page was parsed into the set.
func (ts *TemplateSet) Has(page string) bool {
	_, ok := ts.pages[page]
	return ok
}

// Render executes page through the layout and writes it with status.
// Output is buffered so a failed execution never sends a partial page.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := ts.pages[page]
	if !ok {
		return fmt.Errorf("template not found: %s", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, LayoutTemplate, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// NotFound writes a minimal HTML 404 page.
func NotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, "<!doctype html><title>404 Not Found</title><h1>Not Found</h1>"+
		"<p>The requested record does not exist.</p>")
}

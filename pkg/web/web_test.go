package web_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/crud-generator/pkg/web"
)

var testFS = fstest.MapFS{
	"layout.html": {Data: []byte(`{{define "layout"}}<title>{{template "title" .}}</title>{{template "content" .}}{{end}}`)},
	"list.html":   {Data: []byte(`{{define "title"}}List{{end}}{{define "content"}}<ul>{{range .Items}}<li>{{shout .}}</li>{{end}}</ul>{{end}}`)},
	"broken.html": {Data: []byte(`{{define "content"}}{{.Missing.Field}}{{end}}`)},
}

var funcs = template.FuncMap{"shout": strings.ToUpper}

func TestRender(t *testing.T) {
	ts, err := web.NewTemplateSet(testFS, "layout.html", []string{"list.html"}, funcs)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	data := struct{ Items []string }{Items: []string{"dune", "<emma>"}}
	if err := ts.Render(rec, http.StatusOK, "list.html", data); err != nil {
		t.Fatal(err)
	}

	want := `<title>List</title><ul><li>DUNE</li><li>&lt;EMMA&gt;</li></ul>`
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	ts, err := web.NewTemplateSet(testFS, "layout.html", nil, funcs)
	if err != nil {
		t.Fatal(err)
	}
	if ts.Has("list.html") {
		t.Error("list.html should not be parsed")
	}
	if err := ts.Render(httptest.NewRecorder(), http.StatusOK, "list.html", nil); err == nil {
		t.Error("expected error for unknown page")
	}
}

func TestRenderFailureWritesNothing(t *testing.T) {
	ts, err := web.NewTemplateSet(testFS, "layout.html", []string{"broken.html"}, funcs)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	if err := ts.Render(rec, http.StatusOK, "broken.html", struct{}{}); err == nil {
		t.Fatal("expected execution error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("partial output written: %q", rec.Body.String())
	}
}

func TestNewTemplateSetMissingFile(t *testing.T) {
	if _, err := web.NewTemplateSet(testFS, "layout.html", []string{"nope.html"}, funcs); err == nil {
		t.Error("expected error for missing page")
	}
	if _, err := web.NewTemplateSet(testFS, "nope.html", nil, funcs); err == nil {
		t.Error("expected error for missing layout")
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	web.NotFound(rec)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Not Found") {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_WEB_MAX_BODY_SIZE", "2MB")
	t.Setenv("TEST_WEB_SANITIZE", "true")

	cfg := &web.Config{}
	if err := cfg.Finalize(&web.Env{MaxBodySize: "TEST_WEB_MAX_BODY_SIZE", Sanitize: "TEST_WEB_SANITIZE"}); err != nil {
		t.Fatal(err)
	}
	if cfg.TemplateDir != "templates" {
		t.Errorf("TemplateDir = %q, want templates", cfg.TemplateDir)
	}
	if cfg.MaxBodySizeBytes() != 2*1024*1024 {
		t.Errorf("MaxBodySizeBytes = %d, want %d", cfg.MaxBodySizeBytes(), 2*1024*1024)
	}
	if !cfg.Sanitize {
		t.Error("Sanitize should be true")
	}
}

func TestConfigInvalidSize(t *testing.T) {
	cfg := &web.Config{MaxBodySize: "lots"}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for invalid size")
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := &web.Config{TemplateDir: "a", MaxBodySize: "1MB"}
	cfg.Merge(&web.Config{TemplateDir: "b"})
	if cfg.TemplateDir != "b" || cfg.MaxBodySize != "1MB" {
		t.Errorf("merged = %+v", cfg)
	}
}

package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/crud-generator/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Name        string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Route represents an HTTP route with method, pattern, and handler.
// A nil OpenAPI operation keeps the route out of the published document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Patterns returns the ServeMux paths for a route mounted at prefix.
// A path ending in "/" matches exactly (via {$}) and is also registered
// without the trailing slash, so "/api/book/" answers both /api/book and /api/book/.
// An empty prefix and pattern yields the "/" catch-all.
func Patterns(prefix, pattern string) []string {
	full := prefix + pattern
	if full == "" {
		return []string{"/"}
	}
	if !strings.HasSuffix(full, "/") {
		return []string{full}
	}
	if full == "/" {
		return []string{"/{$}"}
	}
	return []string{full + "{$}", strings.TrimSuffix(full, "/")}
}

// SpecPath returns the OpenAPI path for a route mounted at prefix.
func SpecPath(prefix, pattern string) string {
	full := prefix + pattern
	if len(full) > 1 {
		full = strings.TrimSuffix(full, "/")
	}
	if full == "" {
		return "/"
	}
	return full
}

// AddToSpec publishes the group's operations and schemas under basePath.
// Operations without tags inherit the group's tags.
func (g Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.addToSpec(basePath, spec)
}

func (g Group) addToSpec(parentPrefix string, spec *openapi.Spec) {
	prefix := parentPrefix + g.Prefix

	for _, route := range g.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := route.OpenAPI
		if len(op.Tags) == 0 && len(g.Tags) > 0 {
			op.Tags = g.Tags
		}
		spec.Path(SpecPath(prefix, route.Pattern)).Set(route.Method, op)
	}

	if len(g.Schemas) > 0 && spec.Components != nil {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, child := range g.Children {
		child.addToSpec(prefix, spec)
	}
}

func register(mux *http.ServeMux, parentPrefix string, g Group, seen map[string]struct{}) {
	prefix := parentPrefix + g.Prefix
	for _, route := range g.Routes {
		for _, path := range Patterns(prefix, route.Pattern) {
			pattern := route.Method + " " + path
			if _, dup := seen[pattern]; dup {
				continue
			}
			seen[pattern] = struct{}{}
			mux.HandleFunc(pattern, route.Handler)
		}
	}
	for _, child := range g.Children {
		register(mux, prefix, child, seen)
	}
}

package routes

import (
	"log/slog"
	"net/http"
)

// System collects route groups from their producers and builds the
// multiplexer that serves them.
type System interface {
	RegisterGroup(group Group)
	RegisterRoute(route Route)
	Build() http.Handler
	Groups() []Group
	Routes() []Route
}

type system struct {
	routes []Route
	groups []Group
	logger *slog.Logger
}

// New creates a ServeMux-backed route system.
func New(logger *slog.Logger) System {
	return &system{
		logger: logger.With("system", "routes"),
		groups: []Group{},
		routes: []Route{},
	}
}

func (s *system) Groups() []Group {
	return s.groups
}

func (s *system) Routes() []Route {
	return s.routes
}

func (s *system) RegisterRoute(route Route) {
	s.routes = append(s.routes, route)
}

func (s *system) RegisterGroup(group Group) {
	s.groups = append(s.groups, group)
	s.logger.Info("route group registered", "name", group.Name, "prefix", group.Prefix, "routes", len(group.Routes))
}

// Build registers every standalone route and group on a new ServeMux.
func (s *system) Build() http.Handler {
	mux := http.NewServeMux()
	seen := make(map[string]struct{})

	for _, route := range s.routes {
		for _, path := range Patterns("", route.Pattern) {
			pattern := route.Method + " " + path
			if _, dup := seen[pattern]; dup {
				continue
			}
			seen[pattern] = struct{}{}
			mux.HandleFunc(pattern, route.Handler)
		}
	}

	for _, group := range s.groups {
		register(mux, "", group, seen)
	}
	return mux
}

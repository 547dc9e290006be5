// Package routes defines the route declarations that handlers expose and
// modules register onto their muxes.
package routes

import (
	"fmt"
	"net/http"
)

// Route binds an HTTP method and pattern to a handler. Pattern follows
// net/http ServeMux syntax and is relative to the owning group's prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group collects routes under a shared prefix. Children inherit the
// accumulated prefix of their ancestors.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register registers every group's routes on mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		g.Register(mux)
	}
}

// Register walks the group tree and registers every route on mux.
func (g Group) Register(mux *http.ServeMux) {
	g.register(mux, "")
}

func (g Group) register(mux *http.ServeMux, parent string) {
	prefix := parent + g.Prefix

	for _, r := range g.Routes {
		pattern := fmt.Sprintf("%s %s%s", r.Method, prefix, r.Pattern)
		mux.HandleFunc(pattern, r.Handler)
	}

	for _, child := range g.Children {
		child.register(mux, prefix)
	}
}

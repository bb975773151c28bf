// Package routes declares the console's route table and builds the
// application router from it.
package routes

import (
	"log/slog"

	"github.com/vango-dev/adminshell/internal/pages"
	"github.com/vango-dev/adminshell/pkg/history"
	"github.com/vango-dev/adminshell/pkg/router"
)

// Route paths.
const (
	PathRoot       = "/"
	PathResources  = "/resources"
	PathCategories = "/categories"
	PathUsers      = "/users"
	PathLogs       = "/logs"
)

// Route names.
const (
	NameResources  = "Resources"
	NameCategories = "Categories"
	NameUsers      = "Users"
	NameLogs       = "Logs"
)

// Components are the pages bound into the table.
type Components struct {
	Resources  router.Component
	Categories router.Component
	Users      router.Component
	Logs       router.Component
}

// DefaultComponents returns the console's own pages.
func DefaultComponents() Components {
	return Components{
		Resources:  pages.Resources,
		Categories: pages.Categories,
		Users:      pages.Users,
		Logs:       pages.Logs,
	}
}

// Table returns the route table in declaration order. The root redirects to
// the resources page.
func Table(c Components) []router.RouteDescriptor {
	return []router.RouteDescriptor{
		{Path: PathRoot, Redirect: PathResources},
		{Path: PathResources, Name: NameResources, Component: c.Resources},
		{Path: PathCategories, Name: NameCategories, Component: c.Categories},
		{Path: PathUsers, Name: NameUsers, Component: c.Users},
		{Path: PathLogs, Name: NameLogs, Component: c.Logs},
	}
}

// Option configures New.
type Option func(*router.Options)

// WithLogger sets the router's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *router.Options) { o.Logger = l }
}

// New builds the router over Table(c). A nil h uses path-based web history
// at the root.
func New(h history.Strategy, c Components, opts ...Option) (*router.Router, error) {
	if h == nil {
		h = history.NewWeb("")
	}
	o := router.Options{History: h, Routes: Table(c)}
	for _, opt := range opts {
		opt(&o)
	}
	return router.New(o)
}

// MustNew is like New but panics on error.
func MustNew(h history.Strategy, c Components, opts ...Option) *router.Router {
	r, err := New(h, c, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the application router: web history and the console's
// pages.
func Default() *router.Router {
	return MustNew(nil, DefaultComponents())
}

package router

import (
	"io"
	"net/url"
)

// Component is a renderable page.
type Component interface {
	// Name identifies the component in manifests and logs.
	Name() string

	// Render writes the component's HTML for the resolved location.
	Render(w io.Writer, loc *Location) error
}

// RouteDescriptor is one entry in the route table.
type RouteDescriptor struct {
	// Path is the URL pattern ("/users", "/users/:id", "/files/*rest").
	Path string

	// Name optionally identifies the route. Names are unique across a table.
	Name string

	// Component renders the route. Mutually exclusive with Redirect.
	Component Component

	// Redirect is the path this route forwards to, optionally with a query
	// and hash that replace the requested ones. Mutually exclusive with
	// Component.
	Redirect string
}

// IsRedirect reports whether the descriptor forwards elsewhere.
func (d RouteDescriptor) IsRedirect() bool {
	return d.Redirect != ""
}

// Location is the result of resolving a navigation target.
type Location struct {
	// Path is the canonical path that matched.
	Path string

	// FullPath is Path plus query and hash.
	FullPath string

	// Query is the raw query string, without "?".
	Query string

	// Hash is the fragment, without "#".
	Hash string

	// Name is the matched route's name, if any.
	Name string

	// Route is a copy of the matched descriptor.
	Route RouteDescriptor

	// Params are the values captured by :param and *catchAll segments.
	Params map[string]string

	// RedirectedFrom is the path originally requested when one or more
	// redirects were followed.
	RedirectedFrom string
}

// QueryValues parses the query string.
func (l *Location) QueryValues() url.Values {
	v, _ := url.ParseQuery(l.Query)
	return v
}

// Guard runs before a navigation is confirmed. Returning nil lets it
// proceed, RedirectTo sends it elsewhere, any other error aborts it.
// Guards must not navigate the router they are registered on.
type Guard func(to, from *Location) error

// Hook runs after a navigation settles. failure is nil on success.
type Hook func(to, from *Location, failure error)

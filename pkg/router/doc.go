// Package router maps URL paths to page components.
//
// A Router is built once from an ordered table of RouteDescriptor values and
// a history strategy:
//
//	r, err := router.New(router.Options{
//	    History: history.NewWeb(""),
//	    Routes: []router.RouteDescriptor{
//	        {Path: "/", Redirect: "/resources"},
//	        {Path: "/resources", Name: "Resources", Component: resources},
//	        {Path: "/users/:id", Name: "User", Component: userDetail},
//	    },
//	})
//
// The table is validated at construction: paths must be canonical and unique,
// names unique, every descriptor carries exactly one of Component or
// Redirect, and every redirect chain must end on a component route. The
// router keeps its own copy of the table; it never changes afterwards.
//
// # Matching
//
// Paths are matched segment by segment against a radix tree. At each level
// a static segment wins over a :param segment, which wins over a trailing
// *catchAll segment. Redirect routes are followed transparently:
//
//	loc, err := r.Resolve("/")
//	// loc.Name == "Resources", loc.RedirectedFrom == "/"
//
// Resolve is pure and safe to call from any goroutine.
//
// # Navigation
//
// Push, Replace, Back, Forward and Go move through the history strategy.
// Guards registered with BeforeEach may abort a navigation by returning an
// error or send it elsewhere by returning RedirectTo. Hooks registered with
// AfterEach observe every completed or failed navigation. Fork gives each
// live session its own navigation state over the shared table.
package router

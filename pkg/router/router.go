package router

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/adminshell/pkg/history"
	"github.com/vango-dev/adminshell/pkg/routepath"
)

// MaxRedirects bounds redirect chains, both in the table and from guards.
const MaxRedirects = 10

// Options configures New.
type Options struct {
	// History is the strategy navigation is recorded in. Required.
	History history.Strategy

	// Routes is the ordered route table.
	Routes []RouteDescriptor

	// Logger receives navigation debug logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// table is the immutable, validated route table shared by forks.
type table struct {
	routes []RouteDescriptor
	byName map[string]int
	root   *routeNode
}

// Router resolves paths against a route table and drives navigation
// through a history strategy.
type Router struct {
	table   *table
	history history.Strategy
	logger  *slog.Logger

	// navMu serializes navigations
	navMu sync.Mutex

	// mu guards current and the hook lists
	mu      sync.RWMutex
	current *Location
	guards  map[int]Guard
	hooks   map[int]Hook
	nextID  int

	unlisten  func()
	ignorePop atomic.Bool
}

// New validates the route table and creates a router over it.
func New(opts Options) (*Router, error) {
	if opts.History == nil {
		return nil, &ConfigError{Index: -1, Err: ErrNoHistory}
	}

	t, err := buildTable(opts.Routes)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return newRouter(t, opts.History, logger.With("component", "router")), nil
}

func newRouter(t *table, h history.Strategy, logger *slog.Logger) *Router {
	r := &Router{
		table:   t,
		history: h,
		logger:  logger,
		guards:  make(map[int]Guard),
		hooks:   make(map[int]Hook),
	}
	r.unlisten = h.Listen(r.onPop)
	return r
}

// Fork returns a router over the same table with its own history and
// navigation state. Guards and hooks are not carried over.
func (r *Router) Fork(h history.Strategy) *Router {
	return newRouter(r.table, h, r.logger)
}

// Close detaches the router from its history.
func (r *Router) Close() {
	if r.unlisten != nil {
		r.unlisten()
	}
}

func buildTable(routes []RouteDescriptor) (*table, error) {
	t := &table{
		routes: make([]RouteDescriptor, len(routes)),
		byName: make(map[string]int),
		root:   newRouteNode(""),
	}
	copy(t.routes, routes)

	for i, d := range t.routes {
		if d.Path == "" || !strings.HasPrefix(d.Path, "/") || !routepath.IsCanonical(d.Path) || !validPattern(d.Path) {
			return nil, &ConfigError{Index: i, Path: d.Path, Err: ErrInvalidPath}
		}
		switch {
		case d.Component != nil && d.Redirect != "":
			return nil, &ConfigError{Index: i, Path: d.Path, Err: ErrComponentAndRedirect}
		case d.Component == nil && d.Redirect == "":
			return nil, &ConfigError{Index: i, Path: d.Path, Err: ErrNoDestination}
		}
		if d.Name != "" {
			if _, dup := t.byName[d.Name]; dup {
				return nil, &ConfigError{Index: i, Path: d.Path, Err: ErrDuplicateName}
			}
			t.byName[d.Name] = i
		}

		node, err := t.root.insert(d.Path)
		if err != nil {
			return nil, &ConfigError{Index: i, Path: d.Path, Err: err}
		}
		if node.route >= 0 {
			return nil, &ConfigError{Index: i, Path: d.Path, Err: ErrDuplicatePath}
		}
		node.route = i
	}

	for i, d := range t.routes {
		if !d.IsRedirect() {
			continue
		}
		if err := t.checkRedirect(d.Redirect); err != nil {
			return nil, &ConfigError{Index: i, Path: d.Path, Err: err}
		}
	}

	return t, nil
}

// checkRedirect follows a redirect chain and requires it to end on a
// component route. Targets may carry a query and hash, but their path must
// be canonical.
func (t *table) checkRedirect(target string) error {
	seen := make(map[int]bool)
	for hops := 0; hops <= MaxRedirects; hops++ {
		res, err := routepath.Canonicalize(target)
		if err != nil || res.Changed {
			return ErrRedirectTarget
		}
		idx, _, ok := t.match(res.Path)
		if !ok {
			return ErrRedirectTarget
		}
		if seen[idx] {
			return ErrRedirectLoop
		}
		seen[idx] = true
		next := t.routes[idx]
		if !next.IsRedirect() {
			return nil
		}
		target = next.Redirect
	}
	return ErrRedirectLoop
}

// match looks up a canonical path.
func (t *table) match(path string) (int, map[string]string, bool) {
	segments, err := routepath.Segments(path)
	if err != nil {
		return -1, nil, false
	}
	params := make(map[string]string)
	node, ok := t.root.match(segments, params)
	if !ok {
		return -1, nil, false
	}
	return node.route, params, true
}

// Routes returns a copy of the table in declaration order.
func (r *Router) Routes() []RouteDescriptor {
	out := make([]RouteDescriptor, len(r.table.routes))
	copy(out, r.table.routes)
	return out
}

// History returns the router's history strategy.
func (r *Router) History() history.Strategy {
	return r.history
}

// Lookup returns the descriptor for a route name.
func (r *Router) Lookup(name string) (RouteDescriptor, bool) {
	idx, ok := r.table.byName[name]
	if !ok {
		return RouteDescriptor{}, false
	}
	return r.table.routes[idx], true
}

// Resolve canonicalizes target, matches it and follows redirects.
// Unmatched paths fail with a NavigationNoMatch *NavigationError.
func (r *Router) Resolve(target string) (*Location, error) {
	res, err := routepath.Canonicalize(target)
	if err != nil {
		return nil, &NavigationError{Kind: NavigationInvalid, To: target, Err: err}
	}
	return r.resolve(res)
}

func (r *Router) resolve(res routepath.Result) (*Location, error) {
	var redirectedFrom string
	for hops := 0; ; hops++ {
		idx, params, ok := r.table.match(res.Path)
		if !ok {
			return nil, &NavigationError{Kind: NavigationNoMatch, To: res.FullPath(), Err: ErrNoMatch}
		}

		d := r.table.routes[idx]
		if !d.IsRedirect() {
			full := res.FullPath()
			return &Location{
				Path:           res.Path,
				FullPath:       full,
				Query:          res.Query,
				Hash:           res.Hash,
				Name:           d.Name,
				Route:          d,
				Params:         params,
				RedirectedFrom: redirectedFrom,
			}, nil
		}

		if hops >= MaxRedirects {
			return nil, &NavigationError{Kind: NavigationNoMatch, To: res.FullPath(), Err: ErrRedirectLoop}
		}
		if redirectedFrom == "" {
			redirectedFrom = res.Path
		}

		next, err := routepath.Canonicalize(d.Redirect)
		if err != nil {
			return nil, &NavigationError{Kind: NavigationInvalid, To: d.Redirect, Err: err}
		}
		// A literal redirect keeps the original query and hash unless it
		// specifies its own.
		if next.Query == "" {
			next.Query = res.Query
		}
		if next.Hash == "" {
			next.Hash = res.Hash
		}
		res = next
	}
}

// ResolveName builds the path of a named route from params and resolves it.
func (r *Router) ResolveName(name string, params map[string]string) (*Location, error) {
	idx, ok := r.table.byName[name]
	if !ok {
		return nil, &NavigationError{Kind: NavigationNoMatch, To: name, Err: ErrUnknownName}
	}

	pattern := r.table.routes[idx].Path
	segments := splitPath(pattern)
	built := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			v, ok := params[seg[1:]]
			if !ok || v == "" {
				return nil, &NavigationError{Kind: NavigationInvalid, To: pattern, Err: ErrMissingParam}
			}
			built = append(built, url.PathEscape(v))
		case strings.HasPrefix(seg, "*"):
			v, ok := params[seg[1:]]
			if !ok || v == "" {
				return nil, &NavigationError{Kind: NavigationInvalid, To: pattern, Err: ErrMissingParam}
			}
			for _, part := range strings.Split(strings.Trim(v, "/"), "/") {
				built = append(built, url.PathEscape(part))
			}
		default:
			built = append(built, seg)
		}
	}

	return r.Resolve("/" + strings.Join(built, "/"))
}

// Href renders a location as an href for the router's history strategy.
func (r *Router) Href(loc *Location) string {
	if loc == nil {
		return r.history.CreateHref("/")
	}
	return r.history.CreateHref(loc.FullPath)
}

package history

import (
	"net/url"
	"strings"

	"github.com/vango-dev/adminshell/pkg/routepath"
)

// Web is the path-based strategy, the equivalent of HTML5 pushState history.
type Web struct {
	*stack
	base string
}

// NewWeb creates a path-based history rooted at base.
func NewWeb(base string, opts ...Option) *Web {
	o := collect(opts)
	base = normalizeBase(base)
	return &Web{
		stack: newStack(stripBase(base, o.initialURL)),
		base:  base,
	}
}

// Base implements Strategy.
func (w *Web) Base() string { return w.base }

// Location implements Strategy.
func (w *Web) Location() string { return w.location() }

// Push implements Strategy.
func (w *Web) Push(to string) { w.push(to) }

// Replace implements Strategy.
func (w *Web) Replace(to string) { w.replace(to) }

// Go implements Strategy.
func (w *Web) Go(delta int) bool { return w.goDelta(delta) }

// Listen implements Strategy.
func (w *Web) Listen(fn Listener) func() { return w.listen(fn) }

// Len implements Strategy.
func (w *Web) Len() int { return w.len() }

// CreateHref implements Strategy.
func (w *Web) CreateHref(path string) string {
	return routepath.Join(w.base, path)
}

// StripBase returns the route path of a URL (absolute or path-only) served
// under base. A path-only URL is taken as a request path, so "//users" is
// the path "/users" rather than a host. ok is false when the URL lies
// outside base or cannot be parsed.
func StripBase(base, raw string) (path string, ok bool) {
	base = normalizeBase(base)
	if raw == "" {
		return "/", true
	}

	var p, query, fragment string
	if strings.HasPrefix(raw, "/") {
		var rest string
		rest, fragment, _ = strings.Cut(raw, "#")
		p, query, _ = strings.Cut(rest, "?")
		p = "/" + strings.TrimLeft(p, "/")
	} else {
		u, err := url.Parse(raw)
		if err != nil {
			return "/", false
		}
		p, query, fragment = u.EscapedPath(), u.RawQuery, u.EscapedFragment()
	}

	if base != "" {
		if p != base && !strings.HasPrefix(p, base+"/") {
			return "/", false
		}
		p = strings.TrimPrefix(p, base)
	}
	if p == "" {
		p = "/"
	}
	if query != "" {
		p += "?" + query
	}
	if fragment != "" {
		p += "#" + fragment
	}
	return p, true
}

// stripBase is StripBase with URLs outside base starting at "/".
func stripBase(base, raw string) string {
	p, _ := StripBase(base, raw)
	return p
}

// normalizeBase ensures a leading slash and drops the trailing one. The
// root base normalizes to "".
func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || base == "/" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimRight(base, "/")
}

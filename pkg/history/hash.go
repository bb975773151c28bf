package history

import (
	"net/url"
	"strings"
)

// Hash keeps the route path in the URL fragment, so the server only ever
// sees the base path.
type Hash struct {
	*stack
	base string
}

// NewHash creates a fragment-based history rooted at base.
func NewHash(base string, opts ...Option) *Hash {
	o := collect(opts)
	return &Hash{
		stack: newStack(fragmentPath(o.initialURL)),
		base:  normalizeBase(base),
	}
}

// Base implements Strategy.
func (h *Hash) Base() string { return h.base }

// Location implements Strategy.
func (h *Hash) Location() string { return h.location() }

// Push implements Strategy.
func (h *Hash) Push(to string) { h.push(to) }

// Replace implements Strategy.
func (h *Hash) Replace(to string) { h.replace(to) }

// Go implements Strategy.
func (h *Hash) Go(delta int) bool { return h.goDelta(delta) }

// Listen implements Strategy.
func (h *Hash) Listen(fn Listener) func() { return h.listen(fn) }

// Len implements Strategy.
func (h *Hash) Len() int { return h.len() }

// CreateHref implements Strategy.
func (h *Hash) CreateHref(path string) string {
	if path == "" {
		path = "/"
	}
	return h.base + "/#" + path
}

func fragmentPath(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Fragment == "" {
		return "/"
	}
	frag := u.Fragment
	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return frag
}

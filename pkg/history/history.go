// Package history implements the strategies a router uses to represent
// navigable state.
//
// A Strategy keeps an ordered stack of entries with a cursor, mirroring the
// browser session history: Push discards forward entries and appends,
// Replace overwrites the current entry, Go moves the cursor. Strategies
// differ in how a route path is written as an href:
//
//	NewWeb("/admin")   /admin/users        (path-based, HTML5 history)
//	NewHash("/admin")  /admin#/users       (fragment-based)
//	NewMemory()        /users              (no URL, tests and server sessions)
//
// Listeners registered with Listen are notified only when the cursor moves
// through Go, which is the equivalent of a popstate event. Push and Replace
// are initiated by the router itself and are not echoed back.
package history

import (
	"sync"
)

// Direction of a cursor move.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionBack
	DirectionForward
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionBack:
		return "back"
	case DirectionForward:
		return "forward"
	default:
		return "unknown"
	}
}

// Info describes a cursor move delivered to listeners.
type Info struct {
	Delta     int
	Direction Direction
}

// Listener is notified when the cursor moves from one location to another.
type Listener func(to, from string, info Info)

// Strategy is the history abstraction consumed by the router.
type Strategy interface {
	// Base returns the normalized base path ("" when none).
	Base() string

	// Location returns the current route path, without base.
	Location() string

	// Push appends a new entry after the cursor, dropping forward entries.
	Push(to string)

	// Replace overwrites the current entry.
	Replace(to string)

	// Go moves the cursor by delta. It reports false and does nothing when
	// the target is out of range.
	Go(delta int) bool

	// Listen registers fn for cursor moves and returns a function that
	// removes it.
	Listen(fn Listener) (unlisten func())

	// CreateHref renders a route path as an href for this strategy.
	CreateHref(path string) string

	// Len returns the number of entries.
	Len() int
}

// stack is the entry list shared by every strategy.
type stack struct {
	mu        sync.Mutex
	entries   []string
	pos       int
	listeners map[int]Listener
	nextID    int
}

func newStack(initial string) *stack {
	if initial == "" {
		initial = "/"
	}
	return &stack{
		entries:   []string{initial},
		listeners: make(map[int]Listener),
	}
}

func (s *stack) location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.pos]
}

func (s *stack) push(to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries[:s.pos+1], to)
	s.pos = len(s.entries) - 1
}

func (s *stack) replace(to string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.pos] = to
}

func (s *stack) goDelta(delta int) bool {
	s.mu.Lock()
	target := s.pos + delta
	if delta == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	from := s.entries[s.pos]
	s.pos = target
	to := s.entries[s.pos]

	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	info := Info{Delta: delta, Direction: DirectionForward}
	if delta < 0 {
		info.Direction = DirectionBack
	}
	for _, fn := range listeners {
		fn(to, from, info)
	}
	return true
}

func (s *stack) listen(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *stack) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Option configures a strategy.
type Option func(*options)

type options struct {
	initialURL string
}

// WithInitialURL seeds the strategy with the URL the session started on,
// as the browser would when the page first loads. The URL is interpreted by
// each strategy (base stripped for web history, fragment read for hash
// history).
func WithInitialURL(u string) Option {
	return func(o *options) {
		o.initialURL = u
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

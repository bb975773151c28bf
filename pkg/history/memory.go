package history

// Memory keeps entries in process only. It backs tests and server-side
// navigation sessions where there is no address bar.
type Memory struct {
	*stack
}

// NewMemory creates an in-memory history starting at "/" or at the path
// given by WithInitialURL.
func NewMemory(opts ...Option) *Memory {
	o := collect(opts)
	return &Memory{stack: newStack(stripBase("", o.initialURL))}
}

// Base implements Strategy.
func (m *Memory) Base() string { return "" }

// Location implements Strategy.
func (m *Memory) Location() string { return m.location() }

// Push implements Strategy.
func (m *Memory) Push(to string) { m.push(to) }

// Replace implements Strategy.
func (m *Memory) Replace(to string) { m.replace(to) }

// Go implements Strategy.
func (m *Memory) Go(delta int) bool { return m.goDelta(delta) }

// Listen implements Strategy.
func (m *Memory) Listen(fn Listener) func() { return m.listen(fn) }

// Len implements Strategy.
func (m *Memory) Len() int { return m.len() }

// CreateHref implements Strategy.
func (m *Memory) CreateHref(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

package history

import "fmt"

// Mode names accepted by ForMode.
const (
	ModeWeb    = "web"
	ModeHash   = "hash"
	ModeMemory = "memory"
)

// ForMode builds the strategy named by mode. An empty mode selects web
// history.
func ForMode(mode, base string, opts ...Option) (Strategy, error) {
	switch mode {
	case "", ModeWeb:
		return NewWeb(base, opts...), nil
	case ModeHash:
		return NewHash(base, opts...), nil
	case ModeMemory:
		return NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("history: unknown mode %q", mode)
	}
}

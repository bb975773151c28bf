package router

import (
	"errors"
	"fmt"
)

// Configuration errors, wrapped in *ConfigError by New.
var (
	ErrNoHistory            = errors.New("no history strategy")
	ErrInvalidPath          = errors.New("invalid route path")
	ErrDuplicatePath        = errors.New("duplicate route path")
	ErrDuplicateName        = errors.New("duplicate route name")
	ErrConflictingParam     = errors.New("conflicting parameter name")
	ErrComponentAndRedirect = errors.New("route has both component and redirect")
	ErrNoDestination        = errors.New("route has neither component nor redirect")
	ErrRedirectTarget       = errors.New("redirect target does not match a route")
	ErrRedirectLoop         = errors.New("redirect loop")
)

// Navigation errors, wrapped in *NavigationError.
var (
	ErrNoMatch       = errors.New("no route matches")
	ErrUnknownName   = errors.New("no route with that name")
	ErrMissingParam  = errors.New("missing route parameter")
	ErrAborted       = errors.New("navigation aborted")
	ErrDuplicated    = errors.New("already at location")
	ErrHistoryBounds = errors.New("history has no entry at that offset")
)

// ConfigError reports a malformed route table entry.
type ConfigError struct {
	// Index of the offending descriptor, -1 for table-wide problems.
	Index int
	Path  string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("router: %v", e.Err)
	}
	return fmt.Sprintf("router: route %d (%q): %v", e.Index, e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NavigationKind classifies navigation failures.
type NavigationKind int

const (
	// NavigationInvalid: the target is not a valid path.
	NavigationInvalid NavigationKind = iota + 1
	// NavigationNoMatch: no route matches the target.
	NavigationNoMatch
	// NavigationAborted: a guard rejected the navigation.
	NavigationAborted
	// NavigationDuplicated: the target is the current location.
	NavigationDuplicated
)

// String returns the kind name.
func (k NavigationKind) String() string {
	switch k {
	case NavigationInvalid:
		return "invalid"
	case NavigationNoMatch:
		return "no_match"
	case NavigationAborted:
		return "aborted"
	case NavigationDuplicated:
		return "duplicated"
	default:
		return "unknown"
	}
}

// NavigationError reports why a navigation did not complete.
type NavigationError struct {
	Kind NavigationKind
	From string
	To   string
	Err  error
}

func (e *NavigationError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("navigation %s from %q to %q: %v", e.Kind, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("navigation %s to %q: %v", e.Kind, e.To, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// IsNavigationFailure reports whether err is a navigation failure of one of
// the given kinds. With no kinds, any navigation failure matches.
func IsNavigationFailure(err error, kinds ...NavigationKind) bool {
	var nav *NavigationError
	if !errors.As(err, &nav) {
		return false
	}
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if nav.Kind == k {
			return true
		}
	}
	return false
}

// RedirectError is returned by a Guard to send a navigation elsewhere.
type RedirectError struct {
	Path string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.Path
}

// RedirectTo builds the error a Guard returns to redirect.
func RedirectTo(path string) error {
	return &RedirectError{Path: path}
}

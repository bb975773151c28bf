package router

import (
	"errors"
	"slices"

	"github.com/vango-dev/adminshell/pkg/history"
)

// BeforeEach registers a guard and returns a function that removes it.
// Guards run in registration order.
func (r *Router) BeforeEach(g Guard) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.guards[id] = g
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.guards, id)
	}
}

// AfterEach registers a hook and returns a function that removes it.
func (r *Router) AfterEach(h Hook) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.hooks[id] = h
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.hooks, id)
	}
}

// Current returns the current location, nil before Start.
func (r *Router) Current() *Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Start performs the initial navigation to the history's current location.
// The history entry is rewritten to the resolved location, so a session
// that starts on "/" ends up on the redirect target.
func (r *Router) Start() (*Location, error) {
	return r.navigate(r.history.Location(), true, true)
}

// Push navigates to target, adding a history entry.
func (r *Router) Push(target string) (*Location, error) {
	return r.navigate(target, false, false)
}

// Replace navigates to target, overwriting the current history entry.
func (r *Router) Replace(target string) (*Location, error) {
	return r.navigate(target, true, false)
}

// Back moves one entry back.
func (r *Router) Back() (*Location, error) {
	return r.Go(-1)
}

// Forward moves one entry forward.
func (r *Router) Forward() (*Location, error) {
	return r.Go(1)
}

// Go moves delta entries through history and resolves the entry it lands on.
// The whole move, guards included, runs under navMu.
func (r *Router) Go(delta int) (*Location, error) {
	r.navMu.Lock()
	from := r.Current()
	r.ignorePop.Store(true)
	moved := r.history.Go(delta)
	r.ignorePop.Store(false)
	if !moved {
		r.navMu.Unlock()
		return nil, &NavigationError{Kind: NavigationAborted, To: fullPath(from), Err: ErrHistoryBounds}
	}
	to, err := r.settle(r.history.Location(), from, delta)
	r.navMu.Unlock()

	r.runHooks(to, from, err)
	if err != nil {
		return nil, err
	}
	return to, nil
}

func (r *Router) navigate(target string, replace, initial bool) (*Location, error) {
	r.navMu.Lock()
	to, from, err := r.confirm(target, replace, initial)
	r.navMu.Unlock()

	r.runHooks(to, from, err)
	if err != nil {
		return nil, err
	}
	return to, nil
}

// confirm resolves target, runs guards and records the result in history.
// Callers hold navMu.
func (r *Router) confirm(target string, replace, initial bool) (to, from *Location, err error) {
	from = r.Current()

	to, err = r.Resolve(target)
	if err != nil {
		r.logger.Debug("navigation failed", "to", target, "error", err)
		return nil, from, err
	}

	to, err = r.guard(to, from)
	if err != nil {
		r.logger.Debug("navigation failed", "to", target, "error", err)
		return to, from, err
	}

	if !initial && from != nil && to.FullPath == from.FullPath {
		return to, from, &NavigationError{Kind: NavigationDuplicated, From: from.FullPath, To: to.FullPath, Err: ErrDuplicated}
	}

	if replace {
		r.history.Replace(to.FullPath)
	} else {
		r.history.Push(to.FullPath)
	}
	r.setCurrent(to)

	r.logger.Debug("navigated", "to", to.FullPath, "name", to.Name, "redirected_from", to.RedirectedFrom)
	return to, from, nil
}

// guard runs the registered guards, following guard redirects.
func (r *Router) guard(to, from *Location) (*Location, error) {
	for redirects := 0; ; redirects++ {
		err := r.runGuards(to, from)
		if err == nil {
			return to, nil
		}

		var redirect *RedirectError
		if !errors.As(err, &redirect) {
			return to, &NavigationError{Kind: NavigationAborted, From: fullPath(from), To: to.FullPath, Err: errors.Join(ErrAborted, err)}
		}
		if redirects >= MaxRedirects {
			return to, &NavigationError{Kind: NavigationAborted, From: fullPath(from), To: to.FullPath, Err: ErrRedirectLoop}
		}

		next, err := r.Resolve(redirect.Path)
		if err != nil {
			return to, err
		}
		if next.RedirectedFrom == "" {
			next.RedirectedFrom = to.Path
		}
		to = next
	}
}

func (r *Router) runGuards(to, from *Location) error {
	r.mu.RLock()
	ids := sortedIDs(r.guards)
	guards := make([]Guard, 0, len(ids))
	for _, id := range ids {
		guards = append(guards, r.guards[id])
	}
	r.mu.RUnlock()

	for _, g := range guards {
		if err := g(to, from); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) runHooks(to, from *Location, failure error) {
	r.mu.RLock()
	ids := sortedIDs(r.hooks)
	hooks := make([]Hook, 0, len(ids))
	for _, id := range ids {
		hooks = append(hooks, r.hooks[id])
	}
	r.mu.RUnlock()

	for _, h := range hooks {
		h(to, from, failure)
	}
}

func (r *Router) setCurrent(loc *Location) {
	r.mu.Lock()
	r.current = loc
	r.mu.Unlock()
}

// onPop handles cursor moves made directly on the history, the equivalent
// of popstate.
func (r *Router) onPop(to, _ string, info history.Info) {
	if r.ignorePop.Load() {
		return
	}

	r.navMu.Lock()
	from := r.Current()
	loc, err := r.settle(to, from, info.Delta)
	r.navMu.Unlock()

	r.runHooks(loc, from, err)
}

// settle resolves the entry the cursor moved to after a move of delta.
// A guard rejecting the move puts the cursor back. Callers hold navMu.
func (r *Router) settle(to string, from *Location, delta int) (*Location, error) {
	loc, err := r.Resolve(to)
	if err == nil {
		loc, err = r.guard(loc, from)
	}
	if err != nil {
		r.ignorePop.Store(true)
		r.history.Go(-delta)
		r.ignorePop.Store(false)
	} else {
		if loc.FullPath != to {
			r.history.Replace(loc.FullPath)
		}
		r.setCurrent(loc)
	}
	r.logger.Debug("history moved", "to", to, "delta", delta, "error", err)
	return loc, err
}

func fullPath(loc *Location) string {
	if loc == nil {
		return ""
	}
	return loc.FullPath
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

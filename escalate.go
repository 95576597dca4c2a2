package authclient

import (
	"context"
	"sync/atomic"

	"github.com/classbridge/authclient/credstore"
)

// Navigator receives the hard-logout signal: the host application should take
// the user to its login surface. Implementations must tolerate being invoked
// from any goroutine.
type Navigator interface {
	NavigateToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(ctx context.Context)

// NavigateToLogin describes the navigatetologin operation and its observable behavior.
func (f NavigatorFunc) NavigateToLogin(ctx context.Context) {
	f(ctx)
}

// NopNavigator ignores the signal. Hosts that poll credential state instead
// of reacting to a callback use this.
type NopNavigator struct{}

// NavigateToLogin describes the navigatetologin operation and its observable behavior.
func (NopNavigator) NavigateToLogin(context.Context) {}

// escalator owns the unrecoverable-failure path: wipe the store, signal the
// navigator. Navigation fires at most once per authenticated episode — arming
// happens when credentials are written, firing disarms — so a failed refresh
// with five queued callers, or a racing terminal 401, produces exactly one
// navigation. The store wipe itself is unconditional; Clear is idempotent.
type escalator struct {
	navigator Navigator
	armed     atomic.Bool
}

func newEscalator(navigator Navigator) *escalator {
	if navigator == nil {
		navigator = NopNavigator{}
	}
	e := &escalator{navigator: navigator}
	e.armed.Store(true)
	return e
}

// arm re-enables navigation for the next failure episode.
func (e *escalator) arm() {
	e.armed.Store(true)
}

// fire wipes the store and, when this is the first escalation of the current
// episode, signals the navigator. Returns whether navigation happened.
func (e *escalator) fire(ctx context.Context, store credstore.Store) bool {
	_ = store.Clear(ctx)

	if !e.armed.CompareAndSwap(true, false) {
		return false
	}
	e.navigator.NavigateToLogin(ctx)
	return true
}

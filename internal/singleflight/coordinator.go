package singleflight

import "sync"

// State is the refresh coordinator state. The coordinator is Refreshing
// exactly while one refresh wire call is outstanding.
type State int32

const (
	// StateIdle means no refresh is in flight and the waiter queue is empty.
	StateIdle State = iota
	// StateRefreshing means exactly one refresh wire call is outstanding.
	StateRefreshing
)

// Outcome settles one refresh episode: either the new access credential or
// the error every queued caller receives.
type Outcome struct {
	Access string
	Err    error
}

// Coordinator guarantees at most one in-flight refresh system-wide. The first
// caller to observe Idle becomes the leader and owns the wire call; callers
// arriving while Refreshing are queued in arrival order and receive the
// leader's outcome. The check-and-transition in Begin happens under one mutex
// hold, so two callers failing at the same instant can never both lead.
//
// A Coordinator is owned by a single long-lived client instance and must not
// be shared between clients.
type Coordinator struct {
	mu      sync.Mutex
	state   State
	waiters []chan Outcome
}

// New creates an idle coordinator.
func New() *Coordinator {
	return &Coordinator{state: StateIdle}
}

// Begin reports whether the caller became the refresh leader. A leader must
// eventually call Settle exactly once, even on panic-free error paths, or
// every later caller queues forever. A non-leader receives the episode's
// outcome on the returned channel; the channel is buffered, so an abandoned
// waiter never blocks the drain.
func (c *Coordinator) Begin() (leader bool, wait <-chan Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRefreshing {
		ch := make(chan Outcome, 1)
		c.waiters = append(c.waiters, ch)
		return false, ch
	}

	c.state = StateRefreshing
	return true, nil
}

// Settle publishes the outcome of the in-flight refresh, draining the waiter
// queue in strict FIFO order, and returns the coordinator to Idle. It returns
// the number of waiters drained.
func (c *Coordinator) Settle(out Outcome) int {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.state = StateIdle
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- out
		close(ch)
	}
	return len(waiters)
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Waiting returns the current waiter queue length. Non-zero only while
// Refreshing.
func (c *Coordinator) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

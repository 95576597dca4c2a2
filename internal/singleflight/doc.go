// Package singleflight implements the two-state refresh coordinator: at most
// one refresh wire call is in flight at any time, concurrent callers queue in
// FIFO order, and the single outcome fans out to every queued caller.
//
// # Architecture boundaries
//
// This package owns the {state, waiter queue} pair and nothing else. It never
// performs the refresh itself; the leader elected by [Coordinator.Begin]
// executes the wire call and reports back through [Coordinator.Settle].
//
// # What this package must NOT do
//
//   - Perform I/O or touch the credential store.
//   - Decide what a refresh failure means (escalation is the client's call).
//   - Import authclient or credstore.
package singleflight

// Package credstore implements durable storage for the ClassBridge credential
// pair (access credential plus refresh credential).
//
// # Backends
//
// Three backends ship with the package: an in-process memory store (default,
// also used by tests), a JSON file store with restrictive permissions for
// CLI-style hosts, and a Redis store for hosts that already run a Redis
// client. All three implement [Store].
//
// # Architecture boundaries
//
// This package owns persistence of the credential pair and nothing else.
// Lifecycle decisions — when to write, rotate, or wipe the pair — belong to
// the client. The pair is never duplicated outside the store; callers read
// it fresh on every use instead of caching a copy across a network call.
//
// # What this package must NOT do
//
//   - Issue HTTP requests or inspect credential contents.
//   - Import authclient (no import cycles).
//   - Decide when escalation or refresh happens.
package credstore

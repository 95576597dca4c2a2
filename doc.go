// Package authclient is the session/credential manager of the ClassBridge
// API client: it attaches bearer credentials to every outgoing call, detects
// credential expiry from response status, refreshes the credential exactly
// once under any number of simultaneous failures, replays the original calls
// transparently, and escalates to a hard logout when refresh itself fails.
//
// The package is designed for concurrent hosts: Client methods and the
// transport returned by [Client.HTTPClient] are safe to call from multiple
// goroutines after initialization through [Builder.Build]. All coordination
// state lives on the Client instance — never in package-level globals — so
// independent clients (and tests) never share refresh state.
//
// # Architecture boundaries
//
// authclient is the public surface. It exposes [Client], [Builder], [Config],
// the [Navigator] escalation callback, and value types (MetricsSnapshot,
// AuditEvent, etc.). Credential persistence lives in the credstore
// sub-package; refresh coordination lives under internal/ and is never
// exported.
//
// # What this package must NOT do
//
//   - Know the shape of any ClassBridge business endpoint; it only owns the
//     auth-flow surface (login, register, invite, refresh, password reset).
//   - Cache a credential pair outside the store across a network call.
//   - Retry a call more than once per refresh episode.
//
// # Failure contract
//
// Recoverable expiry (a 401 on a protected path with a stored refresh
// credential) is absorbed entirely: the caller sees the retried response.
// Unrecoverable failure — refresh rejected, no refresh credential, or a 401
// after the credentialed retry — wipes the store, signals the Navigator once
// per episode, and surfaces a wrapped sentinel error.
package authclient

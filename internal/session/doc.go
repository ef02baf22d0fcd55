// Package session holds the durable session token slot.
//
// # Overview
//
// The Store is the process-wide source of truth for the current session
// token. The transport layer reads the token from here to authenticate
// requests, and clears it when the server reports the session is no longer
// valid. The auth layer writes the token on login and clears it on logout.
//
// # Invalidation Broadcast
//
// Every Clear fires a payload-free signal to all subscribers, decoupling the
// layer that detects invalidity (the API client, on a 401) from the layers
// that must react (the auth session drops its identity, the UI returns to
// the login screen). Clearing an already-empty slot still broadcasts, and an
// explicit logout and a concurrent in-flight 401 converge on the same
// idempotent clear-and-broadcast path, so duplicate teardown is harmless.
//
// Sends are non-blocking with a one-slot buffer per subscriber: a subscriber
// that has not yet drained its channel simply coalesces repeated signals.
//
// # Persistence
//
// The token lives in a JSON file (one named slot) so a session can be
// restored at the next process start. Storage failures are environment
// faults: they are swallowed, and the in-memory slot stays authoritative for
// the running process.
package session

// Package app provides the orchestration layer for the almacen application.
//
// # Overview
//
// This package is the composition root: it wires configuration, the durable
// session store, the identity provider, the inventory API client, and the UI
// into a running application.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/almacen/config.toml
//  2. Load display preferences (theme)
//  3. Open the durable session store (the one authority for the token)
//  4. Build the identity provider from auth_url, or a disabled stand-in
//  5. Restore any stored session and start the invalidation watcher
//  6. Create the inventory API client, reading tokens from the store
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Session Wiring
//
// The session store connects three parties that never reference each other
// directly. The API client reads the token from it and clears it when the
// server rejects a request; the auth session drops its display identity when
// the store broadcasts an invalidation; the UI parks on its own subscription
// to land the user back on the login view. One cleared slot, three reactions.
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable or malformed configuration,
// a malformed server or auth URL. Everything after startup is recoverable
// and surfaces inside the UI instead.
package app

// Package auth bridges the identity provider and the session store.
//
// # Overview
//
// Session owns the authentication lifecycle: restoring a session at startup,
// logging in through the identity provider, logging out, and reacting to the
// store's invalidation broadcast so that a 401 detected by the transport
// layer surfaces as a logged-out state without coupling the two layers.
//
// # Display Identity
//
// The identity shown in the header is derived by decoding the session
// token's JWT payload locally, with NO signature verification. This is a
// deliberate boundary: the label is cosmetic, and no authorization decision
// may ever depend on it. Authorization remains entirely server-side: the
// inventory service validates the same token on every request.
//
// Label preference: email claim, then subject claim, then a generic
// placeholder for tokens whose payload cannot be decoded.
//
// # Lifecycle
//
//   - Restore: one pass at startup. Reads the store; derives an identity
//     when a token exists. Ready becomes true afterwards either way, so the
//     UI can distinguish "still restoring" from "restored, logged out".
//   - Login: provider sign-in, token into the store, identity from the
//     provider response (payload decode as fallback). Failures are returned
//     as *AuthError with the provider's message; the session stays
//     unauthenticated.
//   - Logout: local clear-and-broadcast first, then a best-effort provider
//     sign-out whose failure is swallowed. Local state never survives.
//   - Watch: subscribes to the store broadcast and drops the identity on
//     every signal. The signal is idempotent; dropping an absent identity
//     is a no-op.
//
// # Provider
//
// Provider is the boundary to the external identity service. The bundled
// SupabaseProvider implements the password grant against a Supabase-style
// endpoint (POST /auth/v1/token?grant_type=password with an apikey header)
// and token revocation (POST /auth/v1/logout).
package auth

// Package api provides the typed HTTP client for the inventory service.
//
// # Overview
//
// This package executes the four inventory operations plus the advice fetch
// against the remote REST API, handling JSON encoding, bearer credentials,
// and the response-class mapping the rest of the client depends on.
//
// # Endpoints
//
//   - GET  /analizar_inventario: inventory analysis text
//   - GET  /productos: full product list
//   - POST /productos: create a product
//   - PUT  /productos/{id}: partial update by authoritative id
//   - DELETE /productos/{id}: remove by authoritative id
//
// # Wire Naming
//
// List responses use id/product_id/name/quantity; mutation request bodies use
// the wire's own canonical names (nombre/cantidad). Callers of this package
// always speak name/quantity; the translation happens once, here, so no
// other layer can send the wrong field names.
//
// # Authentication
//
// Every request attaches the current session token from the TokenSource as a
// bearer credential when one is present. A 401 response is the sole trigger
// for automatic session teardown: the client calls Clear on the TokenSource
// (which broadcasts an invalidation to its subscribers) before returning
// ErrUnauthorized. The clear is idempotent, so two requests failing
// concurrently cannot produce conflicting teardowns.
//
// # Error Handling
//
// Responses map to a small taxonomy:
//
//   - 401 → ErrUnauthorized (after the session slot is cleared)
//   - 404 → ErrNotFound (DeleteProduct swallows it: already absent)
//   - 429 → ErrRateLimited (the advice workflow surfaces this distinctly)
//   - other non-2xx → *StatusError with the server's detail message
//   - transport failures → wrapped with "execute request:"
//
// All errors wrap with context via fmt.Errorf; callers branch with errors.Is
// and errors.As.
//
// # Design Rationale
//
// The client is intentionally minimal: no caching, no retries, no request
// cancellation beyond context, no re-validation of business rules the caller
// already enforced. The state controller decides what a failure means for
// the display; this layer only classifies it.
package api

// Package inventory owns the client-side product list and its interaction
// state.
//
// # Overview
//
// The Controller is the single authority for what the display layer shows:
// the loaded product list, per-item uncommitted quantity edits, the one
// delete confirmation that can be pending at a time, the add-dialog draft,
// the advice text, and one error slot per workflow.
//
// # Identifiers
//
// Every product carries two identifiers. The display identifier ("P001") is
// the stable human-facing reference and the key for all UI state. The
// internal identifier is the server's authoritative key and the only one a
// mutating request may carry. The controller maintains an explicit
// displayID→position index alongside the list and always resolves the
// product object before issuing a mutation, so the two key spaces cannot be
// mixed at a call site.
//
// # Quantity Edit State Machine
//
// Per display identifier: Viewing → Editing (SetEdit populates the buffer) →
// Committing (CommitEdit) → Viewing. The gate into Committing is strict: the
// buffered text must parse as a non-negative integer, otherwise the commit
// is refused silently: no request, no error, buffer intact. A successful
// commit replaces only that item's quantity; a failed one clears the buffer
// (the display reverts to the last server value) and sets the shared update
// error. Buffers for products that vanish from a refreshed list are pruned
// silently.
//
// # Delete Workflow
//
// A single confirmation slot. Requesting deletion of a second item replaces
// the pending target; cancelling makes no request; confirming removes the
// item from the list only after the server acknowledges. The API layer
// already treats a NotFound on delete as "already absent".
//
// # Add Workflow
//
// The draft is transient form state. Submit validates locally (non-empty
// trimmed name, quantity parsing to a non-negative number, fractional input
// truncated toward zero) and on validation failure no request is sent. On
// success the dialog closes, a transient notice is set for the UI to
// auto-dismiss, and the full list is re-fetched rather than optimistically
// appended, because the server assigns both identifiers.
//
// # Failure Semantics
//
// Each workflow has one error slot (list, update/delete shared, add,
// advice); the latest failure wins and a subsequent success clears the slot.
// Failures never retry automatically. There is no per-item request fencing:
// a slow commit can overwrite a faster later edit of the same item. This is
// a known, accepted limitation inherited from the system this client talks
// to.
package inventory

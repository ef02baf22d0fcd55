// Package ui provides the Bubble Tea terminal interface.
//
// The Model is a thin presentation layer over two authorities it never
// duplicates: the auth Session (who is signed in) and the inventory
// Controller (what is shown and which interactions are pending). Key
// handling translates input into controller calls; network-touching calls
// run inside tea.Cmds so the event loop never blocks, and each one finishes
// with a refresh message that re-snapshots the controller.
//
// The model also keeps one command parked on the session invalidation
// broadcast. When it fires the stored credentials are already gone, so the
// handler only has to land the user on the login view and re-arm the wait.
//
// Themes are cycled with T and persisted via the prefs package.
package ui

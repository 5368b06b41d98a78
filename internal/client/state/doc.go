// Package state holds the client-side synchronization core: the in-memory
// folder and note collections, the session cell, and the toast channel.
//
// Each synchronizer owns its state exclusively behind one mutex; accessors
// return copies. Blocking operations (folder CRUD, rename, recolor, reorder,
// note edit save) set a busy flag, refuse re-entry while pending, and leave
// state untouched on failure. Detached optimistic operations (note create
// and delete) mutate state first and reconcile the backend result by stable
// entity id, so a completion arriving after the list was replaced is a no-op.
//
// Cross-component communication goes through explicit callbacks (active
// folder changes, note-count deltas) — never shared mutable references.
package state

// Package view is the session-scoped layer between a presentation layer and
// the task store.
//
// A Controller holds the active filter, a loading flag, the last error
// message and the last fetched collection. Its actions (Refresh, Add, Edit,
// Toggle, Delete, ClearCompleted, SetFilter) never return errors: a failure
// is recorded as a human-readable message readable through Err, the
// in-memory collection is left at its last known-good value, and the user
// retries by invoking the action again.
//
// Actions that touch the store are serialized, so they observe strict issue
// order. Once issued, an action runs to completion even if the caller's
// context is cancelled.
//
// VisibleTasks and Stats are recomputed from the in-memory collection on
// every read.
package view

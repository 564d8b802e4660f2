// Package store owns the persisted task collection.
//
// The whole collection lives as one JSON array under a single key of an
// injected kv.Backend (DefaultKey, "todos-api-data"). Every operation reads
// the full collection, applies one change and writes the full collection
// back while holding the store mutex, so callers never observe a partial
// write.
//
// # Operations
//
//   - ListAll: the collection in stored order (newest first)
//   - Create: validates and prepends a new task
//   - Update: merges a task.Patch and refreshes UpdatedAt
//   - Delete: removes one task; absent ids are not an error
//   - DeleteWhere / DeleteCompleted: bulk removal by completion state
//   - Get, Replace: single lookup and wholesale replacement (import)
//
// # Degradation
//
// A missing key, malformed JSON or a failing backend read makes ListAll
// return an empty collection rather than an error; the condition is logged.
// Write operations start from an empty collection when the stored document
// is malformed, and surface backend failures as task.ErrStorageUnavailable.
//
// # Latency
//
// WithLatency adds a fixed wait before every operation to model a
// network-bound service. It never reorders operations. A write whose ctx
// ends during the wait fails with the ctx error and changes nothing; ListAll
// stops waiting and reads anyway.
package store

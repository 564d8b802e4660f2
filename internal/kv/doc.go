// Package kv provides the key-value persistence capability behind the task
// store.
//
// The store only ever needs get/set on a single key, so a Backend is
// deliberately small. Three implementations ship:
//
//   - Memory: an in-process map, for tests and throwaway sessions
//   - File: one file per key in a directory, written via temp file + rename
//   - SQLite: a kv table in a SQLite database
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: SQLite allows one writer at a time
//
// Backends treat a missing key as absent (ok == false, err == nil). Any other
// failure is returned to the caller, which decides how to degrade.
package kv

// Package task defines the task record shared by the store and the view
// controller, together with the pure derivations computed over a collection.
//
// # Record
//
//	{
//	  "id": "0190f1c2-...",
//	  "text": "Buy milk",
//	  "completed": false,
//	  "createdAt": "2024-01-01T00:00:00Z",
//	  "updatedAt": "2024-01-01T00:00:00Z"
//	}
//
// Keys are camelCase so documents written by earlier versions of the
// application stay readable.
//
// # Invariants
//
//   - ID is unique within a collection and never changes
//   - Text is trimmed, NFC-normalized and never empty
//   - CreatedAt <= UpdatedAt
//   - Collections are ordered newest-created first
//
// # Derivations
//
// Apply filters a collection by Filter without reordering it. ComputeStats
// counts over the whole collection regardless of any filter, so
// Total == Completed + Active always holds.
package task

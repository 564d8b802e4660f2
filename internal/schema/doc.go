// Package schema validates and converts task exchange documents.
//
// An exported document looks like:
//
//	{
//	  "version": 1,
//	  "tasks": [
//	    {"id": "...", "text": "Buy milk", "completed": false,
//	     "createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"}
//	  ]
//	}
//
// Documents are checked against the CUE definitions in task.cue before they
// are decoded, so structural problems are reported with their path. A bare
// JSON array of tasks (the raw content of the storage slot) is accepted on
// import and treated as the tasks of a version 1 document.
package schema

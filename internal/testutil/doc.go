// Package testutil provides deterministic stand-ins for the clock and ID
// generator so store, view and harness runs produce byte-identical output.
package testutil

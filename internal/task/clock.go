package task

import (
	"sync"
	"time"
)

// Clock supplies timestamps for CreatedAt and UpdatedAt.
type Clock interface {
	Now() time.Time
}

// SystemClock reads wall time in UTC and never returns a value earlier than
// one it has already returned, so UpdatedAt is monotonic within a process
// even if the wall clock steps back.
//
// Thread-safety: SystemClock is safe for concurrent use.
type SystemClock struct {
	mu   sync.Mutex
	last time.Time
}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time, clamped to be non-decreasing.
func (c *SystemClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Round(0) strips the monotonic reading so values compare equal after a
	// JSON round-trip.
	now := time.Now().UTC().Round(0)
	if now.Before(c.last) {
		return c.last
	}
	c.last = now
	return now
}

package testutil

import (
	"sync"
	"time"
)

// Epoch is the instant a DeterministicClock counts from.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DeterministicClock is a task.Clock that advances by a fixed step on every
// call to Now.
//
// The n-th call to Now returns Epoch + n*step, so the first call returns
// Epoch + step.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	seq  int64
	step time.Duration
}

// NewDeterministicClock creates a clock that advances one second per call.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockWithStep(time.Second)
}

// NewDeterministicClockWithStep creates a clock with a custom step.
// A zero step yields a frozen clock that always returns Epoch.
func NewDeterministicClockWithStep(step time.Duration) *DeterministicClock {
	return &DeterministicClock{step: step}
}

// Now advances the clock and returns the new time.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return Epoch.Add(time.Duration(c.seq) * c.step)
}

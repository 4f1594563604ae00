// Package testutil provides deterministic clocks, id generators and a fake
// puzzle service for tests.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a logical clock for tests that can be reset, so the
// same scenario produces identical seq values on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock whose first Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// FixedTime is a wall clock frozen at T until moved with Advance.
// Implements puzzle.Clock.
type FixedTime struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedTime creates a clock frozen at t.
func NewFixedTime(t time.Time) *FixedTime {
	return &FixedTime{t: t}
}

// Now returns the frozen time.
func (c *FixedTime) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedTime) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

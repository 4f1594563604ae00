package puzzle

import "time"

// EventZone is the time zone puzzles unlock in (midnight UTC-5).
var EventZone = time.FixedZone("EST", -5*60*60)

// Clock supplies wall-clock time to the Resolver.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

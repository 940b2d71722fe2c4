package domain

import "time"

// Clock provides the current time. Implementations may be real (production)
// or deterministic (testing). Time is a dependency; inject it like any other —
// issuance timestamps and expiry checks must be byte-exact testable.
type Clock interface {
	// Now returns the current time. The returned time includes both wall clock
	// and monotonic readings when using RealClock.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
// It is a zero-allocation implementation (empty struct).
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// NowUnix returns the current wall clock as Unix seconds.
// Token timestamps are second-granularity u32 values on the wire.
func NowUnix(c Clock) uint32 {
	return uint32(c.Now().UTC().Unix())
}

// Ensure RealClock implements Clock at compile time.
var _ Clock = RealClock{}

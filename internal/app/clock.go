package app

import "time"

// Clock supplies wall time to the controller. The undo window compares
// against an injected clock so expiry is testable without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Package clock stamps session updates and decides auth token expiry.
package clock

import "time"

// Clock is injected so tests can pin and advance time.
type Clock interface {
	Now() time.Time
}

// Func adapts an ordinary function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// New returns the wall clock.
func New() Clock {
	return Func(time.Now)
}

// Expired reports whether deadline lies in c's past.
func Expired(c Clock, deadline time.Time) bool {
	return c.Now().After(deadline)
}

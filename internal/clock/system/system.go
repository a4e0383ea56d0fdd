// Package system supplies the wall clock used outside of tests.
package system

import "time"

// Clock satisfies lookup.Clock. It reads the system time in UTC so cache
// stamps compare consistently regardless of host timezone.
type Clock struct{}

// New returns the wall clock.
func New() *Clock {
	return &Clock{}
}

// Now reports the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}

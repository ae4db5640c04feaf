// Package clock abstracts the current time so "today" is injectable.
package clock

import (
	"time"

	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

type Clock interface {
	Now() time.Time
}

// Today returns the calendar date of c.Now.
func Today(c Clock) generic.TimePoint {
	return generic.DateOf(c.Now())
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock frozen at a settable instant. Used in tests.
type Fixed struct {
	FixedNow time.Time
}

func NewFixed(day generic.TimePoint) *Fixed {
	return &Fixed{FixedNow: day.Time}
}

func (f *Fixed) Now() time.Time {
	return f.FixedNow
}

func (f *Fixed) SetNow(now time.Time) {
	f.FixedNow = now
}

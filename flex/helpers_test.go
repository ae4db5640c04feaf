package flex_test

import (
	"testing"

	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) generic.TimePoint {
	return generic.MustParseDate(s)
}

func h(v float64) generic.Amount {
	return generic.Hours(v)
}

func hp(v float64) *generic.Amount {
	a := generic.Hours(v)
	return &a
}

// contract returns a flex contract; an empty end is open-ended.
func contract(start, end string, percent int, flexEnabled bool) flex.Contract {
	c := flex.Contract{
		ID:              "c-" + start,
		PersonID:        "p1",
		Start:           d(start),
		FlexEnabled:     flexEnabled,
		WorktimePercent: percent,
	}
	if end != "" {
		c.End = d(end)
	}
	return c
}

func work(day string, hours float64) flex.HourEntry {
	return flex.HourEntry{
		PersonID:      "p1",
		Date:          d(day),
		Project:       "Customer project",
		PhaseName:     "Development",
		LeaveType:     "",
		Status:        "Approved",
		IncurredHours: h(hours),
	}
}

func leave(day, leaveType string, hours float64) flex.HourEntry {
	return flex.HourEntry{
		PersonID:      "p1",
		Date:          d(day),
		Project:       "Leave",
		LeaveType:     leaveType,
		Status:        "Approved",
		IncurredHours: h(hours),
	}
}

func attendance(entries ...flex.HourEntry) flex.Attendance {
	return flex.DefaultAttendanceRules().Aggregate(entries)
}

func run(in flex.Input) (flex.Walk, error) {
	if in.PersonID == "" {
		in.PersonID = "p1"
	}
	return flex.NewSimulator(flex.DefaultSettings()).Run(in)
}

func startAt(day string) flex.Start {
	return flex.Start{Date: d(day), Balance: generic.ZeroHours()}
}

func dayOf(t *testing.T, walk flex.Walk, day string) flex.DayEntry {
	t.Helper()
	for _, e := range walk.Days {
		if e.Date.Equal(d(day)) {
			return e
		}
	}
	t.Fatalf("no entry for %s", day)
	return flex.DayEntry{}
}

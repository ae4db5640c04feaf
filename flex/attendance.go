package flex

import (
	"strings"

	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// AttendanceRules name the upstream labels that sort hour entries into
// buckets.
type AttendanceRules struct {
	UnsubmittedStatus string
	// WorkMarker is the leave type upstream puts on ordinary project work.
	WorkMarker      string
	FlexLeaveType   string
	UnpaidLeaveType string
	OvertimePhase   string
	// ExcludedProject hours never count as productive work (the KIKY project).
	ExcludedProject string
}

func DefaultAttendanceRules() AttendanceRules {
	return AttendanceRules{
		UnsubmittedStatus: StatusUnsubmitted,
		WorkMarker:        "[project]",
		FlexLeaveType:     "Flex time Leave",
		UnpaidLeaveType:   "Unpaid leave",
		OvertimePhase:     "Overtime",
		ExcludedProject:   "KIKY",
	}
}

// Buckets are the summed hours of one person on one day.
type Buckets struct {
	Worked      generic.Amount
	Leave       generic.Amount
	UnpaidLeave generic.Amount
	Overtime    generic.Amount
}

func emptyBuckets() Buckets {
	zero := generic.ZeroHours()
	return Buckets{Worked: zero, Leave: zero, UnpaidLeave: zero, Overtime: zero}
}

// Total is the sum of all four buckets.
func (b Buckets) Total() generic.Amount {
	return b.Worked.Add(b.Leave).Add(b.UnpaidLeave).Add(b.Overtime)
}

// Attendance maps a date key (YYYY-MM-DD) to the day's buckets.
type Attendance map[string]Buckets

// On returns the buckets for day and whether any submitted row exists for
// it, counted or not.
func (a Attendance) On(day generic.TimePoint) (Buckets, bool) {
	b, ok := a[day.String()]
	if !ok {
		return emptyBuckets(), false
	}
	return b, true
}

// Aggregate folds raw entries into per-day buckets.
func (r AttendanceRules) Aggregate(entries []HourEntry) Attendance {
	days := make(Attendance)
	for _, e := range entries {
		if e.Status == r.UnsubmittedStatus {
			continue
		}
		key := e.Date.String()
		b, ok := days[key]
		if !ok {
			b = emptyBuckets()
		}
		switch {
		case r.isWork(e):
			switch {
			case strings.EqualFold(e.PhaseName, r.OvertimePhase):
				b.Overtime = b.Overtime.Add(e.IncurredHours)
			case e.Project == r.ExcludedProject:
				// tracked by the KIKY calculator instead
			default:
				b.Worked = b.Worked.Add(e.IncurredHours)
			}
		case e.LeaveType == r.UnpaidLeaveType:
			b.UnpaidLeave = b.UnpaidLeave.Add(e.IncurredHours)
		case e.LeaveType == r.FlexLeaveType:
			// taking flex leave is the absence of work, not a credit
		default:
			b.Leave = b.Leave.Add(e.IncurredHours)
		}
		days[key] = b
	}
	return days
}

func (r AttendanceRules) isWork(e HourEntry) bool {
	return e.LeaveType == "" || e.LeaveType == r.WorkMarker
}

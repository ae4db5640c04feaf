package flex

import "github.com/solinor/solinor-invoice-checking-sub000/generic"

// AsOfDate returns the inclusive upper bound for a run. A zero requested
// date means yesterday; any request is capped at today.
func AsOfDate(requested, today generic.TimePoint) generic.TimePoint {
	if requested.IsZero() {
		return today.AddDays(-1)
	}
	return generic.MinDate(requested, today)
}

// ResolveEnd returns the last day to simulate: the later of the latest
// attendance day and the latest contract end, capped by asOf. A zero
// lastAttendance means the person has no attendance.
func ResolveEnd(lastAttendance generic.TimePoint, contracts []Contract, asOf generic.TimePoint) generic.TimePoint {
	end := asOf
	if latest := LatestContract(contracts); latest != nil && !latest.End.IsZero() {
		end = latest.End
		if !lastAttendance.IsZero() {
			end = generic.MaxDate(end, lastAttendance)
		}
	}
	return generic.MinDate(end, asOf)
}

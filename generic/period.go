package generic

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive range of calendar dates [Start, End].
// A period whose End is before its Start is empty.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// IsEmpty reports whether the period contains no days.
func (p Period) IsEmpty() bool {
	return p.End.Before(p.Start)
}

// Validate returns ErrInvalidPeriod when End precedes Start.
func (p Period) Validate() error {
	if p.IsEmpty() {
		return ErrInvalidPeriod
	}
	return nil
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	if p.IsEmpty() {
		return nil
	}
	days := make([]TimePoint, 0, DaysBetween(p.Start, p.End)+1)
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// MonthStarts returns the 1st of every month from Start's month through End,
// keeping only firsts that are not after End.
func (p Period) MonthStarts() []TimePoint {
	if p.IsEmpty() {
		return nil
	}
	var firsts []TimePoint
	for current := p.Start.FirstOfMonth(); current.BeforeOrEqual(p.End); current = current.AddMonths(1) {
		firsts = append(firsts, current)
	}
	return firsts
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

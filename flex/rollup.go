package flex

import "github.com/solinor/solinor-invoice-checking-sub000/generic"

// MonthSummary aggregates the day entries of one calendar month.
type MonthSummary struct {
	Month            string // YYYY-MM
	Start            generic.TimePoint
	Days             int
	Worktime         generic.Amount
	ExpectedWorktime generic.Amount
	Leave            generic.Amount
	Diff             generic.Amount
	Overtime         generic.Amount
	UnpaidLeave      generic.Amount
	// Balance is the cumulative balance after the month's last simulated day.
	Balance generic.Amount
}

func newMonthSummary(day generic.TimePoint) MonthSummary {
	zero := generic.ZeroHours()
	return MonthSummary{
		Month:            day.MonthKey(),
		Start:            day.FirstOfMonth(),
		Worktime:         zero,
		ExpectedWorktime: zero,
		Leave:            zero,
		Diff:             zero,
		Overtime:         zero,
		UnpaidLeave:      zero,
		Balance:          zero,
	}
}

// Rollup folds chronological day entries into month summaries.
type Rollup struct {
	open    *MonthSummary
	settled []MonthSummary
}

func NewRollup() *Rollup {
	return &Rollup{}
}

// Add accumulates one day. A day from a different month closes the open one.
func (r *Rollup) Add(entry DayEntry) {
	if r.open != nil && !r.open.Start.SameMonth(entry.Date) {
		r.settle()
	}
	if r.open == nil {
		m := newMonthSummary(entry.Date)
		r.open = &m
	}

	m := r.open
	m.Days++
	m.Balance = entry.Balance
	if !entry.FlexEnabled {
		return
	}
	m.Worktime = m.Worktime.Add(entry.Worked)
	m.ExpectedWorktime = m.ExpectedWorktime.Add(entry.ExpectedHours)
	m.Leave = m.Leave.Add(entry.Leave)
	m.Diff = m.Diff.Add(entry.Sum)
	m.Overtime = m.Overtime.Add(entry.Overtime)
	m.UnpaidLeave = m.UnpaidLeave.Add(entry.UnpaidLeave)
}

// Close settles the open month and returns all summaries, oldest first.
func (r *Rollup) Close() []MonthSummary {
	r.settle()
	return r.settled
}

func (r *Rollup) settle() {
	if r.open == nil {
		return
	}
	if r.open.Days > 0 {
		r.settled = append(r.settled, *r.open)
	}
	r.open = nil
}

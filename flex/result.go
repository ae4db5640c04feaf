package flex

import "github.com/solinor/solinor-invoice-checking-sub000/generic"

// Result is the full flex calculation of one person.
type Result struct {
	PersonID generic.PersonID
	// Window is the simulated range, both ends inclusive.
	Window generic.Period
	AsOf   generic.TimePoint

	InitialBalance generic.Amount
	// FlexBalance is the simulated balance before KIKY.
	FlexBalance generic.Amount
	// FinalBalance is FlexBalance plus the KIKY saldo.
	FinalBalance generic.Amount

	Days     []DayEntry     // newest first
	Months   []MonthSummary // newest first
	KIKY     KIKYStats
	Chart    []ChartPoint // chronological
	Events   []Event      // chronological
	Warnings []string

	// Contract is the contract in effect on the as-of date, nil if none.
	Contract *Contract
}

// ChartPoint is one month of the balance time series.
type ChartPoint struct {
	Month   string
	Balance generic.Amount
}

// Active reports whether the person has a flex-enabled contract on the
// as-of date.
func (r *Result) Active() bool {
	return r.Contract != nil && r.Contract.FlexEnabled
}

// Status tags an Outcome.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusFailed   Status = "failed"
)

// Outcome is a Result tagged with the person's status. Result is set for
// active and inactive people; Err is set for failed ones.
type Outcome struct {
	PersonID generic.PersonID
	Status   Status
	Result   *Result
	Err      error
}

func newResult(in Input, walk Walk, kiky KIKYStats, asOf generic.TimePoint) *Result {
	r := &Result{
		PersonID:       in.PersonID,
		Window:         generic.Period{Start: in.Start.Date, End: in.End},
		AsOf:           asOf,
		InitialBalance: in.Start.Balance,
		FlexBalance:    walk.Balance,
		FinalBalance:   walk.Balance.Add(kiky.Saldo),
		KIKY:           kiky,
		Events:         walk.Events,
		Warnings:       walk.Warnings,
		Contract:       EffectiveContract(in.Contracts, asOf),
	}

	r.Days = make([]DayEntry, len(walk.Days))
	for i, d := range walk.Days {
		r.Days[len(walk.Days)-1-i] = d
	}
	r.Months = make([]MonthSummary, len(walk.Months))
	r.Chart = make([]ChartPoint, len(walk.Months))
	for i, m := range walk.Months {
		r.Months[len(walk.Months)-1-i] = m
		r.Chart[i] = ChartPoint{Month: m.Month, Balance: m.Balance}
	}
	return r
}

package flex

import (
	"sort"

	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// SortCorrections returns a copy of corrections ordered by date. Same-day
// corrections keep their input order, so the later one wins a reset tie.
func SortCorrections(corrections []Correction) []Correction {
	sorted := make([]Correction, len(corrections))
	copy(sorted, corrections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// IsSorted reports whether corrections are already in date order.
func IsSorted(corrections []Correction) bool {
	return sort.SliceIsSorted(corrections, func(i, j int) bool {
		return corrections[i].Date.Before(corrections[j].Date)
	})
}

// Start is where a simulation begins and with which balance.
type Start struct {
	Date    generic.TimePoint
	Balance generic.Amount
	// Reset is the correction that defined the start, nil when the start
	// comes from the first contract.
	Reset *Correction
}

// ResolveStart picks the simulation start. The latest correction carrying a
// SetTo defines both the start date and the balance; the walk starts on that
// date itself. Without one, the earliest contract start with a zero balance
// is used. Corrections must be sorted.
func ResolveStart(personID generic.PersonID, contracts []Contract, corrections []Correction) (Start, error) {
	for i := len(corrections) - 1; i >= 0; i-- {
		if corrections[i].SetTo != nil {
			reset := corrections[i]
			return Start{Date: reset.Date, Balance: *reset.SetTo, Reset: &reset}, nil
		}
	}

	first := EarliestContract(contracts)
	if first == nil {
		return Start{}, &generic.NoContractError{
			PersonID: personID,
			Reason:   "unable to fetch first contract",
		}
	}
	return Start{Date: first.Start, Balance: generic.ZeroHours()}, nil
}

// adjustmentsByDay indexes the AdjustBy corrections by date key.
func adjustmentsByDay(corrections []Correction) map[string][]Correction {
	byDay := make(map[string][]Correction)
	for _, c := range corrections {
		if c.AdjustBy == nil {
			continue
		}
		key := c.Date.String()
		byDay[key] = append(byDay[key], c)
	}
	return byDay
}

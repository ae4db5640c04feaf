package flex

import "github.com/solinor/solinor-invoice-checking-sub000/generic"

// EffectiveContract returns the first contract covering day, or nil.
// Contracts are assumed not to overlap; see ContractsOn for detection.
func EffectiveContract(contracts []Contract, day generic.TimePoint) *Contract {
	for i := range contracts {
		if contracts[i].Covers(day) {
			return &contracts[i]
		}
	}
	return nil
}

// ContractsOn returns every contract covering day.
func ContractsOn(contracts []Contract, day generic.TimePoint) []Contract {
	var matches []Contract
	for _, c := range contracts {
		if c.Covers(day) {
			matches = append(matches, c)
		}
	}
	return matches
}

// EarliestContract returns the contract with the minimum start date.
func EarliestContract(contracts []Contract) *Contract {
	var first *Contract
	for i := range contracts {
		if first == nil || contracts[i].Start.Before(first.Start) {
			first = &contracts[i]
		}
	}
	return first
}

// LatestContract returns the contract with the maximum end date.
// An open-ended contract is later than any dated one.
func LatestContract(contracts []Contract) *Contract {
	var last *Contract
	for i := range contracts {
		c := &contracts[i]
		switch {
		case last == nil:
			last = c
		case last.End.IsZero():
		case c.End.IsZero() || c.End.After(last.End):
			last = c
		}
	}
	return last
}

package flex

import (
	"github.com/shopspring/decimal"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// KIKYProgram describes the monthly KIKY deduction.
type KIKYProgram struct {
	// Project is the project name KIKY hours are logged against.
	Project string
	// Epoch is the first day logged hours are counted from.
	Epoch generic.TimePoint
	// Launch is the first month deductions can accrue.
	Launch generic.TimePoint
	// MonthlyHours is the deduction of a 100% month.
	MonthlyHours decimal.Decimal
}

// KIKYStats is the outcome of the KIKY calculation.
type KIKYStats struct {
	From           generic.TimePoint
	Hours          generic.Amount
	Deduction      generic.Amount
	EligibleMonths int
	// Saldo is min(0, hours - deduction) and is added to the flex balance.
	Saldo generic.Amount
	// Unused is max(0, hours - deduction).
	Unused generic.Amount
}

// Compute samples the 1st of every month from the later of start and the
// launch month through end. A month is eligible when the contract in effect
// on the 1st has flex enabled. hours is the KIKY total since the epoch.
func (p KIKYProgram) Compute(contracts []Contract, start, end generic.TimePoint, hours generic.Amount) KIKYStats {
	from := generic.MaxDate(start.FirstOfMonth(), p.Launch.FirstOfMonth())
	stats := KIKYStats{
		From:      from,
		Hours:     hours,
		Deduction: generic.ZeroHours(),
	}

	hundred := decimal.NewFromInt(100)
	for _, month := range (generic.Period{Start: from, End: end}).MonthStarts() {
		contract := EffectiveContract(contracts, month)
		if contract == nil || !contract.FlexEnabled {
			continue
		}
		share := p.MonthlyHours.Mul(decimal.NewFromInt(int64(contract.WorktimePercent))).Div(hundred)
		stats.Deduction = stats.Deduction.Add(generic.NewAmountFromDecimal(share, generic.UnitHours))
		stats.EligibleMonths++
	}

	remaining := hours.Sub(stats.Deduction)
	stats.Saldo = remaining.Min(generic.ZeroHours())
	stats.Unused = remaining.Max(generic.ZeroHours())
	return stats
}

/*
simulator.go - Day-by-day flex balance replay

PURPOSE:
  Walks every calendar day of the simulation window and folds contracts,
  corrections, holidays and attendance into one cumulative balance.
  The walk is a linear fold: the only state carried between days is the
  cumulative balance and the open month of the rollup.

PER-DAY ORDER:
  1. Resolve the contract (hours without a contract fail the run)
  2. Apply same-day AdjustBy corrections
  3. Read the day's attendance buckets
  4. Classify: weekday, weekend or public holiday
  5. Credit worked/leave/unpaid-leave hours when flex is on
  6. Sum = worked + leave + unpaid leave - expected
  7. Balance += sum, record the entry, feed the month rollup

EXAMPLE:
  100% contract, Monday, 7.5h logged:   expected 7.5, sum 0.0
  100% contract, Tuesday, nothing:      expected 7.5, sum -7.5
  Public holiday on a Wednesday:        expected 0.0, sum 0.0
  100% contract, Monday, 8h unpaid:     expected -0.5, sum +0.5

SEE ALSO:
  - rollup.go: Month summaries
  - calculator.go: Fetches the inputs and assembles the Result
*/
package flex

import (
	"fmt"

	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// Day types.
const (
	DayWeekday       = "Weekday"
	DayWeekend       = "Weekend"
	dayHolidayPrefix = "Public holiday: "
)

// DayEntry is the ledger line of one simulated day.
type DayEntry struct {
	Date            generic.TimePoint
	DayType         string
	FlexEnabled     bool
	WorktimePercent int
	// ExpectedHours is the day's obligation less unpaid leave, so
	// Sum = Worked + Leave - ExpectedHours. Negative when unpaid leave
	// exceeds the workday.
	ExpectedHours generic.Amount
	Worked        generic.Amount
	Leave         generic.Amount
	UnpaidLeave   generic.Amount
	Overtime      generic.Amount
	// Adjustment is the sum of the day's manual AdjustBy corrections.
	Adjustment generic.Amount
	// Sum is the day's net delta from work and expectations.
	Sum generic.Amount
	// Balance is the cumulative balance after this day.
	Balance generic.Amount
}

// Delta is the total balance change of the day.
func (d DayEntry) Delta() generic.Amount {
	return d.Adjustment.Add(d.Sum)
}

// IsHoliday reports whether the day was classified as a public holiday.
func (d DayEntry) IsHoliday() bool {
	return len(d.DayType) > len(dayHolidayPrefix) && d.DayType[:len(dayHolidayPrefix)] == dayHolidayPrefix
}

// Event is one line of the calculation log.
type Event struct {
	Date    generic.TimePoint
	Message string
}

// Input is everything one simulation needs, fetched up front.
type Input struct {
	PersonID    generic.PersonID
	Contracts   []Contract
	Corrections []Correction // sorted by date
	Attendance  Attendance
	Holidays    Holidays
	Start       Start
	End         generic.TimePoint

	// rejected describes corrections dropped before the run.
	rejected []string
}

// Walk is the chronological output of a simulation.
type Walk struct {
	Days     []DayEntry
	Months   []MonthSummary
	Balance  generic.Amount
	Events   []Event
	Warnings []string
}

// Simulator replays flex balances. It holds no per-run state and may be
// shared across goroutines.
type Simulator struct {
	Settings Settings
}

func NewSimulator(settings Settings) *Simulator {
	return &Simulator{Settings: settings}
}

// Run walks from in.Start.Date to in.End inclusive.
func (s *Simulator) Run(in Input) (Walk, error) {
	walk := Walk{Balance: in.Start.Balance, Warnings: append([]string(nil), in.rejected...)}
	if in.Start.Reset != nil {
		walk.Events = append(walk.Events, Event{
			Date:    in.Start.Date,
			Message: fmt.Sprintf("Flex hours set to %sh", in.Start.Balance),
		})
	}

	adjustments := adjustmentsByDay(in.Corrections)
	rollup := NewRollup()
	overlapReported := false

	for _, day := range (generic.Period{Start: in.Start.Date, End: in.End}).Days() {
		matches := ContractsOn(in.Contracts, day)
		var contract *Contract
		if len(matches) > 0 {
			contract = &matches[0]
		}
		if len(matches) > 1 && !overlapReported {
			walk.Warnings = append(walk.Warnings, fmt.Sprintf("%s: %d contracts overlap, using %s", day, len(matches), matches[0]))
			overlapReported = true
		}

		buckets, logged := in.Attendance.On(day)
		if contract == nil && logged {
			return Walk{}, &generic.NoContractError{
				PersonID: in.PersonID,
				Date:     day,
				Reason:   "hour markings exist but no contract covers the day",
			}
		}

		entry := DayEntry{Date: day, Adjustment: generic.ZeroHours()}
		for _, c := range adjustments[day.String()] {
			entry.Adjustment = entry.Adjustment.Add(*c.AdjustBy)
			walk.Events = append(walk.Events, Event{
				Date:    day,
				Message: fmt.Sprintf("Flex hours manually adjusted by %sh", c.AdjustBy),
			})
			if contract == nil {
				walk.Warnings = append(walk.Warnings, fmt.Sprintf("%s: adjustment of %sh outside any contract", day, c.AdjustBy))
			}
		}
		walk.Balance = walk.Balance.Add(entry.Adjustment)

		if msg := s.settle(&entry, contract, buckets, in.Holidays); msg != "" {
			walk.Events = append(walk.Events, Event{Date: day, Message: msg})
		}
		walk.Balance = walk.Balance.Add(entry.Sum)
		entry.Balance = walk.Balance

		rollup.Add(entry)
		walk.Days = append(walk.Days, entry)
	}

	walk.Months = rollup.Close()
	return walk, nil
}

// settle classifies the day and fills hours, expectation and sum.
// Returns the calculation log message for the day.
func (s *Simulator) settle(entry *DayEntry, contract *Contract, b Buckets, holidays Holidays) string {
	zero := generic.ZeroHours()
	entry.Worked, entry.Leave, entry.UnpaidLeave, entry.Overtime = b.Worked, b.Leave, b.UnpaidLeave, b.Overtime
	entry.ExpectedHours, entry.Sum = zero, zero

	day := entry.Date
	holiday, isHoliday := holidays.Name(day)
	dayOff := day.IsWeekend() || isHoliday
	switch {
	case day.IsWeekend():
		entry.DayType = DayWeekend
	case isHoliday:
		entry.DayType = dayHolidayPrefix + holiday
	default:
		entry.DayType = DayWeekday
	}

	var msg string
	switch {
	case day.IsWorkday() && isHoliday:
		msg = fmt.Sprintf("Public holiday: %s. ", holiday)
	case day.IsWeekend() && !b.Total().IsZero():
		msg = "Weekend. "
	}

	if contract == nil {
		return msg
	}
	entry.FlexEnabled = contract.FlexEnabled
	entry.WorktimePercent = contract.WorktimePercent

	expected := zero
	if !dayOff {
		expected = contract.WorkdayLength(s.Settings.StandardWorkday)
	}

	if !contract.FlexEnabled {
		if !b.Total().IsZero() || !expected.IsZero() {
			msg += fmt.Sprintf("Flex time is not enabled. Would have been +%sh and -%sh for today.", b.Worked.Add(b.Leave).Add(b.UnpaidLeave), expected)
		}
		return msg
	}

	if !expected.IsZero() {
		msg += fmt.Sprintf("Deducting normal workday: -%s * %d%% = -%sh. ", s.Settings.StandardWorkday, contract.WorktimePercent, expected)
	}
	if dayOff {
		// leave only counts against an expected workday
		entry.Leave = zero
	}
	entry.ExpectedHours = expected.Sub(entry.UnpaidLeave)
	entry.Sum = entry.Worked.Add(entry.Leave).Add(entry.UnpaidLeave).Sub(expected)

	if credited := entry.Worked.Add(entry.Leave).Add(entry.UnpaidLeave); !credited.IsZero() {
		msg += fmt.Sprintf("Adding hour markings: %sh. ", credited)
	}
	return msg
}

/*
calculator.go - Flex saldo calculation for one person

PURPOSE:
  Fetches a person's contracts, corrections, attendance and holidays,
  resolves the simulation window, runs the day-by-day simulator and the
  KIKY calculator, and assembles the Result.

FLOW:
  Source ──▶ sort corrections ──▶ resolve start
                                      │
  Clock ──▶ as-of ──▶ resolve end ◀───┘
                          │
  Holidays + HourEntries ─┴──▶ Simulator ──▶ KIKY ──▶ Result

OUTCOMES:
  Evaluate tags the Result:
  - Failed:   no contract anchors the start, or hours exist without one
  - Inactive: no flex-enabled contract on the as-of date
  - Active:   everything else
  Store errors are returned as errors, not outcomes.

EXAMPLE:
  calc := flex.NewCalculator(store, flex.NewHolidayLookup(store, cache), flex.DefaultSettings(), clock.System{})
  outcome, err := calc.Evaluate(ctx, "person-1", flex.Options{})

SEE ALSO:
  - simulator.go: The day loop
  - report.go: Runs Evaluate for every person
*/
package flex

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/clock"
)

// Options parameterize one calculation.
type Options struct {
	// AsOf is the last day to count. Zero means yesterday.
	AsOf generic.TimePoint
}

type Calculator struct {
	Source   Source
	Holidays *HolidayLookup
	Settings Settings
	Clock    clock.Clock
}

func NewCalculator(source Source, holidays *HolidayLookup, settings Settings, clk clock.Clock) *Calculator {
	return &Calculator{Source: source, Holidays: holidays, Settings: settings, Clock: clk}
}

// Calculate computes the flex saldo of one person.
func (c *Calculator) Calculate(ctx context.Context, personID generic.PersonID, opts Options) (*Result, error) {
	in, asOf, err := c.prepare(ctx, personID, opts)
	if err != nil {
		return nil, err
	}

	walk, err := NewSimulator(c.Settings).Run(in)
	if err != nil {
		return nil, err
	}

	kikyHours, err := c.Source.ProjectHours(ctx, personID, c.Settings.KIKY.Project, c.Settings.KIKY.Epoch)
	if err != nil {
		return nil, fmt.Errorf("failed to load KIKY hours: %w", err)
	}
	kiky := c.Settings.KIKY.Compute(in.Contracts, in.Start.Date, in.End, kikyHours)

	result := newResult(in, walk, kiky, asOf)
	log.Debugf("Flex saldo for %s: %sh (flex %sh, KIKY %sh) over %s",
		personID, result.FinalBalance, result.FlexBalance, kiky.Saldo, result.Window)
	return result, nil
}

// Evaluate runs Calculate and tags the outcome.
func (c *Calculator) Evaluate(ctx context.Context, personID generic.PersonID, opts Options) (Outcome, error) {
	result, err := c.Calculate(ctx, personID, opts)
	switch {
	case generic.IsNoContract(err):
		return Outcome{PersonID: personID, Status: StatusFailed, Err: err}, nil
	case err != nil:
		return Outcome{}, err
	case !result.Active():
		return Outcome{PersonID: personID, Status: StatusInactive, Result: result}, nil
	default:
		return Outcome{PersonID: personID, Status: StatusActive, Result: result}, nil
	}
}

// prepare fetches and shapes everything the simulator needs.
func (c *Calculator) prepare(ctx context.Context, personID generic.PersonID, opts Options) (Input, generic.TimePoint, error) {
	contracts, err := c.Source.Contracts(ctx, personID)
	if err != nil {
		return Input{}, generic.TimePoint{}, fmt.Errorf("failed to load contracts: %w", err)
	}
	raw, err := c.Source.Corrections(ctx, personID)
	if err != nil {
		return Input{}, generic.TimePoint{}, fmt.Errorf("failed to load corrections: %w", err)
	}
	if !IsSorted(raw) {
		log.Warnf("Corrections of %s were not in date order", personID)
	}

	corrections := make([]Correction, 0, len(raw))
	var rejected []string
	for _, corr := range SortCorrections(raw) {
		if err := corr.Validate(); err != nil {
			rejected = append(rejected, fmt.Sprintf("ignored correction %s: %v", corr.ID, err))
			continue
		}
		corrections = append(corrections, corr)
	}

	start, err := ResolveStart(personID, contracts, corrections)
	if err != nil {
		return Input{}, generic.TimePoint{}, err
	}

	asOf := AsOfDate(opts.AsOf, clock.Today(c.Clock))
	days, err := c.Source.AttendanceDays(ctx, personID)
	if err != nil {
		return Input{}, generic.TimePoint{}, fmt.Errorf("failed to load attendance days: %w", err)
	}
	var lastAttendance generic.TimePoint
	if len(days) > 0 {
		lastAttendance = days[len(days)-1]
	}
	end := ResolveEnd(lastAttendance, contracts, asOf)

	holidays := Holidays{}
	if c.Holidays != nil {
		if holidays, err = c.Holidays.Until(ctx, asOf); err != nil {
			return Input{}, generic.TimePoint{}, err
		}
	}

	entries, err := c.Source.HourEntries(ctx, personID, start.Date, end)
	if err != nil {
		return Input{}, generic.TimePoint{}, fmt.Errorf("failed to load hour entries: %w", err)
	}

	log.Debugf("Simulating %s from %s to %s (as of %s), %d contracts, %d corrections, %d hour entries",
		personID, start.Date, end, asOf, len(contracts), len(corrections), len(entries))

	return Input{
		PersonID:    personID,
		Contracts:   contracts,
		Corrections: corrections,
		Attendance:  c.Settings.Attendance.Aggregate(entries),
		Holidays:    holidays,
		Start:       start,
		End:         end,
		rejected:    rejected,
	}, asOf, nil
}

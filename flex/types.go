// Package flex implements the flex-time saldo calculation.
// It replays a person's contract history day by day against logged hours,
// manual corrections, public holidays and the KIKY deduction program.
package flex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// =============================================================================
// PEOPLE AND CONTRACTS
// =============================================================================

type Person struct {
	ID          generic.PersonID
	Email       string
	DisplayName string
	Archived    bool
}

// Contract is a work contract. End is inclusive; a zero End is open-ended.
type Contract struct {
	ID              string
	PersonID        generic.PersonID
	Start           generic.TimePoint
	End             generic.TimePoint
	FlexEnabled     bool
	WorktimePercent int
}

// Covers reports whether day falls inside the contract.
func (c Contract) Covers(day generic.TimePoint) bool {
	if day.Before(c.Start) {
		return false
	}
	return c.End.IsZero() || day.BeforeOrEqual(c.End)
}

// WorkdayLength is the expected hours per working day: percent/100 × standard.
func (c Contract) WorkdayLength(standard generic.Amount) generic.Amount {
	return standard.Mul(decimal.NewFromInt(int64(c.WorktimePercent)).Div(decimal.NewFromInt(100)))
}

func (c Contract) Validate() error {
	if c.WorktimePercent < 0 || c.WorktimePercent > 100 {
		return fmt.Errorf("%w: worktime percent %d is not between 0-100", generic.ErrInvalidContract, c.WorktimePercent)
	}
	if c.Start.IsZero() {
		return fmt.Errorf("%w: start date missing", generic.ErrInvalidContract)
	}
	if !c.End.IsZero() && c.End.Before(c.Start) {
		return fmt.Errorf("%w: ends %s before it starts %s", generic.ErrInvalidContract, c.End, c.Start)
	}
	return nil
}

func (c Contract) String() string {
	end := "open"
	if !c.End.IsZero() {
		end = c.End.String()
	}
	return fmt.Sprintf("%s - %s - %s - %t - %d%%", c.PersonID, c.Start, end, c.FlexEnabled, c.WorktimePercent)
}

// =============================================================================
// CORRECTIONS
// =============================================================================

// Correction is a manual flex balance adjustment and/or reset entered by HR.
// A nil field is absent; a SetTo of zero is a real reset.
type Correction struct {
	ID       string
	PersonID generic.PersonID
	Date     generic.TimePoint
	AdjustBy *generic.Amount
	SetTo    *generic.Amount
}

func (c Correction) Validate() error {
	if c.AdjustBy == nil && c.SetTo == nil {
		return fmt.Errorf("%w: neither adjust by nor set to given", generic.ErrInvalidCorrection)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: date missing", generic.ErrInvalidCorrection)
	}
	return nil
}

func (c Correction) String() string {
	msg := fmt.Sprintf("%s - %s:", c.PersonID, c.Date)
	if c.AdjustBy != nil {
		msg += fmt.Sprintf(" adjust by %sh", c.AdjustBy)
	}
	if c.SetTo != nil {
		if c.AdjustBy != nil {
			msg += " and"
		}
		msg += fmt.Sprintf(" set to %sh", c.SetTo)
	}
	return msg
}

// =============================================================================
// HOUR ENTRIES
// =============================================================================

// HourEntry is one raw time-tracking row as imported from upstream.
type HourEntry struct {
	ID            string
	PersonID      generic.PersonID
	Date          generic.TimePoint
	Project       string
	PhaseName     string
	LeaveType     string
	Status        string
	IncurredHours generic.Amount
}

// StatusUnsubmitted marks entries that never count towards any balance.
const StatusUnsubmitted = "Unsubmitted"

// =============================================================================
// SOURCE - Read-only collaborator supplying the per-person datasets
// =============================================================================

// Source supplies the inputs of a flex calculation. Implementations must be
// safe for concurrent reads.
type Source interface {
	// People returns every known person.
	People(ctx context.Context) ([]Person, error)

	// Contracts returns the person's contracts ordered by start date.
	Contracts(ctx context.Context, personID generic.PersonID) ([]Contract, error)

	// Corrections returns the person's corrections ordered by date.
	// Callers still sort defensively.
	Corrections(ctx context.Context, personID generic.PersonID) ([]Correction, error)

	// HourEntries returns raw entries dated within [from, to].
	HourEntries(ctx context.Context, personID generic.PersonID, from, to generic.TimePoint) ([]HourEntry, error)

	// AttendanceDays returns the distinct days with submitted entries, ascending.
	AttendanceDays(ctx context.Context, personID generic.PersonID) ([]generic.TimePoint, error)

	// ProjectHours sums submitted hours logged on project since the given date.
	ProjectHours(ctx context.Context, personID generic.PersonID, project string, since generic.TimePoint) (generic.Amount, error)
}

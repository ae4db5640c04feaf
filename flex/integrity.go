package flex

import (
	"context"
	"fmt"

	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// IssueKind classifies an integrity finding.
type IssueKind string

const (
	IssueCorrectionWithoutContracts IssueKind = "correction_without_contracts"
	IssueAdjustmentOutsideContract  IssueKind = "adjustment_outside_contract"
	IssueHoursWithoutContract       IssueKind = "hours_without_contract"
)

// Issue is one contract data problem. Issues are observations; none of them
// stops a calculation by itself.
type Issue struct {
	PersonID generic.PersonID
	Kind     IssueKind
	Date     generic.TimePoint
	Message  string
}

// CheckIntegrity inspects every person's contracts against their
// corrections and attendance days. Adjustments before the person's latest
// reset are never replayed and are not reported. Only the first uncovered
// attendance day is reported per person.
func CheckIntegrity(ctx context.Context, source Source) ([]Issue, error) {
	people, err := source.People(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}

	var issues []Issue
	for _, person := range people {
		found, err := checkPerson(ctx, source, person)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

func checkPerson(ctx context.Context, source Source, person Person) ([]Issue, error) {
	contracts, err := source.Contracts(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contracts of %s: %w", person.ID, err)
	}
	corrections, err := source.Corrections(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections of %s: %w", person.ID, err)
	}
	corrections = SortCorrections(corrections)

	var issues []Issue
	var resetDate generic.TimePoint
	for _, c := range corrections {
		if c.SetTo != nil {
			resetDate = c.Date
		}
	}
	for _, c := range corrections {
		switch {
		case len(contracts) == 0:
			issues = append(issues, Issue{
				PersonID: person.ID,
				Kind:     IssueCorrectionWithoutContracts,
				Date:     c.Date,
				Message:  fmt.Sprintf("Flex saldo correction (%s) for user %s but no contracts defined.", c, person.Email),
			})
		case c.AdjustBy != nil && c.Date.AfterOrEqual(resetDate) && EffectiveContract(contracts, c.Date) == nil:
			issues = append(issues, Issue{
				PersonID: person.ID,
				Kind:     IssueAdjustmentOutsideContract,
				Date:     c.Date,
				Message:  fmt.Sprintf("Flex saldo adjustment (%s) for user %s but no valid contract defined.", c, person.Email),
			})
		}
	}

	days, err := source.AttendanceDays(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance days of %s: %w", person.ID, err)
	}
	for _, day := range days {
		if EffectiveContract(contracts, day) == nil {
			issues = append(issues, Issue{
				PersonID: person.ID,
				Kind:     IssueHoursWithoutContract,
				Date:     day,
				Message:  fmt.Sprintf("No contract for %s (%s)", person.Email, day),
			})
			break
		}
	}
	return issues, nil
}

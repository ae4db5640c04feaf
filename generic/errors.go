/*
errors.go - Centralized error types for the flex engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Data integrity errors - missing or malformed HR data (no contract)
  2. Validation errors - records that violate their own invariants
  3. Lookup errors - referenced records that do not exist

USAGE:
  Callers branch with errors.Is / errors.As:

    var noContract *generic.NoContractError
    if errors.As(err, &noContract) {
        // degrade to a per-person message, keep the batch going
    }

SEE ALSO:
  - flex/calculator.go: Turns NoContractError into a failed Outcome
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoContract is returned when hours exist on a day no contract covers,
	// or when nothing anchors the start of a flex calculation.
	ErrNoContract = errors.New("no contract")

	// ErrPersonNotFound is returned when a referenced person doesn't exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrInvalidContract is returned for contracts violating their invariants.
	ErrInvalidContract = errors.New("invalid contract")

	// ErrInvalidCorrection is returned for corrections carrying neither field.
	ErrInvalidCorrection = errors.New("invalid correction")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoContractError names the person and, when known, the day that lacks a
// contract.
type NoContractError struct {
	PersonID PersonID
	Date     TimePoint // zero when no contract exists at all
	Reason   string
}

func (e *NoContractError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("no contract for %s: %s", e.PersonID, e.Reason)
	}
	return fmt.Sprintf("no contract for %s on %s: %s", e.PersonID, e.Date, e.Reason)
}

func (e *NoContractError) Unwrap() error {
	return ErrNoContract
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNoContract reports whether err is a missing-contract condition.
func IsNoContract(err error) bool {
	return errors.Is(err, ErrNoContract)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidContract) ||
		errors.Is(err, ErrInvalidCorrection) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound)
}

/*
Package generic provides the shared value types of the flex-time engine.

PURPOSE:
  This package contains the domain-agnostic building blocks used by the
  flex saldo calculation and its stores: exact hour amounts, calendar
  dates, periods, public holidays and the sentinel errors callers branch on.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (always hours for flex accounting)
  - PersonID: Type-safe identifier for an employee

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so cumulative balances never drift
  2. Determinism: Same inputs always produce bit-identical amounts
  3. Type Safety: Strong typing for IDs prevents mixing identifiers

USAGE:
  workday := generic.Hours(7.5)
  balance := generic.Hours(0).Sub(workday)

SEE ALSO:
  - time.go: TimePoint and holiday calendar
  - period.go: Inclusive date ranges and month enumeration
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// Hours is shorthand for an amount in hours.
func Hours(value float64) Amount {
	return NewAmount(value, UnitHours)
}

// ZeroHours returns an empty hour amount.
func ZeroHours() Amount {
	return Amount{Value: decimal.Zero, Unit: UnitHours}
}

// ParseHours parses a decimal string such as "7.50" into an hour amount.
func ParseHours(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d, Unit: UnitHours}, nil
}

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.unit()} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.unit()} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.unit()} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Float returns the amount as float64 for JSON and display.
func (a Amount) Float() float64 {
	return a.Value.InexactFloat64()
}

// String renders the amount with two decimals, e.g. "-7.50".
func (a Amount) String() string {
	return a.Value.StringFixed(2)
}

// The zero Amount has no unit; arithmetic on it yields hours.
func (a Amount) unit() Unit {
	if a.Unit == "" {
		return UnitHours
	}
	return a.Unit
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PersonID string

package generic

import (
	"context"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// =============================================================================
// TIME POINT - Calendar date (flex accounting has no time-of-day)
// =============================================================================

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for tests and constants. Panics on bad input.
func MustParseDate(s string) TimePoint {
	tp, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return tp
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return DateOf(tp.normalize().AddDate(0, 0, n)) }
func (tp TimePoint) AddMonths(n int) TimePoint { return DateOf(tp.normalize().AddDate(0, n, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }
func (tp TimePoint) IsWorkday() bool       { return !tp.IsWeekend() }

func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// String returns the date as YYYY-MM-DD. Also used as map key.
func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// MonthKey returns YYYY-MM.
func (tp TimePoint) MonthKey() string {
	return tp.Time.Format("2006-01")
}

// SameMonth reports whether both dates fall in the same calendar month.
func (tp TimePoint) SameMonth(other TimePoint) bool {
	return tp.Year() == other.Year() && tp.Month() == other.Month()
}

// MinDate returns the earlier of two dates.
func MinDate(a, b TimePoint) TimePoint {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of two dates.
func MaxDate(a, b TimePoint) TimePoint {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// HOLIDAY CALENDAR - Public holidays
// =============================================================================

// Holiday is a public holiday. Date is the unique key.
type Holiday struct {
	Date TimePoint
	Name string
}

// HolidayCalendar provides holiday lookup functionality.
type HolidayCalendar interface {
	// HolidaysUntil returns every holiday on or before asOf, ordered by date.
	HolidaysUntil(ctx context.Context, asOf TimePoint) ([]Holiday, error)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }

func EndOfMonth(year int, month time.Month) TimePoint {
	return DateOf(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1))
}

// FirstOfMonth returns the first day of tp's month.
func (tp TimePoint) FirstOfMonth() TimePoint { return StartOfMonth(tp.Year(), tp.Month()) }

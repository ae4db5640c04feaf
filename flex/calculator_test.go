package flex_test

import (
	"context"
	"testing"

	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
	"github.com/solinor/solinor-invoice-checking-sub000/internal/clock"
	"github.com/solinor/solinor-invoice-checking-sub000/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type fixture struct {
	store *memory.Memory
	clock *clock.Fixed
	calc  *flex.Calculator
}

// newFixture returns an empty store with the clock frozen on Friday 2023-01-06.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	clk := clock.NewFixed(d("2023-01-06"))
	return &fixture{
		store: store,
		clock: clk,
		calc:  flex.NewCalculator(store, flex.NewHolidayLookup(store, nil), flex.DefaultSettings(), clk),
	}
}

func (f *fixture) person(t *testing.T, id, email string) {
	t.Helper()
	require.NoError(t, f.store.SavePerson(context.Background(), flex.Person{ID: generic.PersonID(id), Email: email}))
}

func (f *fixture) contract(t *testing.T, id, start, end string, percent int, flexEnabled bool) {
	t.Helper()
	c := contract(start, end, percent, flexEnabled)
	c.ID = ""
	c.PersonID = generic.PersonID(id)
	_, err := f.store.SaveContract(context.Background(), c)
	require.NoError(t, err)
}

func (f *fixture) correction(t *testing.T, id, day string, adjustBy, setTo *generic.Amount) {
	t.Helper()
	_, err := f.store.SaveCorrection(context.Background(), flex.Correction{
		PersonID: generic.PersonID(id),
		Date:     d(day),
		AdjustBy: adjustBy,
		SetTo:    setTo,
	})
	require.NoError(t, err)
}

func (f *fixture) hours(t *testing.T, id string, entries ...flex.HourEntry) {
	t.Helper()
	for i := range entries {
		entries[i].PersonID = generic.PersonID(id)
	}
	require.NoError(t, f.store.SaveHourEntries(context.Background(), entries))
}

func (f *fixture) evaluate(t *testing.T, id string, opts flex.Options) flex.Outcome {
	t.Helper()
	outcome, err := f.calc.Evaluate(context.Background(), generic.PersonID(id), opts)
	require.NoError(t, err)
	return outcome
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestCalculator_NewContract_DeductsUntilYesterday(t *testing.T) {
	// GIVEN: 100% flex contract from 2023-01-01, no hours, today is 2023-01-06
	// WHEN: Evaluating with the default as-of
	// THEN: Jan 2-5 are deducted and January's KIKY share is added on top

	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "", 100, true)

	outcome := f.evaluate(t, "p1", flex.Options{})

	require.Equal(t, flex.StatusActive, outcome.Status)
	result := outcome.Result
	assert.Equal(t, "2023-01-05", result.AsOf.String())
	assert.Equal(t, "[2023-01-01, 2023-01-05]", result.Window.String())
	assert.Equal(t, "-30.00", result.FlexBalance.String())
	assert.Equal(t, "-2.00", result.KIKY.Saldo.String())
	assert.Equal(t, "-32.00", result.FinalBalance.String())

	require.Len(t, result.Days, 5)
	assert.Equal(t, "2023-01-05", result.Days[0].Date.String(), "newest first")
	require.Len(t, result.Chart, 1)
	assert.Equal(t, "-30.00", result.Chart[0].Balance.String())
	require.NotNil(t, result.Contract)
	assert.True(t, result.Contract.FlexEnabled)
}

func TestCalculator_LoggedHours_AreCredited(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "", 100, true)
	f.hours(t, "p1", work("2023-01-02", 7.5), work("2023-01-03", 9))

	result := f.evaluate(t, "p1", flex.Options{}).Result

	assert.Equal(t, "-13.50", result.FlexBalance.String())
	assert.Equal(t, "0.00", result.Days[3].Balance.String())
}

func TestCalculator_SetTo_StartsFromReset(t *testing.T) {
	// GIVEN: Reset to 10h on Wednesday 2023-01-04
	// WHEN: Evaluating
	// THEN: Only Wednesday and Thursday are simulated

	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2022-01-01", "", 100, true)
	f.correction(t, "p1", "2023-01-04", nil, hp(10))

	result := f.evaluate(t, "p1", flex.Options{}).Result

	assert.Equal(t, "2023-01-04", result.Window.Start.String())
	assert.Equal(t, "10.00", result.InitialBalance.String())
	assert.Equal(t, "-5.00", result.FlexBalance.String())
	assert.Len(t, result.Days, 2)
	assert.Equal(t, "Flex hours set to 10.00h", result.Events[0].Message)
}

func TestCalculator_SetToZeroWithAdjustment(t *testing.T) {
	// GIVEN: One correction both resetting to 0 and adjusting by +1
	// WHEN: Evaluating
	// THEN: The reset anchors the start and the adjustment applies that day

	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2022-01-01", "", 100, true)
	f.correction(t, "p1", "2023-01-04", hp(1), hp(0))

	result := f.evaluate(t, "p1", flex.Options{}).Result

	assert.Equal(t, "0.00", result.InitialBalance.String())
	assert.Equal(t, "-14.00", result.FlexBalance.String())
}

func TestCalculator_ExplicitAsOf(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "", 100, true)

	result := f.evaluate(t, "p1", flex.Options{AsOf: d("2023-01-03")}).Result

	assert.Equal(t, "-15.00", result.FlexBalance.String())
}

func TestCalculator_PublicHoliday_FromStore(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "", 100, true)
	require.NoError(t, f.store.SaveHoliday(context.Background(), generic.Holiday{Date: d("2023-01-05"), Name: "Company day"}))

	result := f.evaluate(t, "p1", flex.Options{}).Result

	assert.Equal(t, "-22.50", result.FlexBalance.String())
	assert.Equal(t, "Public holiday: Company day", result.Days[0].DayType)
}

func TestCalculator_EndedContract_PureDeduction(t *testing.T) {
	// GIVEN: 80% contract for Q1 2023 and no hours
	// WHEN: Evaluating in June
	// THEN: The window stops at the contract end and every weekday costs 6.0h

	f := newFixture(t)
	f.clock.SetNow(d("2023-06-01").Time)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "2023-03-31", 80, true)

	outcome := f.evaluate(t, "p1", flex.Options{})

	assert.Equal(t, flex.StatusInactive, outcome.Status)
	result := outcome.Result
	assert.Equal(t, "2023-03-31", result.Window.End.String())
	assert.Equal(t, "-390.00", result.FlexBalance.String())
	assert.Equal(t, 3, result.KIKY.EligibleMonths)
	assert.Equal(t, "-4.80", result.KIKY.Saldo.String())
	assert.Equal(t, "-394.80", result.FinalBalance.String())

	require.Len(t, result.Chart, 3)
	assert.Equal(t, "2023-01", result.Chart[0].Month)
	assert.Equal(t, "-132.00", result.Chart[0].Balance.String())
	assert.Equal(t, "-252.00", result.Chart[1].Balance.String())
	assert.Equal(t, "-390.00", result.Chart[2].Balance.String())
	assert.Equal(t, "2023-03", result.Months[0].Month, "newest first")
}

func TestCalculator_KIKYHours_ReduceDeduction(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-01", "", 100, true)
	kiky := work("2022-12-15", 1.5)
	kiky.Project = "KIKY"
	f.hours(t, "p1", kiky)

	result := f.evaluate(t, "p1", flex.Options{}).Result

	assert.Equal(t, "1.50", result.KIKY.Hours.String())
	assert.Equal(t, "-0.50", result.KIKY.Saldo.String())
}

// =============================================================================
// OUTCOMES
// =============================================================================

func TestCalculator_NoContract_Failed(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")

	outcome := f.evaluate(t, "p1", flex.Options{})

	assert.Equal(t, flex.StatusFailed, outcome.Status)
	assert.Nil(t, outcome.Result)
	assert.True(t, generic.IsNoContract(outcome.Err))
}

func TestCalculator_HoursBeforeContract_Failed(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2023-01-03", "", 100, true)
	f.correction(t, "p1", "2023-01-01", nil, hp(0))
	f.hours(t, "p1", work("2023-01-02", 7.5))

	outcome := f.evaluate(t, "p1", flex.Options{})

	assert.Equal(t, flex.StatusFailed, outcome.Status)
	assert.ErrorContains(t, outcome.Err, "2023-01-02")
}

func TestCalculator_FlexDisabledAtAsOf_Inactive(t *testing.T) {
	f := newFixture(t)
	f.person(t, "p1", "anna@example.com")
	f.contract(t, "p1", "2022-01-01", "", 100, false)

	outcome := f.evaluate(t, "p1", flex.Options{})

	assert.Equal(t, flex.StatusInactive, outcome.Status)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "0.00", outcome.Result.FlexBalance.String())
}

package memory_test

import (
	"context"
	"testing"

	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
	"github.com/solinor/solinor-invoice-checking-sub000/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Contracts_SortedByStart(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	for _, start := range []string{"2023-01-01", "2021-01-01", "2022-01-01"} {
		_, err := store.SaveContract(ctx, flex.Contract{PersonID: "p1", Start: generic.MustParseDate(start), WorktimePercent: 100})
		require.NoError(t, err)
	}

	contracts, err := store.Contracts(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, contracts, 3)
	assert.Equal(t, "2021-01-01", contracts[0].Start.String())
	assert.Equal(t, "2023-01-01", contracts[2].Start.String())

	contracts[0].WorktimePercent = 1
	again, _ := store.Contracts(ctx, "p1")
	assert.Equal(t, 100, again[0].WorktimePercent, "callers get a copy")
}

func TestMemory_Corrections_SameDayKeepInsertionOrder(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	one, two := generic.Hours(1), generic.Hours(2)

	_, err := store.SaveCorrection(ctx, flex.Correction{ID: "a", PersonID: "p1", Date: generic.MustParseDate("2023-01-02"), AdjustBy: &one})
	require.NoError(t, err)
	_, err = store.SaveCorrection(ctx, flex.Correction{ID: "b", PersonID: "p1", Date: generic.MustParseDate("2023-01-02"), AdjustBy: &two})
	require.NoError(t, err)
	_, err = store.SaveCorrection(ctx, flex.Correction{ID: "c", PersonID: "p1", Date: generic.MustParseDate("2023-01-01"), SetTo: &one})
	require.NoError(t, err)

	corrections, err := store.Corrections(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, []string{corrections[0].ID, corrections[1].ID, corrections[2].ID})

	_, err = store.SaveCorrection(ctx, flex.Correction{PersonID: "p1", Date: generic.MustParseDate("2023-01-03")})
	assert.ErrorIs(t, err, generic.ErrInvalidCorrection)
}

func TestMemory_AttendanceDays_SkipUnsubmitted(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveHourEntries(ctx, []flex.HourEntry{
		{PersonID: "p1", Date: generic.MustParseDate("2023-01-05"), Status: "Approved", IncurredHours: generic.Hours(1)},
		{PersonID: "p1", Date: generic.MustParseDate("2023-01-02"), Status: "Approved", IncurredHours: generic.Hours(1)},
		{PersonID: "p1", Date: generic.MustParseDate("2023-01-02"), Status: "Approved", IncurredHours: generic.Hours(2)},
		{PersonID: "p1", Date: generic.MustParseDate("2023-01-09"), Status: flex.StatusUnsubmitted, IncurredHours: generic.Hours(7)},
	}))

	days, err := store.AttendanceDays(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2023-01-02", days[0].String())
	assert.Equal(t, "2023-01-05", days[1].String())
}

func TestMemory_People_InsertionOrderAndNotFound(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, flex.Person{ID: "z", Email: "z@example.com"}))
	require.NoError(t, store.SavePerson(ctx, flex.Person{ID: "a", Email: "a@example.com"}))
	require.NoError(t, store.SavePerson(ctx, flex.Person{ID: "z", Email: "zz@example.com"}))

	people, err := store.People(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "zz@example.com", people[0].Email)

	_, err = store.Person(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrPersonNotFound)
}

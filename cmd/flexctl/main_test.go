package main

import (
	"bytes"
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

func newTestCalculator(t *testing.T) (*memory.Memory, *flex.Calculator) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, store.SavePerson(ctx, flex.Person{ID: "p1", Email: "anna@example.com"}))
	_, err := store.SaveContract(ctx, flex.Contract{
		PersonID: "p1", Start: generic.MustParseDate("2023-01-01"),
		FlexEnabled: true, WorktimePercent: 100,
	})
	require.NoError(t, err)
	require.NoError(t, store.SavePerson(ctx, flex.Person{ID: "p2", Email: "bob@example.com"}))

	calc := flex.NewCalculator(store, flex.NewHolidayLookup(store, nil), flex.DefaultSettings(),
		clock.NewFixed(generic.MustParseDate("2023-01-06")))
	return store, calc
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestRunReport_WarningsThenLines(t *testing.T) {
	_, calc := newTestCalculator(t)
	var out bytes.Buffer

	err := runReport(context.Background(), &out, flex.NewReporter(calc, 2), flex.Options{})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "Unable to calculate the report for bob@example.com")
	assert.Equal(t, "anna@example.com - -32.00h", string(lines[1]))
}

func TestRunCheck(t *testing.T) {
	store, _ := newTestCalculator(t)
	var out bytes.Buffer

	require.NoError(t, runCheck(context.Background(), &out, store))
	assert.Equal(t, "No issues with flex hour contracts were found.\n", out.String())

	one := generic.Hours(1)
	_, err := store.SaveCorrection(context.Background(), flex.Correction{PersonID: "p2", Date: generic.MustParseDate("2023-01-02"), AdjustBy: &one})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, runCheck(context.Background(), &out, store))
	assert.Contains(t, out.String(), "Following errors with flex hour contracts were found:\n- Flex saldo correction")
}

func TestRunSaldo(t *testing.T) {
	_, calc := newTestCalculator(t)
	var out bytes.Buffer

	err := runSaldo(context.Background(), &out, calc, "p1", flex.Options{AsOf: generic.MustParseDate("2023-01-03")})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "2023-01-02  Deducting normal workday: -7.50 * 100% = -7.50h. ")
	assert.Contains(t, out.String(), "p1 2023-01-01..2023-01-03 (active)")
	assert.Contains(t, out.String(), "Flex hours: -15.00h")
	assert.Contains(t, out.String(), "Final balance: -17.00h")
}

func TestRunSaldo_NoContract(t *testing.T) {
	_, calc := newTestCalculator(t)

	err := runSaldo(context.Background(), &bytes.Buffer{}, calc, "p2", flex.Options{})

	assert.True(t, generic.IsNoContract(err))
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"report", "check", "saldo"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("as-of"))
}

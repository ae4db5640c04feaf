/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- People, contract, correction and hour imports (validation, 404s)
- Flex result, chart, report and integrity endpoints
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solinor/solinor-invoice-checking-sub000/api"
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

// newTestServer wires the router over an in-memory store with the clock on
// Friday 2023-01-06.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	calc := flex.NewCalculator(store, flex.NewHolidayLookup(store, nil), flex.DefaultSettings(),
		clock.NewFixed(generic.MustParseDate("2023-01-06")))
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store, calc, 4), []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedPerson(t *testing.T, srv *httptest.Server) {
	t.Helper()
	resp := post(t, srv, "/api/people", map[string]any{"id": "p1", "email": "anna@example.com", "display_name": "Anna"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = post(t, srv, "/api/people/p1/contracts", map[string]any{
		"start_date": "2023-01-01", "flex_enabled": true, "worktime_percent": 100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// =============================================================================
// WRITES
// =============================================================================

func TestCreatePerson_InvalidEmail_BadRequest(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/people", map[string]any{"id": "p1", "email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[api.ErrorResponse](t, resp)
	assert.Equal(t, "Validation failed", body.Error)
}

func TestCreateContract_Validation(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"percent above 100", map[string]any{"start_date": "2023-01-01", "worktime_percent": 150}, http.StatusBadRequest},
		{"bad start date", map[string]any{"start_date": "01.01.2023", "worktime_percent": 100}, http.StatusBadRequest},
		{"end before start", map[string]any{"start_date": "2023-02-01", "end_date": "2023-01-01", "worktime_percent": 100}, http.StatusBadRequest},
		{"valid", map[string]any{"start_date": "2024-01-01", "end_date": "2024-12-31", "worktime_percent": 60}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/api/people/p1/contracts", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	contracts := decode[[]api.ContractDTO](t, get(t, srv, "/api/people/p1/contracts"))
	require.Len(t, contracts, 2)
	assert.Equal(t, "2024-12-31", contracts[1].EndDate)
	assert.Empty(t, contracts[0].EndDate)
}

func TestCreateContract_UnknownPerson_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/api/people/ghost/contracts", map[string]any{"start_date": "2023-01-01", "worktime_percent": 100})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCorrection_RequiresOneAmount(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)

	resp := post(t, srv, "/api/people/p1/corrections", map[string]any{"date": "2023-01-03"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv, "/api/people/p1/corrections", map[string]any{"date": "2023-01-03", "set_to": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.CorrectionDTO](t, resp)
	require.NotNil(t, created.SetTo)
	assert.Equal(t, 0.0, *created.SetTo)
	assert.Nil(t, created.AdjustBy)
}

// =============================================================================
// FLEX
// =============================================================================

func TestGetFlex_ReturnsBalanceAndDays(t *testing.T) {
	// GIVEN: Anna has a 100% flex contract and logged a full Monday
	// WHEN: Fetching her flex result
	// THEN: Three unlogged weekdays are deducted

	srv := newTestServer(t)
	seedPerson(t, srv)
	resp := post(t, srv, "/api/people/p1/hours", map[string]any{"entries": []map[string]any{
		{"date": "2023-01-02", "project": "Customer", "status": "Approved", "incurred_hours": "7.5"},
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, map[string]int{"imported": 1}, decode[map[string]int](t, resp))

	resp = get(t, srv, "/api/people/p1/flex")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[api.FlexResultDTO](t, resp)

	assert.Equal(t, "active", result.Status)
	assert.Equal(t, "2023-01-05", result.AsOf)
	assert.Equal(t, -22.5, result.FlexBalance)
	assert.Equal(t, -24.5, result.FinalBalance)
	require.Len(t, result.Days, 5)
	assert.Equal(t, "2023-01-05", result.Days[0].Date)
	assert.Equal(t, 0.0, result.Days[3].Sum)
	require.NotNil(t, result.KIKY)
	assert.Equal(t, 1, result.KIKY.EligibleMonths)
}

func TestGetFlex_AsOfQuery(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)

	result := decode[api.FlexResultDTO](t, get(t, srv, "/api/people/p1/flex?asOf=2023-01-02"))
	assert.Equal(t, -7.5, result.FlexBalance)

	resp := get(t, srv, "/api/people/p1/flex?asOf=yesterday")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFlex_NoContract_Unprocessable(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, "/api/people", map[string]any{"id": "p2", "email": "bob@example.com"})

	resp := get(t, srv, "/api/people/p2/flex")

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	result := decode[api.FlexResultDTO](t, resp)
	assert.Equal(t, "failed", result.Status)
	assert.Contains(t, result.Error, "no contract")
	assert.NotNil(t, result.Days)
}

func TestGetFlex_UnknownPerson_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/people/ghost/flex")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetFlexChart(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)

	chart := decode[[]api.ChartPointDTO](t, get(t, srv, "/api/people/p1/flex/chart"))

	require.Len(t, chart, 1)
	assert.Equal(t, "2023-01", chart[0].Month)
	assert.Equal(t, -30.0, chart[0].Balance)
}

func TestGetReport_AndIntegrity(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)
	post(t, srv, "/api/people", map[string]any{"id": "p2", "email": "bob@example.com"})
	post(t, srv, "/api/people/p2/corrections", map[string]any{"date": "2023-01-03", "adjust_by": 1.5})

	report := decode[api.ReportDTO](t, get(t, srv, "/api/flex/report"))
	require.Len(t, report.Lines, 1)
	assert.Equal(t, "anna@example.com", report.Lines[0].Email)
	assert.Equal(t, -32.0, report.Lines[0].Balance)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "bob@example.com")

	issues := decode[[]api.IssueDTO](t, get(t, srv, "/api/flex/integrity"))
	require.Len(t, issues, 1)
	assert.Equal(t, "p2", issues[0].PersonID)
	assert.Equal(t, string(flex.IssueCorrectionWithoutContracts), issues[0].Kind)
}

func TestHolidays_CreateAndAffectFlex(t *testing.T) {
	srv := newTestServer(t)
	seedPerson(t, srv)

	resp := post(t, srv, "/api/holidays", map[string]any{"date": "2023-01-05", "name": "Company day"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	holidays := decode[[]api.HolidayDTO](t, get(t, srv, "/api/holidays"))
	require.Len(t, holidays, 1)

	result := decode[api.FlexResultDTO](t, get(t, srv, "/api/people/p1/flex"))
	assert.Equal(t, -22.5, result.FlexBalance)
	assert.Equal(t, "Public holiday: Company day", result.Days[0].DayType)
}

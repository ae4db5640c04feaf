/*
handlers.go - HTTP API handlers for the flex saldo engine

PURPOSE:
  Exposes the flex calculation via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates to the flex package.

ENDPOINTS:
  People:
    GET    /api/people                      List all people
    POST   /api/people                      Create or update a person
    GET    /api/people/{id}/contracts       List contracts
    POST   /api/people/{id}/contracts       Add a contract
    GET    /api/people/{id}/corrections     List corrections
    POST   /api/people/{id}/corrections     Add a correction
    POST   /api/people/{id}/hours           Import raw hour entries

  Flex:
    GET    /api/people/{id}/flex?asOf=      Full flex result
    GET    /api/people/{id}/flex/chart      Monthly balance series
    GET    /api/flex/report                 Saldo of every active person
    GET    /api/flex/integrity              Contract data issues

  Holidays:
    GET    /api/holidays                    List public holidays
    POST   /api/holidays                    Add or rename a holiday

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Person not found
  - 422: Flex saldo cannot be calculated (no contract)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence the API reads and writes.
type Store interface {
	flex.Source
	generic.HolidayCalendar

	Person(ctx context.Context, id generic.PersonID) (flex.Person, error)
	SavePerson(ctx context.Context, p flex.Person) error
	SaveContract(ctx context.Context, c flex.Contract) (flex.Contract, error)
	SaveCorrection(ctx context.Context, c flex.Correction) (flex.Correction, error)
	SaveHourEntries(ctx context.Context, entries []flex.HourEntry) error
	SaveHoliday(ctx context.Context, h generic.Holiday) error
	Holidays(ctx context.Context) ([]generic.Holiday, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Calculator *flex.Calculator
	Reporter   *flex.Reporter

	validate *validator.Validate
}

// NewHandler creates a handler. The calculator must read from store.
func NewHandler(store Store, calc *flex.Calculator, concurrency int) *Handler {
	return &Handler{
		Store:      store,
		Calculator: calc,
		Reporter:   flex.NewReporter(calc, concurrency),
		validate:   validator.New(),
	}
}

// =============================================================================
// PEOPLE HANDLERS
// =============================================================================

func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.People(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list people", err)
		return
	}

	dtos := make([]PersonDTO, len(people))
	for i, p := range people {
		dtos[i] = toPersonDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	person := flex.Person{
		ID:          generic.PersonID(req.ID),
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Archived:    req.Archived,
	}
	if err := h.Store.SavePerson(r.Context(), person); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save person", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPersonDTO(person))
}

// =============================================================================
// CONTRACT AND CORRECTION HANDLERS
// =============================================================================

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	person, ok := h.person(w, r)
	if !ok {
		return
	}
	contracts, err := h.Store.Contracts(r.Context(), person.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(contracts))
	for i, c := range contracts {
		dtos[i] = toContractDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	person, ok := h.person(w, r)
	if !ok {
		return
	}
	var req CreateContractRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	contract := flex.Contract{
		PersonID:        person.ID,
		Start:           generic.MustParseDate(req.StartDate),
		FlexEnabled:     req.FlexEnabled,
		WorktimePercent: req.WorktimePercent,
	}
	if req.EndDate != "" {
		contract.End = generic.MustParseDate(req.EndDate)
	}

	saved, err := h.Store.SaveContract(r.Context(), contract)
	if err != nil {
		writeMappedError(w, "Failed to save contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, toContractDTO(saved))
}

func (h *Handler) ListCorrections(w http.ResponseWriter, r *http.Request) {
	person, ok := h.person(w, r)
	if !ok {
		return
	}
	corrections, err := h.Store.Corrections(r.Context(), person.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list corrections", err)
		return
	}

	dtos := make([]CorrectionDTO, len(corrections))
	for i, c := range corrections {
		dtos[i] = toCorrectionDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCorrection(w http.ResponseWriter, r *http.Request) {
	person, ok := h.person(w, r)
	if !ok {
		return
	}
	var req CreateCorrectionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	correction := flex.Correction{
		PersonID: person.ID,
		Date:     generic.MustParseDate(req.Date),
	}
	if req.AdjustBy != nil {
		a := generic.NewAmountFromDecimal(*req.AdjustBy, generic.UnitHours)
		correction.AdjustBy = &a
	}
	if req.SetTo != nil {
		s := generic.NewAmountFromDecimal(*req.SetTo, generic.UnitHours)
		correction.SetTo = &s
	}

	saved, err := h.Store.SaveCorrection(r.Context(), correction)
	if err != nil {
		writeMappedError(w, "Failed to save correction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCorrectionDTO(saved))
}

// CreateHourEntries imports raw hour entries for one person.
func (h *Handler) CreateHourEntries(w http.ResponseWriter, r *http.Request) {
	person, ok := h.person(w, r)
	if !ok {
		return
	}
	var req CreateHourEntriesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entries := make([]flex.HourEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = flex.HourEntry{
			ID:            e.ID,
			PersonID:      person.ID,
			Date:          generic.MustParseDate(e.Date),
			Project:       e.Project,
			PhaseName:     e.PhaseName,
			LeaveType:     e.LeaveType,
			Status:        e.Status,
			IncurredHours: generic.NewAmountFromDecimal(e.IncurredHours, generic.UnitHours),
		}
	}
	if err := h.Store.SaveHourEntries(r.Context(), entries); err != nil {
		writeMappedError(w, "Failed to save hour entries", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": len(entries)})
}

// =============================================================================
// FLEX HANDLERS
// =============================================================================

// GetFlex returns the full flex result. Failed calculations answer 422 with
// the same body shape so clients can show the explanation.
func (h *Handler) GetFlex(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if outcome.Status == flex.StatusFailed {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, toFlexResultDTO(outcome))
}

func (h *Handler) GetFlexChart(w http.ResponseWriter, r *http.Request) {
	outcome, ok := h.evaluate(w, r)
	if !ok {
		return
	}
	if outcome.Status == flex.StatusFailed {
		writeError(w, http.StatusUnprocessableEntity, "Unable to calculate flex saldo", outcome.Err)
		return
	}
	writeJSON(w, http.StatusOK, toChartDTO(outcome.Result.Chart))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asOf", err)
		return
	}
	report, err := h.Reporter.Report(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	dto := ReportDTO{Lines: []ReportLineDTO{}, Inactive: report.Inactive, Warnings: []string{}}
	for _, l := range report.Lines {
		dto.Lines = append(dto.Lines, ReportLineDTO{PersonID: string(l.PersonID), Email: l.Email, Balance: l.Balance.Float()})
	}
	dto.Warnings = append(dto.Warnings, report.Warnings...)
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) GetIntegrity(w http.ResponseWriter, r *http.Request) {
	issues, err := flex.CheckIntegrity(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check contracts", err)
		return
	}

	dtos := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = IssueDTO{
			PersonID: string(issue.PersonID),
			Kind:     string(issue.Kind),
			Date:     issue.Date.String(),
			Message:  issue.Message,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) (flex.Outcome, bool) {
	person, ok := h.person(w, r)
	if !ok {
		return flex.Outcome{}, false
	}
	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid asOf", err)
		return flex.Outcome{}, false
	}
	outcome, err := h.Calculator.Evaluate(r.Context(), person.ID, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to calculate flex saldo", err)
		return flex.Outcome{}, false
	}
	return outcome, true
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.Holidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{Date: hol.Date.String(), Name: hol.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	holiday := generic.Holiday{Date: generic.MustParseDate(req.Date), Name: req.Name}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{Date: req.Date, Name: req.Name})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) person(w http.ResponseWriter, r *http.Request) (flex.Person, bool) {
	id := generic.PersonID(chi.URLParam(r, "id"))
	person, err := h.Store.Person(r.Context(), id)
	if err != nil {
		writeMappedError(w, "Failed to load person", err)
		return flex.Person{}, false
	}
	return person, true
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// On failure it writes a 400 and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseOptions(r *http.Request) (flex.Options, error) {
	var opts flex.Options
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		asOf, err := generic.ParseDate(raw)
		if err != nil {
			return opts, fmt.Errorf("%q is not a YYYY-MM-DD date", raw)
		}
		opts.AsOf = asOf
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeMappedError picks the status from the error's sentinel.
func writeMappedError(w http.ResponseWriter, message string, err error) {
	var noContract *generic.NoContractError
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.As(err, &noContract):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the flex domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  People:      PersonDTO, CreatePersonRequest
  Contracts:   ContractDTO, CreateContractRequest
  Corrections: CorrectionDTO, CreateCorrectionRequest
  Hours:       CreateHourEntriesRequest
  Flex:        FlexResultDTO, DayEntryDTO, MonthSummaryDTO, KIKYDTO
  Report:      ReportDTO, IssueDTO
  Holidays:    HolidayDTO

VALIDATION:
  Request types carry go-playground/validator tags; handlers call
  decodeAndValidate before touching the store.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

type CreatePersonRequest struct {
	ID          string `json:"id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name"`
	Archived    bool   `json:"archived"`
}

type CreateContractRequest struct {
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	FlexEnabled     bool   `json:"flex_enabled"`
	WorktimePercent int    `json:"worktime_percent" validate:"min=0,max=100"`
}

// CreateCorrectionRequest carries optional amounts; a null field is absent
// and a zero set_to is a real reset.
type CreateCorrectionRequest struct {
	Date     string           `json:"date" validate:"required,datetime=2006-01-02"`
	AdjustBy *decimal.Decimal `json:"adjust_by" validate:"required_without=SetTo"`
	SetTo    *decimal.Decimal `json:"set_to" validate:"required_without=AdjustBy"`
}

type HourEntryRequest struct {
	ID            string          `json:"id"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Project       string          `json:"project"`
	PhaseName     string          `json:"phase_name"`
	LeaveType     string          `json:"leave_type"`
	Status        string          `json:"status"`
	IncurredHours decimal.Decimal `json:"incurred_hours"`
}

type CreateHourEntriesRequest struct {
	Entries []HourEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type PersonDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Archived    bool   `json:"archived"`
}

type ContractDTO struct {
	ID              string `json:"id"`
	PersonID        string `json:"person_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date,omitempty"`
	FlexEnabled     bool   `json:"flex_enabled"`
	WorktimePercent int    `json:"worktime_percent"`
}

type CorrectionDTO struct {
	ID       string   `json:"id"`
	PersonID string   `json:"person_id"`
	Date     string   `json:"date"`
	AdjustBy *float64 `json:"adjust_by"`
	SetTo    *float64 `json:"set_to"`
}

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type DayEntryDTO struct {
	Date            string  `json:"date"`
	DayType         string  `json:"day_type"`
	ExpectedHours   float64 `json:"expected_hours"`
	FlexEnabled     bool    `json:"flex_enabled"`
	WorktimePercent int     `json:"worktime_percent"`
	Worked          float64 `json:"worked"`
	Leave           float64 `json:"leave"`
	UnpaidLeave     float64 `json:"unpaid_leave"`
	Overtime        float64 `json:"overtime"`
	Adjustment      float64 `json:"adjustment"`
	Sum             float64 `json:"sum"`
	Balance         float64 `json:"balance"`
}

type MonthSummaryDTO struct {
	Month            string  `json:"month"`
	Days             int     `json:"days"`
	Worktime         float64 `json:"worktime"`
	ExpectedWorktime float64 `json:"expected_worktime"`
	Leave            float64 `json:"leave"`
	Diff             float64 `json:"diff"`
	Overtime         float64 `json:"overtime"`
	UnpaidLeave      float64 `json:"unpaid_leave"`
	Balance          float64 `json:"balance"`
}

type KIKYDTO struct {
	From           string  `json:"from"`
	Hours          float64 `json:"hours"`
	Deduction      float64 `json:"deduction"`
	EligibleMonths int     `json:"eligible_months"`
	Saldo          float64 `json:"saldo"`
	Unused         float64 `json:"unused"`
}

type ChartPointDTO struct {
	Month   string  `json:"month"`
	Balance float64 `json:"balance"`
}

type EventDTO struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

// FlexResultDTO is the response of GET /api/people/{id}/flex.
type FlexResultDTO struct {
	PersonID       string            `json:"person_id"`
	Status         string            `json:"status"`
	Error          string            `json:"error,omitempty"`
	Start          string            `json:"start,omitempty"`
	End            string            `json:"end,omitempty"`
	AsOf           string            `json:"as_of,omitempty"`
	InitialBalance float64           `json:"initial_balance"`
	FlexBalance    float64           `json:"flex_balance"`
	FinalBalance   float64           `json:"final_balance"`
	Contract       *ContractDTO      `json:"contract,omitempty"`
	KIKY           *KIKYDTO          `json:"kiky,omitempty"`
	Days           []DayEntryDTO     `json:"days"`
	Months         []MonthSummaryDTO `json:"months"`
	Chart          []ChartPointDTO   `json:"chart"`
	Events         []EventDTO        `json:"events"`
	Warnings       []string          `json:"warnings"`
}

type ReportLineDTO struct {
	PersonID string  `json:"person_id"`
	Email    string  `json:"email"`
	Balance  float64 `json:"balance"`
}

type ReportDTO struct {
	Lines    []ReportLineDTO `json:"lines"`
	Inactive int             `json:"inactive"`
	Warnings []string        `json:"warnings"`
}

type IssueDTO struct {
	PersonID string `json:"person_id"`
	Kind     string `json:"kind"`
	Date     string `json:"date"`
	Message  string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toPersonDTO(p flex.Person) PersonDTO {
	return PersonDTO{ID: string(p.ID), Email: p.Email, DisplayName: p.DisplayName, Archived: p.Archived}
}

func toContractDTO(c flex.Contract) ContractDTO {
	dto := ContractDTO{
		ID:              c.ID,
		PersonID:        string(c.PersonID),
		StartDate:       c.Start.String(),
		FlexEnabled:     c.FlexEnabled,
		WorktimePercent: c.WorktimePercent,
	}
	if !c.End.IsZero() {
		dto.EndDate = c.End.String()
	}
	return dto
}

func toCorrectionDTO(c flex.Correction) CorrectionDTO {
	return CorrectionDTO{
		ID:       c.ID,
		PersonID: string(c.PersonID),
		Date:     c.Date.String(),
		AdjustBy: floatPtr(c.AdjustBy),
		SetTo:    floatPtr(c.SetTo),
	}
}

func floatPtr(a *generic.Amount) *float64 {
	if a == nil {
		return nil
	}
	f := a.Float()
	return &f
}

func toFlexResultDTO(o flex.Outcome) FlexResultDTO {
	dto := FlexResultDTO{
		PersonID: string(o.PersonID),
		Status:   string(o.Status),
		Days:     []DayEntryDTO{},
		Months:   []MonthSummaryDTO{},
		Chart:    []ChartPointDTO{},
		Events:   []EventDTO{},
		Warnings: []string{},
	}
	if o.Err != nil {
		dto.Error = o.Err.Error()
	}
	r := o.Result
	if r == nil {
		return dto
	}

	dto.Start = r.Window.Start.String()
	dto.End = r.Window.End.String()
	dto.AsOf = r.AsOf.String()
	dto.InitialBalance = r.InitialBalance.Float()
	dto.FlexBalance = r.FlexBalance.Float()
	dto.FinalBalance = r.FinalBalance.Float()
	if r.Contract != nil {
		c := toContractDTO(*r.Contract)
		dto.Contract = &c
	}
	dto.KIKY = &KIKYDTO{
		From:           r.KIKY.From.String(),
		Hours:          r.KIKY.Hours.Float(),
		Deduction:      r.KIKY.Deduction.Float(),
		EligibleMonths: r.KIKY.EligibleMonths,
		Saldo:          r.KIKY.Saldo.Float(),
		Unused:         r.KIKY.Unused.Float(),
	}
	for _, d := range r.Days {
		dto.Days = append(dto.Days, DayEntryDTO{
			Date:            d.Date.String(),
			DayType:         d.DayType,
			ExpectedHours:   d.ExpectedHours.Float(),
			FlexEnabled:     d.FlexEnabled,
			WorktimePercent: d.WorktimePercent,
			Worked:          d.Worked.Float(),
			Leave:           d.Leave.Float(),
			UnpaidLeave:     d.UnpaidLeave.Float(),
			Overtime:        d.Overtime.Float(),
			Adjustment:      d.Adjustment.Float(),
			Sum:             d.Sum.Float(),
			Balance:         d.Balance.Float(),
		})
	}
	for _, m := range r.Months {
		dto.Months = append(dto.Months, MonthSummaryDTO{
			Month:            m.Month,
			Days:             m.Days,
			Worktime:         m.Worktime.Float(),
			ExpectedWorktime: m.ExpectedWorktime.Float(),
			Leave:            m.Leave.Float(),
			Diff:             m.Diff.Float(),
			Overtime:         m.Overtime.Float(),
			UnpaidLeave:      m.UnpaidLeave.Float(),
			Balance:          m.Balance.Float(),
		})
	}
	dto.Chart = toChartDTO(r.Chart)
	for _, e := range r.Events {
		dto.Events = append(dto.Events, EventDTO{Date: e.Date.String(), Message: e.Message})
	}
	dto.Warnings = append(dto.Warnings, r.Warnings...)
	return dto
}

func toChartDTO(points []flex.ChartPoint) []ChartPointDTO {
	dtos := make([]ChartPointDTO, len(points))
	for i, p := range points {
		dtos[i] = ChartPointDTO{Month: p.Month, Balance: p.Balance.Float()}
	}
	return dtos
}

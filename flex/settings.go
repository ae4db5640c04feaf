package flex

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

// Settings holds the company constants of the flex calculation.
type Settings struct {
	// StandardWorkday is the length of a 100% workday.
	StandardWorkday generic.Amount
	Attendance      AttendanceRules
	KIKY            KIKYProgram
}

// DefaultSettings returns the production constants.
func DefaultSettings() Settings {
	return Settings{
		StandardWorkday: generic.Hours(7.5),
		Attendance:      DefaultAttendanceRules(),
		KIKY: KIKYProgram{
			Project:      "KIKY",
			Epoch:        generic.NewTimePoint(2017, time.January, 1),
			Launch:       generic.NewTimePoint(2017, time.January, 1),
			MonthlyHours: decimal.NewFromInt(2),
		},
	}
}

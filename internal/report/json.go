package report

import (
	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

const dateLayout = "2006-01-02"

// JSONReport is the transport shape of a Report. Every decimal is rounded
// to two places here and marshals as a number with two fractional digits.
type JSONReport struct {
	Employee   JSONEmployee `json:"employee"`
	Period     JSONPeriod   `json:"period"`
	Rates      *JSONRates   `json:"rates,omitempty"`
	WorkLogs   []JSONRow    `json:"work_logs"`
	Totals     JSONTotals   `json:"totals"`
	ReportType Variant      `json:"report_type"`
}

// JSONEmployee echoes the employee identity.
type JSONEmployee struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
}

// JSONPeriod echoes the requested range.
type JSONPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// JSONRates echoes the owner rate configuration.
type JSONRates struct {
	HourlyRate         numeric.Rate `json:"hourly_rate"`
	OvertimeMultiplier numeric.Rate `json:"overtime_multiplier"`
	OvertimeRate       numeric.Rate `json:"overtime_rate"`
}

// JSONRow is one day of the report.
type JSONRow struct {
	WorkDate       string        `json:"work_date"`
	WorkHours      numeric.Fixed `json:"work_hours"`
	OvertimeHours  numeric.Fixed `json:"overtime_hours"`
	VacationHours  numeric.Fixed `json:"vacation_hours"`
	SickLeaveHours numeric.Fixed `json:"sick_leave_hours"`
	OtherHours     numeric.Fixed `json:"other_hours"`
	AbsentHours    numeric.Fixed `json:"absent_hours"`
	TotalHours     numeric.Fixed `json:"total_hours"`
	Notes          *string       `json:"notes"`
	Costs          *JSONCosts    `json:"costs,omitempty"`
}

// JSONCosts is the priced breakdown of one row.
type JSONCosts struct {
	WorkCost     numeric.Fixed `json:"work_cost"`
	OvertimeCost numeric.Fixed `json:"overtime_cost"`
	VacationCost numeric.Fixed `json:"vacation_cost"`
	SickCost     numeric.Fixed `json:"sick_cost"`
	OtherCost    numeric.Fixed `json:"other_cost"`
	TotalCost    numeric.Fixed `json:"total_cost"`
}

// JSONTotals are the report-wide sums.
type JSONTotals struct {
	WorkHours      numeric.Fixed  `json:"work_hours"`
	OvertimeHours  numeric.Fixed  `json:"overtime_hours"`
	VacationHours  numeric.Fixed  `json:"vacation_hours"`
	SickLeaveHours numeric.Fixed  `json:"sick_leave_hours"`
	OtherHours     numeric.Fixed  `json:"other_hours"`
	AbsentHours    numeric.Fixed  `json:"absent_hours"`
	TotalHours     numeric.Fixed  `json:"total_hours"`
	TotalCost      *numeric.Fixed `json:"total_cost,omitempty"`
}

// NewJSONReport shapes rep for JSON transport.
func NewJSONReport(rep *Report) *JSONReport {
	out := &JSONReport{
		Employee: JSONEmployee{
			ID:        rep.Employee.ID,
			FirstName: rep.Employee.FirstName,
			LastName:  rep.Employee.LastName,
			Email:     rep.Employee.Email,
		},
		Period: JSONPeriod{
			StartDate: rep.Start.Format(dateLayout),
			EndDate:   rep.End.Format(dateLayout),
		},
		WorkLogs:   make([]JSONRow, 0, len(rep.Rows)),
		ReportType: rep.Variant,
	}

	if rep.Rates != nil {
		out.Rates = &JSONRates{
			HourlyRate:         rep.Rates.HourlyRate.Exact(),
			OvertimeMultiplier: rep.Rates.OvertimeMultiplier.Exact(),
			OvertimeRate:       rep.Rates.OvertimeRate().Exact(),
		}
	}

	for _, row := range rep.Rows {
		jr := JSONRow{
			WorkDate:       row.WorkDate.Format(dateLayout),
			WorkHours:      row.Hours.Work.Round2(),
			OvertimeHours:  row.Hours.Overtime.Round2(),
			VacationHours:  row.Hours.Vacation.Round2(),
			SickLeaveHours: row.Hours.SickLeave.Round2(),
			OtherHours:     row.Hours.Other.Round2(),
			AbsentHours:    row.Hours.Absent.Round2(),
			TotalHours:     row.TotalHours.Round2(),
			Notes:          row.Notes,
		}
		if row.Costs != nil {
			jr.Costs = &JSONCosts{
				WorkCost:     row.Costs.Work.Round2(),
				OvertimeCost: row.Costs.Overtime.Round2(),
				VacationCost: row.Costs.Vacation.Round2(),
				SickCost:     row.Costs.SickLeave.Round2(),
				OtherCost:    row.Costs.Other.Round2(),
				TotalCost:    row.Costs.Total.Round2(),
			}
		}
		out.WorkLogs = append(out.WorkLogs, jr)
	}

	t := rep.Totals
	out.Totals = JSONTotals{
		WorkHours:      t.Hours.Work.Round2(),
		OvertimeHours:  t.Hours.Overtime.Round2(),
		VacationHours:  t.Hours.Vacation.Round2(),
		SickLeaveHours: t.Hours.SickLeave.Round2(),
		OtherHours:     t.Hours.Other.Round2(),
		AbsentHours:    t.Hours.Absent.Round2(),
		TotalHours:     t.TotalHours.Round2(),
	}
	if t.Costs != nil {
		total := t.Costs.Total.Round2()
		out.Totals.TotalCost = &total
	}

	return out
}

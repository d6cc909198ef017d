// Package report aggregates an employee's work logs over a date range into
// hour totals and, for the owner variant, labour costs. Aggregation is a pure
// function; shaping the result into JSON or a printable document happens in
// separate stateless steps over the same Report value.
package report

import (
	"errors"
	"strings"
	"time"

	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// ErrNoData is returned when the requested range holds no work logs.
// A reversed range lands here too.
var ErrNoData = errors.New("no work logs found for the specified period")

// Variant selects which derived fields a report exposes.
type Variant string

const (
	VariantManager Variant = "manager"
	VariantOwner   Variant = "owner"
)

// Default owner rates, used when neither the request nor config supplies one.
var (
	DefaultHourlyRate         = numeric.MustParse("25.0")
	DefaultOvertimeMultiplier = numeric.MustParse("1.5")
)

// Employee is the identity echoed into a report.
type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Email     *string
}

// DisplayName returns "First Last".
func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Hours holds the six hour categories of one day or of a whole report.
type Hours struct {
	Work      numeric.Fixed
	Overtime  numeric.Fixed
	Vacation  numeric.Fixed
	SickLeave numeric.Fixed
	Other     numeric.Fixed
	Absent    numeric.Fixed
}

// Total sums all six categories, absent included.
func (h Hours) Total() numeric.Fixed {
	return numeric.Sum(h.Work, h.Overtime, h.Vacation, h.SickLeave, h.Other, h.Absent)
}

func (h Hours) add(o Hours) Hours {
	return Hours{
		Work:      h.Work.Add(o.Work),
		Overtime:  h.Overtime.Add(o.Overtime),
		Vacation:  h.Vacation.Add(o.Vacation),
		SickLeave: h.SickLeave.Add(o.SickLeave),
		Other:     h.Other.Add(o.Other),
		Absent:    h.Absent.Add(o.Absent),
	}
}

// Entry is one stored work log as handed over by the work log store.
type Entry struct {
	WorkDate time.Time
	Hours    Hours
	Notes    *string
}

// CostConfig carries the owner rates. Its presence turns a report into the owner variant.
type CostConfig struct {
	HourlyRate         numeric.Fixed
	OvertimeMultiplier numeric.Fixed
}

// OvertimeRate is HourlyRate × OvertimeMultiplier.
func (c CostConfig) OvertimeRate() numeric.Fixed {
	return c.HourlyRate.Mul(c.OvertimeMultiplier)
}

// cost prices one set of hours. Absent hours are never costed.
func (c CostConfig) cost(h Hours) Costs {
	rate := c.HourlyRate
	costs := Costs{
		Work:      h.Work.Mul(rate),
		Overtime:  h.Overtime.Mul(c.OvertimeRate()),
		Vacation:  h.Vacation.Mul(rate),
		SickLeave: h.SickLeave.Mul(rate),
		Other:     h.Other.Mul(rate),
	}
	costs.Total = numeric.Sum(costs.Work, costs.Overtime, costs.Vacation, costs.SickLeave, costs.Other)
	return costs
}

// Costs holds the priced categories of a row or of the whole report.
type Costs struct {
	Work      numeric.Fixed
	Overtime  numeric.Fixed
	Vacation  numeric.Fixed
	SickLeave numeric.Fixed
	Other     numeric.Fixed
	Total     numeric.Fixed
}

func (c Costs) add(o Costs) Costs {
	return Costs{
		Work:      c.Work.Add(o.Work),
		Overtime:  c.Overtime.Add(o.Overtime),
		Vacation:  c.Vacation.Add(o.Vacation),
		SickLeave: c.SickLeave.Add(o.SickLeave),
		Other:     c.Other.Add(o.Other),
		Total:     c.Total.Add(o.Total),
	}
}

// Request describes one report. Costs is nil for the manager variant.
type Request struct {
	EmployeeID int64
	Start      time.Time
	End        time.Time
	Costs      *CostConfig
}

// Variant reports which flavour the request produces.
func (r Request) Variant() Variant {
	if r.Costs != nil {
		return VariantOwner
	}
	return VariantManager
}

// Row is the derived view of one entry.
type Row struct {
	WorkDate   time.Time
	Hours      Hours
	TotalHours numeric.Fixed
	Notes      *string
	Costs      *Costs
}

// Totals are column-wise sums over all rows, kept at full precision.
type Totals struct {
	Hours      Hours
	TotalHours numeric.Fixed
	Costs      *Costs
}

// Report is the aggregated result, not yet rounded for presentation.
type Report struct {
	Variant  Variant
	Employee Employee
	Start    time.Time
	End      time.Time
	Rates    *CostConfig
	Rows     []Row
	Totals   Totals
}

// Build aggregates entries in the order given; callers supply them ascending by date.
// The employee must already be known to exist.
func Build(req Request, emp Employee, entries []Entry) (*Report, error) {
	if len(entries) == 0 {
		return nil, ErrNoData
	}

	rep := &Report{
		Variant:  req.Variant(),
		Employee: emp,
		Start:    req.Start,
		End:      req.End,
		Rows:     make([]Row, 0, len(entries)),
	}

	var totalCosts Costs
	for _, e := range entries {
		row := Row{
			WorkDate:   e.WorkDate,
			Hours:      e.Hours,
			TotalHours: e.Hours.Total(),
			Notes:      e.Notes,
		}

		rep.Totals.Hours = rep.Totals.Hours.add(e.Hours)
		rep.Totals.TotalHours = rep.Totals.TotalHours.Add(row.TotalHours)

		if req.Costs != nil {
			c := req.Costs.cost(e.Hours)
			row.Costs = &c
			totalCosts = totalCosts.add(c)
		}

		rep.Rows = append(rep.Rows, row)
	}

	if req.Costs != nil {
		rates := *req.Costs
		rep.Rates = &rates
		rep.Totals.Costs = &totalCosts
	}

	return rep, nil
}

package report

import (
	"fmt"

	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// Document is a printable rendition of a Report: a title block, one table
// and a closing summary. All numbers are already formatted.
type Document struct {
	Title        string
	HeaderLines  []string
	Columns      []string
	Rows         [][]string
	Total        []string
	SummaryTitle string
	Summary      []string
	Filename     string
}

var (
	managerColumns = []string{"Date", "Work Hours", "Overtime", "Vacation", "Sick Leave", "Other", "Absent", "Total"}
	ownerColumns   = []string{"Date", "Work", "Overtime", "Vacation", "Sick", "Other", "Absent", "Total Hrs", "Cost"}
)

// Filename is the suggested download name, e.g. owner_report_7_2024-01-01_2024-01-31.pdf.
func Filename(rep *Report) string {
	return fmt.Sprintf("%s_report_%d_%s_%s.pdf",
		rep.Variant, rep.Employee.ID, rep.Start.Format(dateLayout), rep.End.Format(dateLayout))
}

// NewDocument lays rep out as a table with a summary block.
func NewDocument(rep *Report) *Document {
	doc := &Document{
		HeaderLines: []string{
			"Employee: " + rep.Employee.DisplayName(),
			fmt.Sprintf("Period: %s to %s", rep.Start.Format(dateLayout), rep.End.Format(dateLayout)),
		},
		Rows:     make([][]string, 0, len(rep.Rows)),
		Filename: Filename(rep),
	}

	owner := rep.Rates != nil
	if owner {
		doc.Title = "Work Hours Report - Owner View (With Financial Data)"
		doc.Columns = ownerColumns
		doc.HeaderLines = append(doc.HeaderLines,
			"Hourly Rate: $"+rep.Rates.HourlyRate.Exact().String(),
			"Overtime Multiplier: "+rep.Rates.OvertimeMultiplier.Decimal.String()+"x",
		)
	} else {
		doc.Title = "Work Hours Report - Manager View"
		doc.Columns = managerColumns
	}

	for _, row := range rep.Rows {
		cells := hourCells(row.WorkDate.Format(dateLayout), row.Hours, row.TotalHours)
		if owner {
			cells = append(cells, money(row.Costs.Total))
		}
		doc.Rows = append(doc.Rows, cells)
	}

	t := rep.Totals
	doc.Total = hourCells("TOTAL", t.Hours, t.TotalHours)
	if owner {
		doc.Total = append(doc.Total, money(t.Costs.Total))
		doc.SummaryTitle = "Financial Summary:"
		doc.Summary = ownerSummary(rep)
	} else {
		doc.SummaryTitle = "Summary:"
		doc.Summary = []string{
			"Total Work Hours: " + t.Hours.Work.String(),
			"Total Overtime: " + t.Hours.Overtime.String(),
			"Total Vacation: " + t.Hours.Vacation.String(),
			"Total Sick Leave: " + t.Hours.SickLeave.String(),
			"Total Other: " + t.Hours.Other.String(),
			"Total Absent: " + t.Hours.Absent.String(),
			"Grand Total: " + t.TotalHours.String() + " hours",
		}
	}

	return doc
}

func ownerSummary(rep *Report) []string {
	t := rep.Totals
	rate := rep.Rates.HourlyRate
	line := func(label string, hours, rate, subtotal numeric.Fixed) string {
		return fmt.Sprintf("%s: %s @ $%s/hr = %s", label, hours, rate.Exact(), money(subtotal))
	}
	return []string{
		line("Total Work Hours", t.Hours.Work, rate, t.Costs.Work),
		line("Total Overtime", t.Hours.Overtime, rep.Rates.OvertimeRate(), t.Costs.Overtime),
		line("Total Vacation", t.Hours.Vacation, rate, t.Costs.Vacation),
		line("Total Sick Leave", t.Hours.SickLeave, rate, t.Costs.SickLeave),
		line("Total Other", t.Hours.Other, rate, t.Costs.Other),
		"GRAND TOTAL COST: " + money(t.Costs.Total),
	}
}

func hourCells(first string, h Hours, total numeric.Fixed) []string {
	return []string{
		first,
		h.Work.String(),
		h.Overtime.String(),
		h.Vacation.String(),
		h.SickLeave.String(),
		h.Other.String(),
		h.Absent.String(),
		total.String(),
	}
}

func money(v numeric.Fixed) string {
	return "$" + v.String()
}

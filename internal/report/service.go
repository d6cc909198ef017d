package report

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

// Format is the requested output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a query value to a Format; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", errors.Validation(map[string]string{"format": "format must be one of: json pdf"})
}

// EmployeeDirectory resolves the employee a report is about.
type EmployeeDirectory interface {
	ReportEmployee(ctx context.Context, employeeID int64) (Employee, error)
}

// WorkLogSource lists entries in [start, end] ordered ascending by date.
type WorkLogSource interface {
	ReportEntries(ctx context.Context, employeeID int64, start, end time.Time) ([]Entry, error)
}

// AccessChecker decides whether an actor may see an employee's records.
type AccessChecker interface {
	CanView(ctx context.Context, a *actor.Actor, employeeID int64) (bool, error)
}

// Result is a generated report. JSON is set for FormatJSON, Document otherwise.
type Result struct {
	JSON        *JSONReport
	Document    []byte
	ContentType string
	Filename    string
}

// Service generates manager and owner reports.
type Service struct {
	employees EmployeeDirectory
	logs      WorkLogSource
	access    AccessChecker
	renderer  Renderer
	events    *events.Publisher
	logger    *logger.Logger
}

// NewService creates a report service
func NewService(
	employees EmployeeDirectory,
	logs WorkLogSource,
	access AccessChecker,
	renderer Renderer,
	publisher *events.Publisher,
	log *logger.Logger,
) *Service {
	if renderer == nil {
		renderer = NewPDFRenderer()
	}
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		employees: employees,
		logs:      logs,
		access:    access,
		renderer:  renderer,
		events:    publisher,
		logger:    log,
	}
}

// ManagerReport builds the hours-only report. Admins, the employee's
// assigned managers and the employee themself may request it.
func (s *Service) ManagerReport(ctx context.Context, employeeID int64, start, end time.Time, format Format) (*Result, error) {
	a := actor.FromContext(ctx)
	if !a.IsSystem() && !a.IsAdmin() {
		ok, err := s.access.CanView(ctx, a, employeeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Forbidden("")
		}
	}

	return s.generate(ctx, Request{EmployeeID: employeeID, Start: start, End: end}, format)
}

// OwnerReport builds the report with labour costs. Admin only.
func (s *Service) OwnerReport(ctx context.Context, employeeID int64, start, end time.Time, format Format, rates CostConfig) (*Result, error) {
	a := actor.FromContext(ctx)
	if !a.IsSystem() && !a.IsAdmin() {
		return nil, errors.Forbidden("")
	}
	if rates.HourlyRate.IsNegative() || rates.OvertimeMultiplier.IsNegative() {
		return nil, errors.Validation(map[string]string{"hourly_rate": "rates must not be negative"})
	}

	return s.generate(ctx, Request{EmployeeID: employeeID, Start: start, End: end, Costs: &rates}, format)
}

func (s *Service) generate(ctx context.Context, req Request, format Format) (*Result, error) {
	emp, err := s.employees.ReportEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	entries, err := s.logs.ReportEntries(ctx, req.EmployeeID, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load work logs: %w", err)
	}

	rep, err := Build(req, emp, entries)
	if errors.Is(err, ErrNoData) {
		return nil, errors.NotFound("work_log").WithKey("errors.no_report_data")
	}
	if err != nil {
		return nil, err
	}

	result := &Result{}
	switch format {
	case FormatPDF:
		doc := NewDocument(rep)
		body, err := s.renderer.Render(doc)
		if err != nil {
			return nil, errors.Wrap(err, "INTERNAL_ERROR", "failed to render report", http.StatusInternalServerError)
		}
		result.Document = body
		result.ContentType = s.renderer.ContentType()
		result.Filename = doc.Filename
	default:
		result.JSON = NewJSONReport(rep)
		result.ContentType = "application/json"
	}

	s.logger.Info().
		Str("variant", string(rep.Variant)).
		Str("format", string(format)).
		Int64("employee_id", req.EmployeeID).
		Int("rows", len(rep.Rows)).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("report generated")

	s.events.Emit(ctx, messaging.EventReportGenerated, messaging.ReportGeneratedEvent{
		EmployeeID: req.EmployeeID,
		Variant:    string(rep.Variant),
		Format:     string(format),
		StartDate:  req.Start.Format(dateLayout),
		EndDate:    req.End.Format(dateLayout),
		ActorID:    events.ActorID(ctx),
	})

	return result, nil
}

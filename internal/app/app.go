// Package app wires repositories and services together. The API server
// and the operator CLI share it so both act on the same business rules.
package app

import (
	"context"

	"github.com/hourbook/hourbook-backend/internal/assignment/repository"
	assignmentsvc "github.com/hourbook/hourbook-backend/internal/assignment/service"
	"github.com/hourbook/hourbook-backend/internal/auth/jwt"
	authsvc "github.com/hourbook/hourbook-backend/internal/auth/service"
	employeerepo "github.com/hourbook/hourbook-backend/internal/employee/repository"
	employeesvc "github.com/hourbook/hourbook-backend/internal/employee/service"
	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/internal/report"
	userrepo "github.com/hourbook/hourbook-backend/internal/user/repository"
	usersvc "github.com/hourbook/hourbook-backend/internal/user/service"
	worklogrepo "github.com/hourbook/hourbook-backend/internal/worklog/repository"
	worklogsvc "github.com/hourbook/hourbook-backend/internal/worklog/service"
	"github.com/hourbook/hourbook-backend/pkg/config"
	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// App holds the wired services
type App struct {
	Config *config.Config
	DB     *database.DB
	Logger *logger.Logger
	Events *events.Publisher
	Tokens *jwt.Manager

	Users       *usersvc.UserService
	Auth        *authsvc.AuthService
	Employees   *employeesvc.EmployeeService
	WorkLogs    *worklogsvc.WorkLogService
	Assignments *assignmentsvc.AssignmentService
	Reports     *report.Service
}

// New builds every service on top of db. A nil publisher drops events.
func New(cfg *config.Config, db *database.DB, publisher messaging.EventPublisher, log *logger.Logger) *App {
	pub := events.NewPublisher(publisher, log)

	employeeRepo := employeerepo.NewEmployeeRepository(db)
	workLogRepo := worklogrepo.NewWorkLogRepository(db)
	userRepo := userrepo.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	visibility := assignmentsvc.NewVisibility(assignmentRepo)
	tokens := jwt.NewManager(&cfg.JWT)
	users := usersvc.NewUserService(userRepo, employeeRepo, pub, log)

	return &App{
		Config: cfg,
		DB:     db,
		Logger: log,
		Events: pub,
		Tokens: tokens,

		Users:       users,
		Auth:        authsvc.NewAuthService(users, tokens, log),
		Employees:   employeesvc.NewEmployeeService(employeeRepo, visibility, pub, log),
		WorkLogs:    worklogsvc.NewWorkLogService(workLogRepo, employeeRepo, visibility, pub, log),
		Assignments: assignmentsvc.NewAssignmentService(assignmentRepo, userRepo, employeeRepo, pub, log),
		Reports:     report.NewService(employeeRepo, workLogRepo, visibility, report.NewPDFRenderer(), pub, log),
	}
}

// ReportDefaults returns the owner report rates used when a request omits them
func (a *App) ReportDefaults() report.CostConfig {
	return report.CostConfig{
		HourlyRate:         numeric.FromFloat(a.Config.Report.HourlyRate),
		OvertimeMultiplier: numeric.FromFloat(a.Config.Report.OvertimeMultiplier),
	}
}

// EnsureDefaultAdmin creates the configured bootstrap administrator if missing
func (a *App) EnsureDefaultAdmin(ctx context.Context) error {
	created, err := a.Users.EnsureDefaultAdmin(ctx, a.Config.Admin.Username, a.Config.Admin.Password)
	if err != nil {
		return err
	}
	if created {
		a.Logger.Info().Str("username", a.Config.Admin.Username).Msg("default admin user created")
	} else {
		a.Logger.Debug().Str("username", a.Config.Admin.Username).Msg("admin user already exists")
	}
	return nil
}

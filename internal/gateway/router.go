// Package gateway assembles the public HTTP surface: the middleware
// stack, the auth guards and every domain route.
package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hourbook/hourbook-backend/internal/app"
	assignmenthandler "github.com/hourbook/hourbook-backend/internal/assignment/handler"
	authhandler "github.com/hourbook/hourbook-backend/internal/auth/handler"
	authmw "github.com/hourbook/hourbook-backend/internal/auth/middleware"
	employeehandler "github.com/hourbook/hourbook-backend/internal/employee/handler"
	reporthandler "github.com/hourbook/hourbook-backend/internal/report/handler"
	userhandler "github.com/hourbook/hourbook-backend/internal/user/handler"
	worklog "github.com/hourbook/hourbook-backend/internal/worklog/handler"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/permissions"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Probe reports the state of one backing service
type Probe func(ctx context.Context) map[string]string

// Disabled is the probe used for optional services that are switched off
func Disabled(context.Context) map[string]string {
	return map[string]string{"status": "disabled"}
}

// Probes are the dependencies reported by /health
type Probes struct {
	Database Probe
	RabbitMQ Probe
}

// NewRouter builds the API router on top of a
func NewRouter(a *app.App, probes Probes) http.Handler {
	cfg := a.Config
	log := a.Logger

	if probes.Database == nil {
		probes.Database = a.DB.Health
	}
	if probes.RabbitMQ == nil {
		probes.RabbitMQ = Disabled
	}

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(httputil.SecurityHeaders)
	if cfg.Security.ForceHTTPS {
		r.Use(httputil.HTTPSRedirect)
	}
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Accept-Language"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(i18n.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{
			"message": "Work Hours Management System API",
			"version": Version,
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		db := probes.Database(r.Context())
		status, code := "healthy", http.StatusOK
		if db["status"] != "up" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		httputil.JSON(w, code, map[string]interface{}{
			"status":   status,
			"database": db,
			"rabbitmq": probes.RabbitMQ(r.Context()),
		})
	})

	authH := authhandler.NewAuthHandler(
		a.Auth,
		httputil.NewIPRateLimiter(cfg.Security.LoginAttempts, cfg.Security.LoginWindow),
		log,
	)
	userH := userhandler.NewUserHandler(a.Users, log)
	employeeH := employeehandler.NewEmployeeHandler(a.Employees, log)
	workLogH := worklog.NewWorkLogHandler(a.WorkLogs, log)
	assignmentH := assignmenthandler.NewAssignmentHandler(a.Assignments, log)
	reportH := reporthandler.NewReportHandler(a.Reports, a.ReportDefaults(), log)

	r.Route("/api", func(r chi.Router) {
		if cfg.Security.RequestsPerMinute > 0 {
			r.Use(httputil.RateLimit(httputil.NewIPRateLimiter(cfg.Security.RequestsPerMinute, time.Minute)))
		}

		r.Route("/auth", authH.Routes)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authmw.Authenticate(a.Auth))

			r.Route("/users", userH.Routes)

			r.With(authmw.RequirePermission(permissions.EmployeesRead)).
				Route("/employees", employeeH.Routes)

			r.With(authmw.RequirePermission(permissions.WorkLogsRead)).
				Route("/work-logs", workLogH.Routes)

			r.With(authmw.RequirePermission(permissions.AssignmentsRead)).
				Route("/assignments", assignmentH.Routes)

			r.Route("/reports", reportH.Routes)
		})
	})

	return r
}

package testutil

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite starts (or reuses) the shared container and applies the schema.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    flag.Parse()
//	    if !testing.Short() {
//	        suite, _ = testutil.NewIntegrationSuite(context.Background())
//	    }
//	    code := m.Run()
//	    testutil.TerminateContainer(context.Background())
//	    os.Exit(code)
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.Nop()
	wrappedDB := database.Wrap(db, log)
	if err := wrappedDB.Migrate(ctx); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// Require skips the test when the suite could not be started
// (short mode or no Docker daemon) and truncates all tables otherwise.
func Require(t *testing.T, s *IntegrationSuite) *IntegrationSuite {
	t.Helper()
	if s == nil {
		t.Skip("integration database unavailable")
	}
	s.Truncate(t)
	return s
}

// Truncate empties every table and resets identity sequences
func (s *IntegrationSuite) Truncate(t *testing.T) {
	t.Helper()
	_, err := s.RawDB.Exec(`TRUNCATE manager_employee_assignments, work_logs, users, employees RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SetupIntegration is the TestMain body shared by integration packages.
// A failed container start is reported and the suite is left nil.
func SetupIntegration(m *testing.M) (*IntegrationSuite, func() int) {
	if !flag.Parsed() {
		flag.Parse()
	}
	var suite *IntegrationSuite
	if !testing.Short() {
		s, err := NewIntegrationSuite(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "integration suite disabled: %v\n", err)
		} else {
			suite = s
		}
	}
	return suite, func() int {
		code := m.Run()
		TerminateContainer(context.Background())
		return code
	}
}

// TerminateContainer terminates the shared container.
// Only call this in TestMain after all tests have completed.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		_ = globalContainer.Terminate(ctx)
	}
}

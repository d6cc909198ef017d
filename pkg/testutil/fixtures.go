package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every UserFixture unless overridden.
const DefaultPassword = "Password123"

// EmployeeFixture represents test employee data
type EmployeeFixture struct {
	ID        int64
	FirstName string
	LastName  string
	Email     *string
}

// UserFixture represents test user data
type UserFixture struct {
	ID           int64
	Username     string
	Password     string
	PasswordHash string
	Role         string
	EmployeeID   *int64
}

// WorkLogFixture represents one day of logged hours.
// Hours are decimal strings so they reach NUMERIC columns unrounded.
type WorkLogFixture struct {
	ID             int64
	EmployeeID     int64
	WorkDate       time.Time
	WorkHours      string
	OvertimeHours  string
	VacationHours  string
	SickLeaveHours string
	OtherHours     string
	AbsentHours    string
	Notes          *string
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Employee creates an employee fixture with defaults
func (f *FixtureFactory) Employee(opts ...func(*EmployeeFixture)) EmployeeFixture {
	seq := f.nextSeq()
	email := fmt.Sprintf("employee%d@test.hourbook.dev", seq)

	emp := EmployeeFixture{
		FirstName: fmt.Sprintf("Employee%d", seq),
		LastName:  "Test",
		Email:     &email,
	}

	for _, opt := range opts {
		opt(&emp)
	}

	return emp
}

// WithEmployeeName sets the employee's first and last name
func WithEmployeeName(first, last string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.FirstName = first
		e.LastName = last
	}
}

// WithoutEmail clears the employee email
func WithoutEmail() func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.Email = nil
	}
}

// User creates a user fixture with defaults
func (f *FixtureFactory) User(opts ...func(*UserFixture)) UserFixture {
	seq := f.nextSeq()

	user := UserFixture{
		Username: fmt.Sprintf("user%d", seq),
		Password: DefaultPassword,
		Role:     "employee",
	}

	for _, opt := range opts {
		opt(&user)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	user.PasswordHash = string(hash)

	return user
}

// WithUsername sets the username
func WithUsername(username string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Username = username
	}
}

// WithPassword sets the plain-text password; it is hashed when the fixture is built
func WithPassword(password string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Password = password
	}
}

// WithRole sets the user role
func WithRole(role string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Role = role
	}
}

// WithEmployee links the user to an employee record
func WithEmployee(employeeID int64) func(*UserFixture) {
	return func(u *UserFixture) {
		u.EmployeeID = &employeeID
	}
}

// WorkLog creates a work log fixture with eight regular hours
func (f *FixtureFactory) WorkLog(employeeID int64, day time.Time, opts ...func(*WorkLogFixture)) WorkLogFixture {
	wl := WorkLogFixture{
		EmployeeID:     employeeID,
		WorkDate:       day,
		WorkHours:      "8",
		OvertimeHours:  "0",
		VacationHours:  "0",
		SickLeaveHours: "0",
		OtherHours:     "0",
		AbsentHours:    "0",
	}

	for _, opt := range opts {
		opt(&wl)
	}

	return wl
}

// WithHours sets the six hour categories in column order:
// work, overtime, vacation, sick leave, other, absent
func WithHours(work, overtime, vacation, sick, other, absent string) func(*WorkLogFixture) {
	return func(w *WorkLogFixture) {
		w.WorkHours = work
		w.OvertimeHours = overtime
		w.VacationHours = vacation
		w.SickLeaveHours = sick
		w.OtherHours = other
		w.AbsentHours = absent
	}
}

// InsertEmployee stores the fixture and sets its ID
func InsertEmployee(ctx context.Context, db *sqlx.DB, e *EmployeeFixture) error {
	return db.QueryRowxContext(ctx,
		`INSERT INTO employees (first_name, last_name, email) VALUES ($1, $2, $3) RETURNING id`,
		e.FirstName, e.LastName, e.Email,
	).Scan(&e.ID)
}

// InsertUser stores the fixture and sets its ID
func InsertUser(ctx context.Context, db *sqlx.DB, u *UserFixture) error {
	return db.QueryRowxContext(ctx,
		`INSERT INTO users (username, password_hash, role, employee_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.PasswordHash, u.Role, u.EmployeeID,
	).Scan(&u.ID)
}

// InsertWorkLog stores the fixture and sets its ID
func InsertWorkLog(ctx context.Context, db *sqlx.DB, w *WorkLogFixture) error {
	return db.QueryRowxContext(ctx,
		`INSERT INTO work_logs (employee_id, work_date, work_hours, overtime_hours, vacation_hours,
			sick_leave_hours, other_hours, absent_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		w.EmployeeID, w.WorkDate.Format("2006-01-02"), w.WorkHours, w.OvertimeHours, w.VacationHours,
		w.SickLeaveHours, w.OtherHours, w.AbsentHours, w.Notes,
	).Scan(&w.ID)
}

// InsertAssignment links a manager user to an employee and returns the assignment ID
func InsertAssignment(ctx context.Context, db *sqlx.DB, managerUserID, employeeID int64) (int64, error) {
	var id int64
	err := db.QueryRowxContext(ctx,
		`INSERT INTO manager_employee_assignments (manager_user_id, employee_id) VALUES ($1, $2) RETURNING id`,
		managerUserID, employeeID,
	).Scan(&id)
	return id, err
}

// Day parses a YYYY-MM-DD date or panics
func Day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

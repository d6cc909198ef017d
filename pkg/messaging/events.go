package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as routing keys on ExchangeEvents
const (
	EventWorkLogCreated = "worklog.created"
	EventWorkLogUpdated = "worklog.updated"
	EventWorkLogDeleted = "worklog.deleted"

	EventEmployeeCreated = "employee.created"
	EventEmployeeUpdated = "employee.updated"
	EventEmployeeDeleted = "employee.deleted"

	EventAssignmentCreated = "assignment.created"
	EventAssignmentDeleted = "assignment.deleted"

	EventUserCreated         = "user.created"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventUserPasswordChanged = "user.password.changed"

	EventReportGenerated = "report.generated"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// WorkLogEvent is published for work log changes
type WorkLogEvent struct {
	WorkLogID  int64  `json:"work_log_id"`
	EmployeeID int64  `json:"employee_id"`
	WorkDate   string `json:"work_date"`
	TotalHours string `json:"total_hours,omitempty"`
	Warning    string `json:"warning,omitempty"`
	ActorID    int64  `json:"actor_id"`
}

// EmployeeEvent is published for employee changes
type EmployeeEvent struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name,omitempty"`
	ActorID    int64  `json:"actor_id"`
}

// AssignmentEvent is published when a manager gains or loses an employee
type AssignmentEvent struct {
	AssignmentID  int64 `json:"assignment_id"`
	ManagerUserID int64 `json:"manager_user_id"`
	EmployeeID    int64 `json:"employee_id"`
	ActorID       int64 `json:"actor_id"`
}

// UserEvent is published for user account changes
type UserEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	OldRole  string `json:"old_role,omitempty"`
	ActorID  int64  `json:"actor_id"`
}

// ReportGeneratedEvent records who pulled which report
type ReportGeneratedEvent struct {
	EmployeeID int64  `json:"employee_id"`
	Variant    string `json:"variant"`
	Format     string `json:"format"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	ActorID    int64  `json:"actor_id"`
}

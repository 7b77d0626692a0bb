package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks the appointment lifecycle. scheduled is the initial
// state; cancelled and completed are terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// DefaultType is the appointment type used when a draft omits one.
const DefaultType = "visita"

// Appointment is a booked property viewing shared between the sales agent
// and the financing advisor. An empty event id means no external calendar
// entry exists for that party.
type Appointment struct {
	ID              uuid.UUID  `json:"id"`
	LeadPhone       string     `json:"lead_phone"`
	LeadName        string     `json:"lead_name,omitempty"`
	PropertyID      string     `json:"property_id"`
	PropertyName    string     `json:"property_name"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            string     `json:"appointment_type"`
	AgentID         string     `json:"agent_id,omitempty"`
	AgentName       string     `json:"agent_name,omitempty"`
	AdvisorID       string     `json:"advisor_id,omitempty"`
	AdvisorName     string     `json:"advisor_name,omitempty"`
	AgentEventID    string     `json:"agent_event_id,omitempty"`
	AdvisorEventID  string     `json:"advisor_event_id,omitempty"`
	Status          Status     `json:"status"`
	CancelledBy     string     `json:"cancelled_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// End returns the exclusive end of the appointment slot.
func (a *Appointment) End() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Draft carries the fields needed to book an appointment.
type Draft struct {
	LeadPhone       string    `json:"lead_phone"`
	LeadName        string    `json:"lead_name"`
	PropertyID      string    `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"appointment_type"`
	AgentID         string    `json:"agent_id"`
	AgentName       string    `json:"agent_name"`
	AdvisorID       string    `json:"advisor_id"`
	AdvisorName     string    `json:"advisor_name"`
}

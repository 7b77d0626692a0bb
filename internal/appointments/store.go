package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const appointmentColumns = `id, lead_phone, lead_name, property_id, property_name, scheduled_at,
		duration_minutes, appointment_type, agent_id, agent_name, advisor_id, advisor_name,
		agent_event_id, advisor_event_id, status, cancelled_by, created_at, updated_at`

// Store provides persistence for appointments.
type Store struct {
	db DB
}

// NewStore creates an appointment store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Create inserts a new appointment row.
func (s *Store) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, lead_phone, lead_name, property_id, property_name, scheduled_at,
			duration_minutes, appointment_type, agent_id, agent_name, advisor_id, advisor_name,
			agent_event_id, advisor_event_id, status, cancelled_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		a.ID, a.LeadPhone, a.LeadName, a.PropertyID, a.PropertyName, a.ScheduledAt.UTC(),
		a.DurationMinutes, a.Type, a.AgentID, a.AgentName, a.AdvisorID, a.AdvisorName,
		a.AgentEventID, a.AdvisorEventID, string(a.Status), a.CancelledBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: create: %w", err)
	}
	return nil
}

// GetByID returns a single appointment.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = $1`, id)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: get by id: %w", err)
	}
	return a, nil
}

// ListByStatus returns appointments filtered by status; an empty status
// returns everything.
func (s *Store) ListByStatus(ctx context.Context, status Status, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows pgx.Rows
	var err error
	if status != "" {
		rows, err = s.db.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments WHERE status = $1
			ORDER BY scheduled_at ASC LIMIT $2`, string(status), limit)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT `+appointmentColumns+`
			FROM appointments
			ORDER BY scheduled_at ASC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: list by status: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// FindAgentOverlaps returns scheduled appointments for the agent whose
// [scheduled_at, scheduled_at+duration) slot overlaps [start, end),
// excluding the given id.
func (s *Store) FindAgentOverlaps(ctx context.Context, agentID string, start, end time.Time, excludeID uuid.UUID) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE agent_id = $1 AND status = 'scheduled' AND id <> $2
		AND scheduled_at < $3
		AND scheduled_at + make_interval(mins => duration_minutes) > $4`,
		agentID, excludeID, end.UTC(), start.UTC())
	if err != nil {
		return nil, fmt.Errorf("appointments: find agent overlaps: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// SetAgentEventID writes back the external calendar event id for the agent.
func (s *Store) SetAgentEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return s.setEventID(ctx, id, "agent_event_id", eventID)
}

// SetAdvisorEventID writes back the external calendar event id for the advisor.
func (s *Store) SetAdvisorEventID(ctx context.Context, id uuid.UUID, eventID string) error {
	return s.setEventID(ctx, id, "advisor_event_id", eventID)
}

func (s *Store) setEventID(ctx context.Context, id uuid.UUID, column, eventID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE appointments SET `+column+` = $1, updated_at = $2 WHERE id = $3`,
		eventID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("appointments: set %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCancelled transitions scheduled → cancelled. Returns the number of
// rows changed; zero means the appointment was not in scheduled state.
func (s *Store) MarkCancelled(ctx context.Context, id uuid.UUID, cancelledBy string) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = 'cancelled', cancelled_by = $1, updated_at = $2
		WHERE id = $3 AND status = 'scheduled'`,
		cancelledBy, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("appointments: mark cancelled: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkCompleted transitions scheduled → completed. Returns the number of
// rows changed; zero means the appointment was not in scheduled state.
func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET status = 'completed', updated_at = $1
		WHERE id = $2 AND status = 'scheduled'`,
		time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("appointments: mark completed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(
		&a.ID, &a.LeadPhone, &a.LeadName, &a.PropertyID, &a.PropertyName, &a.ScheduledAt,
		&a.DurationMinutes, &a.Type, &a.AgentID, &a.AgentName, &a.AdvisorID, &a.AdvisorName,
		&a.AgentEventID, &a.AdvisorEventID, &status, &a.CancelledBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = Status(status)
	return &a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

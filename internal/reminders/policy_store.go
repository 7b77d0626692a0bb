package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
)

// ErrPolicyNotFound is returned when no policy row exists for a category.
var ErrPolicyNotFound = errors.New("reminder policy not found")

// ErrInvalidWindow is returned when a send-window hour is outside [0,24).
var ErrInvalidWindow = errors.New("send window hours must be in [0,24)")

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PolicyStore provides CRUD over reminder policies.
type PolicyStore struct {
	db DB
}

// NewPolicyStore creates a policy store.
func NewPolicyStore(db DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// GetAll returns every policy keyed by category.
func (s *PolicyStore) GetAll(ctx context.Context) (map[leads.Category]Policy, error) {
	rows, err := s.db.Query(ctx, `
		SELECT lead_category, reminder_hours, active, message_template, send_start_hour, send_end_hour, updated_at
		FROM reminder_policies`)
	if err != nil {
		return nil, fmt.Errorf("reminders: get all policies: %w", err)
	}
	defer rows.Close()

	policies := make(map[leads.Category]Policy)
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("reminders: scan policy: %w", err)
		}
		policies[p.Category] = p
	}
	return policies, rows.Err()
}

// GetByCategory returns a single policy.
func (s *PolicyStore) GetByCategory(ctx context.Context, category leads.Category) (*Policy, error) {
	row := s.db.QueryRow(ctx, `
		SELECT lead_category, reminder_hours, active, message_template, send_start_hour, send_end_hour, updated_at
		FROM reminder_policies WHERE lead_category = $1`, string(category))
	p, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("reminders: get policy: %w", err)
	}
	return &p, nil
}

// Update edits a policy's cadence, template and send window.
func (s *PolicyStore) Update(ctx context.Context, p *Policy) error {
	if !validHour(p.SendStartHour) || !validHour(p.SendEndHour) {
		return ErrInvalidWindow
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE reminder_policies
		SET reminder_hours = $1, active = $2, message_template = $3, send_start_hour = $4, send_end_hour = $5, updated_at = $6
		WHERE lead_category = $7`,
		p.IntervalHours, p.Active, p.MessageTemplate, p.SendStartHour, p.SendEndHour,
		time.Now().UTC(), string(p.Category),
	)
	if err != nil {
		return fmt.Errorf("reminders: update policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPolicyNotFound
	}
	return nil
}

func validHour(h int) bool {
	return h >= 0 && h < 24
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row scanner) (Policy, error) {
	var p Policy
	var category string
	err := row.Scan(&category, &p.IntervalHours, &p.Active, &p.MessageTemplate,
		&p.SendStartHour, &p.SendEndHour, &p.UpdatedAt)
	if err != nil {
		return Policy{}, err
	}
	p.Category = leads.Category(category)
	return p, nil
}

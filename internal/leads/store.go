package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for leads.
type Store struct {
	db DB
}

// NewStore creates a lead store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Upsert inserts a lead or updates its mutable fields when the phone
// already exists.
func (s *Store) Upsert(ctx context.Context, l *Lead) error {
	if !l.Category.Valid() {
		return ErrInvalidCategory
	}
	now := time.Now().UTC()
	if l.LastContactAt.IsZero() {
		l.LastContactAt = now
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO leads (phone, name, category, score, last_contact_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name, category = EXCLUDED.category, score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`,
		l.Phone, l.Name, string(l.Category), l.Score, l.LastContactAt, now,
	)
	if err != nil {
		return fmt.Errorf("leads: upsert: %w", err)
	}
	return nil
}

// GetByPhone returns a single lead.
func (s *Store) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	row := s.db.QueryRow(ctx, `
		SELECT phone, name, category, score, last_contact_at, created_at, updated_at
		FROM leads WHERE phone = $1`, phone)
	l, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leads: get by phone: %w", err)
	}
	return l, nil
}

// List returns all leads ordered by most recent contact.
func (s *Store) List(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(ctx, `
		SELECT phone, name, category, score, last_contact_at, created_at, updated_at
		FROM leads ORDER BY last_contact_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leads: list: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// ListNurtureCandidates returns leads with no scheduled appointment. A lead
// mid-booking is excluded because the appointment supersedes nurture
// reminders. Category is read here, at sweep time; a re-categorization
// that lands mid-sweep takes effect on the next tick.
func (s *Store) ListNurtureCandidates(ctx context.Context) ([]Lead, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.phone, l.name, l.category, l.score, l.last_contact_at, l.created_at, l.updated_at
		FROM leads l
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments a
			WHERE a.lead_phone = l.phone AND a.status = 'scheduled'
		)
		ORDER BY l.last_contact_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("leads: list nurture candidates: %w", err)
	}
	defer rows.Close()
	return scanLeads(rows)
}

// TouchLastContact records a successful outbound send.
func (s *Store) TouchLastContact(ctx context.Context, phone string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE leads SET last_contact_at = $1, updated_at = $1 WHERE phone = $2`,
		at.UTC(), phone)
	if err != nil {
		return fmt.Errorf("leads: touch last contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCategory re-categorizes a lead.
func (s *Store) SetCategory(ctx context.Context, phone string, category Category) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE leads SET category = $1, updated_at = $2 WHERE phone = $3`,
		string(category), time.Now().UTC(), phone)
	if err != nil {
		return fmt.Errorf("leads: set category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var l Lead
	var category string
	if err := row.Scan(&l.Phone, &l.Name, &category, &l.Score,
		&l.LastContactAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Category = Category(category)
	return &l, nil
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	var result []Lead
	for rows.Next() {
		var l Lead
		var category string
		if err := rows.Scan(&l.Phone, &l.Name, &category, &l.Score,
			&l.LastContactAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("leads: scan: %w", err)
		}
		l.Category = Category(category)
		result = append(result, l)
	}
	return result, rows.Err()
}

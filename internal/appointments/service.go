package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/edsonnoyola12/sara-crm/internal/calendar"
	"github.com/edsonnoyola12/sara-crm/internal/location"
	"github.com/edsonnoyola12/sara-crm/internal/observability/metrics"
	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

var appointmentTracer = otel.Tracer("sara.internal.appointments")

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindAgentOverlaps(ctx context.Context, agentID string, start, end time.Time, excludeID uuid.UUID) ([]Appointment, error)
	SetAgentEventID(ctx context.Context, id uuid.UUID, eventID string) error
	SetAdvisorEventID(ctx context.Context, id uuid.UUID, eventID string) error
	MarkCancelled(ctx context.Context, id uuid.UUID, cancelledBy string) (int64, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) (int64, error)
}

// Notifier abstracts the outbound message capability.
type Notifier interface {
	Send(ctx context.Context, toPhone, body string) error
}

// Leaser hands out per-lead dispatch leases.
type Leaser interface {
	TryAcquire(phone string) bool
	Release(phone string)
}

// Service owns the appointment state machine: creation with conflict
// checking, idempotent cancellation with best-effort calendar cleanup,
// and completion. The local record store is authoritative; external
// calendar failures are downgraded to warnings after the local commit.
type Service struct {
	repo     Repository
	cal      calendar.Service
	notifier Notifier
	leases   Leaser
	agent    calendar.Party
	advisor  calendar.Party
	logger   *logging.Logger
	metrics  *metrics.AppointmentMetrics
	now      func() time.Time
}

// NewService wires an appointment service. cal and notifier may be nil
// when the respective collaborator is not configured.
func NewService(repo Repository, cal calendar.Service, notifier Notifier, leases Leaser, agent, advisor calendar.Party, logger *logging.Logger, m *metrics.AppointmentMetrics) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if leases == nil {
		panic("appointments: leaser required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		cal:      cal,
		notifier: notifier,
		leases:   leases,
		agent:    agent,
		advisor:  advisor,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Create validates and persists a booking, then requests calendar events
// for each assigned party. The appointment exists even when event
// creation fails for a party: a scheduled meeting is useful to a human
// even if one calendar entry is missing. Returned warnings describe any
// partial sync failures.
func (s *Service) Create(ctx context.Context, draft Draft) (*Appointment, []string, error) {
	ctx, span := appointmentTracer.Start(ctx, "appointments.create")
	defer span.End()

	if draft.LeadPhone == "" {
		return nil, nil, fmt.Errorf("appointments: create: lead phone required")
	}
	now := s.now().UTC()
	if !draft.ScheduledAt.After(now) {
		return nil, nil, ErrPastSchedule
	}
	if draft.DurationMinutes <= 0 {
		draft.DurationMinutes = 60
	}
	if draft.Type == "" {
		draft.Type = DefaultType
	}

	a := &Appointment{
		LeadPhone:       draft.LeadPhone,
		LeadName:        draft.LeadName,
		PropertyID:      draft.PropertyID,
		PropertyName:    draft.PropertyName,
		ScheduledAt:     draft.ScheduledAt.UTC(),
		DurationMinutes: draft.DurationMinutes,
		Type:            draft.Type,
		AgentID:         draft.AgentID,
		AgentName:       draft.AgentName,
		AdvisorID:       draft.AdvisorID,
		AdvisorName:     draft.AdvisorName,
		Status:          StatusScheduled,
	}

	if a.AgentID != "" {
		overlaps, err := s.repo.FindAgentOverlaps(ctx, a.AgentID, a.ScheduledAt, a.End(), a.ID)
		if err != nil {
			return nil, nil, err
		}
		if len(overlaps) > 0 {
			return nil, nil, ErrScheduleConflict
		}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, nil, err
	}
	s.metrics.ObserveCreated()
	span.SetAttributes(attribute.String("sara.appointment_id", a.ID.String()))
	s.logger.Info("appointment created",
		"id", a.ID, "lead", a.LeadPhone, "property", a.PropertyName, "at", a.ScheduledAt)

	var warnings []string
	warnings = append(warnings, s.createCalendarEvents(ctx, a)...)

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, a.LeadPhone, confirmationMessage(a)); err != nil {
			s.logger.Warn("booking confirmation send failed", "id", a.ID, "error", err)
			warnings = append(warnings, "confirmation message failed: "+err.Error())
		}
	}
	return a, warnings, nil
}

func (s *Service) createCalendarEvents(ctx context.Context, a *Appointment) []string {
	if s.cal == nil {
		return nil
	}
	event := calendar.Event{
		Summary:     fmt.Sprintf("%s: %s - %s", a.Type, a.PropertyName, leadLabel(a)),
		Description: fmt.Sprintf("Lead: %s\nTeléfono: %s", leadLabel(a), a.LeadPhone),
		Start:       a.ScheduledAt,
		End:         a.End(),
	}
	if link, ok := location.Resolve(a.PropertyName); ok {
		event.Location = link
	}

	var warnings []string
	if a.AgentID != "" && s.agent.CalendarID != "" {
		if eventID, err := s.cal.CreateEvent(ctx, s.agent, event); err != nil {
			s.metrics.ObserveSyncWarning("create_event")
			s.logger.Warn("agent calendar event creation failed", "id", a.ID, "error", err)
			warnings = append(warnings, "agent calendar sync failed: "+err.Error())
		} else {
			a.AgentEventID = eventID
			if err := s.repo.SetAgentEventID(ctx, a.ID, eventID); err != nil {
				s.logger.Error("write back agent event id failed", "id", a.ID, "error", err)
			}
		}
	}
	if a.AdvisorID != "" && s.advisor.CalendarID != "" {
		if eventID, err := s.cal.CreateEvent(ctx, s.advisor, event); err != nil {
			s.metrics.ObserveSyncWarning("create_event")
			s.logger.Warn("advisor calendar event creation failed", "id", a.ID, "error", err)
			warnings = append(warnings, "advisor calendar sync failed: "+err.Error())
		} else {
			a.AdvisorEventID = eventID
			if err := s.repo.SetAdvisorEventID(ctx, a.ID, eventID); err != nil {
				s.logger.Error("write back advisor event id failed", "id", a.ID, "error", err)
			}
		}
	}
	return warnings
}

// Cancel marks the appointment cancelled and then deletes the calendar
// event of every party that has one. Cancelling an already-cancelled
// appointment is a no-op success so concurrent cancel requests cannot
// fail each other. The local cancellation always commits before any
// calendar call, so the record store never shows a ghost active
// appointment.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, cancelledBy string) ([]string, error) {
	ctx, span := appointmentTracer.Start(ctx, "appointments.cancel")
	defer span.End()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.leases.TryAcquire(a.LeadPhone) {
		return nil, ErrLeadBusy
	}
	defer s.leases.Release(a.LeadPhone)

	switch a.Status {
	case StatusCancelled:
		return nil, nil
	case StatusCompleted:
		return nil, ErrInvalidTransition
	}

	changed, err := s.repo.MarkCancelled(ctx, id, cancelledBy)
	if err != nil {
		return nil, err
	}
	if changed == 0 {
		// Lost a race outside the lease (e.g. completion); re-read to decide.
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusCancelled {
			return nil, nil
		}
		return nil, ErrInvalidTransition
	}

	s.metrics.ObserveCancelled(cancelledBy)
	s.logger.Info("appointment cancelled", "id", id, "cancelled_by", cancelledBy)

	var warnings []string
	if s.cal != nil {
		if a.AgentEventID != "" {
			if err := s.cal.DeleteEvent(ctx, s.agent, a.AgentEventID); err != nil {
				s.metrics.ObserveSyncWarning("delete_event")
				s.logger.Warn("agent calendar event deletion failed", "id", id, "error", err)
				warnings = append(warnings, "agent calendar sync failed: "+err.Error())
			}
		}
		if a.AdvisorEventID != "" {
			if err := s.cal.DeleteEvent(ctx, s.advisor, a.AdvisorEventID); err != nil {
				s.metrics.ObserveSyncWarning("delete_event")
				s.logger.Warn("advisor calendar event deletion failed", "id", id, "error", err)
				warnings = append(warnings, "advisor calendar sync failed: "+err.Error())
			}
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, a.LeadPhone, cancellationMessage(a)); err != nil {
			s.logger.Warn("cancellation notice send failed", "id", id, "error", err)
			warnings = append(warnings, "cancellation message failed: "+err.Error())
		}
	}
	return warnings, nil
}

// Complete transitions scheduled → completed.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	ctx, span := appointmentTracer.Start(ctx, "appointments.complete")
	defer span.End()

	changed, err := s.repo.MarkCompleted(ctx, id)
	if err != nil {
		return err
	}
	if changed == 0 {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return ErrInvalidTransition
	}
	s.logger.Info("appointment completed", "id", id)
	return nil
}

func leadLabel(a *Appointment) string {
	if a.LeadName != "" {
		return a.LeadName
	}
	return a.LeadPhone
}

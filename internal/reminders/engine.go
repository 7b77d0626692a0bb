package reminders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
	"github.com/edsonnoyola12/sara-crm/internal/observability/metrics"
	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

var reminderTracer = otel.Tracer("sara.internal.reminders")

// LeadSource provides the leads eligible for nurture sweeps.
type LeadSource interface {
	ListNurtureCandidates(ctx context.Context) ([]leads.Lead, error)
	TouchLastContact(ctx context.Context, phone string, at time.Time) error
}

// PolicySource provides the current reminder policies.
type PolicySource interface {
	GetAll(ctx context.Context) (map[leads.Category]Policy, error)
}

// Sender abstracts the outbound message capability.
type Sender interface {
	Send(ctx context.Context, toPhone, body string) error
}

// Leaser hands out per-lead dispatch leases.
type Leaser interface {
	TryAcquire(phone string) bool
	Release(phone string)
}

// Engine runs the periodic reminder sweep. Interval and window checks are
// recomputed from last_contact_at and the current policy on every tick;
// nothing is precomputed, so live policy edits apply immediately.
type Engine struct {
	leads    LeadSource
	policies PolicySource
	sender   Sender
	leases   Leaser
	loc      *time.Location
	logger   *logging.Logger
	metrics  *metrics.ReminderMetrics
	now      func() time.Time
}

// NewEngine creates a reminder engine. loc is the timezone used to
// evaluate send windows; nil means UTC.
func NewEngine(leadSource LeadSource, policies PolicySource, sender Sender, leases Leaser, loc *time.Location, logger *logging.Logger, m *metrics.ReminderMetrics) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		leads:    leadSource,
		policies: policies,
		sender:   sender,
		leases:   leases,
		loc:      loc,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Sweep evaluates every nurture candidate once and dispatches the
// reminders that are due inside their send window. Returns the number of
// reminders sent.
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	ctx, span := reminderTracer.Start(ctx, "reminders.sweep")
	defer span.End()

	e.metrics.ObserveSweep()
	now := e.now().UTC()

	candidates, err := e.leads.ListNurtureCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("reminders: sweep: list candidates: %w", err)
	}
	policies, err := e.policies.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reminders: sweep: load policies: %w", err)
	}

	sent := 0
	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		if e.processLead(ctx, &candidates[i], policies, now) {
			sent++
		}
	}

	span.SetAttributes(attribute.Int("sara.reminders.sent", sent))
	if sent > 0 {
		e.logger.Info("reminder sweep finished", "candidates", len(candidates), "sent", sent)
	}
	return sent, nil
}

func (e *Engine) processLead(ctx context.Context, lead *leads.Lead, policies map[leads.Category]Policy, now time.Time) bool {
	policy, ok := policies[lead.Category]
	if !ok {
		e.metrics.ObserveSkipped("no_policy")
		e.logger.Warn("no reminder policy for category", "category", lead.Category, "phone", lead.Phone)
		return false
	}
	if !policy.Active {
		e.metrics.ObserveSkipped("inactive")
		return false
	}

	elapsed := now.Sub(lead.LastContactAt)
	if elapsed < policy.Interval() {
		e.metrics.ObserveSkipped("not_due")
		return false
	}

	// Due but throttled: the reminder stays pending and fires on the
	// first tick after the window opens.
	if !policy.Window().Contains(now.In(e.loc)) {
		e.metrics.ObserveSkipped("outside_window")
		return false
	}

	if !e.leases.TryAcquire(lead.Phone) {
		e.metrics.ObserveSkipped("lease_held")
		return false
	}
	defer e.leases.Release(lead.Phone)

	body := Compose(policy.MessageTemplate, map[string]string{
		"name":  lead.Name,
		"score": strconv.Itoa(lead.Score),
		"hours": strconv.Itoa(int(elapsed.Hours())),
	})

	if err := e.sender.Send(ctx, lead.Phone, body); err != nil {
		// Timestamp stays untouched so the send is retried on the next
		// due tick instead of being silently lost.
		e.metrics.ObserveSendError()
		e.logger.Error("reminder send failed", "phone", lead.Phone, "error", err)
		return false
	}

	if err := e.leads.TouchLastContact(ctx, lead.Phone, now); err != nil {
		e.logger.Error("touch last contact failed", "phone", lead.Phone, "error", err)
	}
	e.metrics.ObserveSent(string(lead.Category))
	e.logger.Info("reminder sent", "phone", lead.Phone, "category", lead.Category)
	return true
}

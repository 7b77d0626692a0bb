package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsonnoyola12/sara-crm/internal/dispatch"
	"github.com/edsonnoyola12/sara-crm/internal/leads"
)

type fakeLeadSource struct {
	candidates []leads.Lead
	touched    map[string]time.Time
	listErr    error
}

func (f *fakeLeadSource) ListNurtureCandidates(ctx context.Context) ([]leads.Lead, error) {
	return f.candidates, f.listErr
}

func (f *fakeLeadSource) TouchLastContact(ctx context.Context, phone string, at time.Time) error {
	if f.touched == nil {
		f.touched = make(map[string]time.Time)
	}
	f.touched[phone] = at
	return nil
}

type fakePolicySource struct {
	policies map[leads.Category]Policy
}

func (f *fakePolicySource) GetAll(ctx context.Context) (map[leads.Category]Policy, error) {
	return f.policies, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, toPhone, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toPhone+": "+body)
	return nil
}

func hotPolicy() Policy {
	return Policy{
		Category:        leads.CategoryHot,
		IntervalHours:   24,
		Active:          true,
		MessageTemplate: "Hola {name}! Han pasado {hours} horas.",
		SendStartHour:   9,
		SendEndHour:     18,
	}
}

func newTestEngine(src *fakeLeadSource, policies *fakePolicySource, sender *fakeSender, leases Leaser) *Engine {
	if leases == nil {
		leases = dispatch.NewCoordinator()
	}
	return NewEngine(src, policies, sender, leases, time.UTC, nil, nil)
}

// Timeline from the hot-lead scenario: last contact at 19:00, interval
// 24h, window [9,18).
func TestSweepHotLeadTimeline(t *testing.T) {
	lastContact := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	src := &fakeLeadSource{candidates: []leads.Lead{{
		Phone:         "+5215551234567",
		Name:          "Laura",
		Category:      leads.CategoryHot,
		Score:         85,
		LastContactAt: lastContact,
	}}}
	policies := &fakePolicySource{policies: map[leads.Category]Policy{leads.CategoryHot: hotPolicy()}}
	sender := &fakeSender{}
	engine := newTestEngine(src, policies, sender, nil)

	// T+20h, 15:00 local: inside window but not yet due.
	engine.now = func() time.Time { return lastContact.Add(20 * time.Hour) }
	sent, err := engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)

	// T+25h, 20:00 local: due but outside the window, stays pending.
	engine.now = func() time.Time { return lastContact.Add(25 * time.Hour) }
	sent, err = engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, src.touched, "throttled reminder must not update last contact")

	// Next day 10:00 local: due and inside the window, fires once.
	fireAt := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fireAt }
	sent, err = engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Hola Laura!")
	assert.Equal(t, fireAt, src.touched["+5215551234567"])
}

func TestSweepInactivePolicySkips(t *testing.T) {
	p := hotPolicy()
	p.Active = false
	src := &fakeLeadSource{candidates: []leads.Lead{{
		Phone:         "+5215551234567",
		Category:      leads.CategoryHot,
		LastContactAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}}}
	sender := &fakeSender{}
	engine := newTestEngine(src, &fakePolicySource{policies: map[leads.Category]Policy{leads.CategoryHot: p}}, sender, nil)
	engine.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	sent, err := engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, sender.sent)
}

func TestSweepPolicyEditAppliesImmediately(t *testing.T) {
	lastContact := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	src := &fakeLeadSource{candidates: []leads.Lead{{
		Phone:         "+5215551234567",
		Category:      leads.CategoryHot,
		LastContactAt: lastContact,
	}}}
	p := hotPolicy()
	p.IntervalHours = 48
	policies := &fakePolicySource{policies: map[leads.Category]Policy{leads.CategoryHot: p}}
	sender := &fakeSender{}
	engine := newTestEngine(src, policies, sender, nil)
	engine.now = func() time.Time { return lastContact.Add(30 * time.Hour).Add(-4 * time.Hour) } // 12:00, 26h elapsed

	sent, err := engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent, "48h interval not yet elapsed")

	// Operator shortens the interval between ticks; no lead update needed.
	p.IntervalHours = 24
	policies.policies[leads.CategoryHot] = p

	sent, err = engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestSweepSendFailureRetriesNextTick(t *testing.T) {
	lastContact := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	src := &fakeLeadSource{candidates: []leads.Lead{{
		Phone:         "+5215551234567",
		Category:      leads.CategoryHot,
		LastContactAt: lastContact,
	}}}
	policies := &fakePolicySource{policies: map[leads.Category]Policy{leads.CategoryHot: hotPolicy()}}
	sender := &fakeSender{err: errors.New("twilio unavailable")}
	leases := dispatch.NewCoordinator()
	engine := newTestEngine(src, policies, sender, leases)
	engine.now = func() time.Time { return lastContact.Add(26 * time.Hour) } // 12:00 next day

	sent, err := engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, src.touched, "failed send must not advance last contact")
	assert.False(t, leases.Held("+5215551234567"), "lease must be released after a failed send")

	// Transport recovers; the same reminder fires on the next tick.
	sender.err = nil
	sent, err = engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, sender.sent, 1, "exactly one send, no duplicates")
}

func TestSweepSkipsLeadWithHeldLease(t *testing.T) {
	lastContact := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	src := &fakeLeadSource{candidates: []leads.Lead{{
		Phone:         "+5215551234567",
		Category:      leads.CategoryHot,
		LastContactAt: lastContact,
	}}}
	policies := &fakePolicySource{policies: map[leads.Category]Policy{leads.CategoryHot: hotPolicy()}}
	sender := &fakeSender{}
	leases := dispatch.NewCoordinator()
	require.True(t, leases.TryAcquire("+5215551234567"))

	engine := newTestEngine(src, policies, sender, leases)
	engine.now = func() time.Time { return lastContact.Add(26 * time.Hour) }

	sent, err := engine.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, sender.sent)
	assert.True(t, leases.Held("+5215551234567"), "engine must not release a lease it does not own")
}

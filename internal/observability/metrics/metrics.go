package metrics

import "github.com/prometheus/client_golang/prometheus"

// ReminderMetrics exposes counters for the reminder sweep.
type ReminderMetrics struct {
	sweepsTotal  prometheus.Counter
	sentTotal    *prometheus.CounterVec
	skippedTotal *prometheus.CounterVec
	sendErrors   prometheus.Counter
}

func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	m := &ReminderMetrics{
		sweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "reminders",
			Name:      "sweeps_total",
			Help:      "Total reminder sweep runs",
		}),
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Total reminders dispatched",
		}, []string{"category"}),
		skippedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "reminders",
			Name:      "skipped_total",
			Help:      "Leads skipped during a sweep",
		}, []string{"reason"}),
		sendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "reminders",
			Name:      "send_errors_total",
			Help:      "Outbound sends that failed and will be retried",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sweepsTotal, m.sentTotal, m.skippedTotal, m.sendErrors)
	return m
}

func (m *ReminderMetrics) ObserveSweep() {
	if m == nil {
		return
	}
	m.sweepsTotal.Inc()
}

func (m *ReminderMetrics) ObserveSent(category string) {
	if m == nil {
		return
	}
	m.sentTotal.WithLabelValues(category).Inc()
}

func (m *ReminderMetrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.skippedTotal.WithLabelValues(reason).Inc()
}

func (m *ReminderMetrics) ObserveSendError() {
	if m == nil {
		return
	}
	m.sendErrors.Inc()
}

// AppointmentMetrics exposes counters for the appointment lifecycle.
type AppointmentMetrics struct {
	createdTotal   prometheus.Counter
	cancelledTotal *prometheus.CounterVec
	syncWarnings   *prometheus.CounterVec
}

func NewAppointmentMetrics(reg prometheus.Registerer) *AppointmentMetrics {
	m := &AppointmentMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Appointments created",
		}),
		cancelledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "appointments",
			Name:      "cancelled_total",
			Help:      "Appointments cancelled",
		}, []string{"cancelled_by"}),
		syncWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sara",
			Subsystem: "appointments",
			Name:      "calendar_sync_warnings_total",
			Help:      "Calendar create/delete calls that failed after the local commit",
		}, []string{"op"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.cancelledTotal, m.syncWarnings)
	return m
}

func (m *AppointmentMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *AppointmentMetrics) ObserveCancelled(cancelledBy string) {
	if m == nil {
		return
	}
	m.cancelledTotal.WithLabelValues(cancelledBy).Inc()
}

func (m *AppointmentMetrics) ObserveSyncWarning(op string) {
	if m == nil {
		return
	}
	m.syncWarnings.WithLabelValues(op).Inc()
}

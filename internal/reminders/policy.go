package reminders

import (
	"time"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
)

// Policy configures the reminder cadence for one lead category. Policies
// are operator-editable and read fresh on every sweep, so edits apply
// without touching any lead row.
type Policy struct {
	Category        leads.Category `json:"lead_category"`
	IntervalHours   int            `json:"reminder_hours"`
	Active          bool           `json:"active"`
	MessageTemplate string         `json:"message_template"`
	SendStartHour   int            `json:"send_start_hour"`
	SendEndHour     int            `json:"send_end_hour"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Interval is the minimum time between reminders for this category.
func (p Policy) Interval() time.Duration {
	return time.Duration(p.IntervalHours) * time.Hour
}

// Window returns the allowed send window.
func (p Policy) Window() Window {
	return Window{StartHour: p.SendStartHour, EndHour: p.SendEndHour}
}

// Window is a daily [StartHour, EndHour) range in the lead's local time
// during which automated sends are allowed. StartHour > EndHour wraps
// midnight; StartHour == EndHour means always open.
type Window struct {
	StartHour int
	EndHour   int
}

// Contains reports whether the local time t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	hour := t.Hour()
	if w.StartHour == w.EndHour {
		return true
	}
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	// Window crosses midnight.
	return hour >= w.StartHour || hour < w.EndHour
}

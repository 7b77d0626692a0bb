package calendar

import (
	"context"
	"time"
)

// Party identifies one calendar owner (the sales agent or the financing
// advisor). An empty CalendarID means the party has no external calendar
// and no events are created for them.
type Party struct {
	Role       string
	CalendarID string
}

// Event is the calendar entry created for a booked viewing.
type Event struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Service is the external calendar capability. Both operations may fail
// transiently; callers treat failures as sync warnings, never as fatal.
type Service interface {
	CreateEvent(ctx context.Context, party Party, event Event) (string, error)
	DeleteEvent(ctx context.Context, party Party, eventID string) error
}

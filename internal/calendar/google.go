package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

// GoogleService talks to the Google Calendar API.
type GoogleService struct {
	svc    *gcal.Service
	logger *logging.Logger
}

// NewGoogleService builds a calendar client from service-account
// credentials JSON.
func NewGoogleService(ctx context.Context, credentialsJSON string, logger *logging.Logger) (*GoogleService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: new google service: %w", err)
	}
	return &GoogleService{svc: svc, logger: logger}, nil
}

var _ Service = (*GoogleService)(nil)

// CreateEvent inserts the event on the party's calendar and returns the
// generated event id.
func (g *GoogleService) CreateEvent(ctx context.Context, party Party, event Event) (string, error) {
	if party.CalendarID == "" {
		return "", errors.New("calendar: party has no calendar id")
	}
	created, err := g.svc.Events.Insert(party.CalendarID, &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: create event for %s: %w", party.Role, err)
	}
	g.logger.Info("calendar event created", "role", party.Role, "event_id", created.Id)
	return created.Id, nil
}

// DeleteEvent removes the event from the party's calendar. An event that
// is already gone counts as success so cancellation stays idempotent.
func (g *GoogleService) DeleteEvent(ctx context.Context, party Party, eventID string) error {
	err := g.svc.Events.Delete(party.CalendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			g.logger.Warn("calendar event already deleted", "role", party.Role, "event_id", eventID)
			return nil
		}
		return fmt.Errorf("calendar: delete event for %s: %w", party.Role, err)
	}
	g.logger.Info("calendar event deleted", "role", party.Role, "event_id", eventID)
	return nil
}

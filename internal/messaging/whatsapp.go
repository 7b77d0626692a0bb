package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

var whatsappTracer = otel.Tracer("sara.internal.messaging")

// messageCreator is the slice of the Twilio REST API the sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// WhatsAppSender delivers outbound messages over the Twilio WhatsApp
// channel. Numbers are E.164; the whatsapp: prefix is added here.
type WhatsAppSender struct {
	api    messageCreator
	from   string
	logger *logging.Logger
}

// NewWhatsAppSender builds a sender backed by the Twilio REST client.
func NewWhatsAppSender(accountSID, authToken, from string, logger *logging.Logger) *WhatsAppSender {
	if logger == nil {
		logger = logging.Default()
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &WhatsAppSender{api: client.Api, from: from, logger: logger}
}

// Send dispatches a single WhatsApp message.
func (s *WhatsAppSender) Send(ctx context.Context, toPhone, body string) error {
	if s.from == "" {
		return errors.New("messaging: whatsapp from number missing")
	}
	if toPhone == "" {
		return errors.New("messaging: to required")
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("messaging: body required")
	}

	_, span := whatsappTracer.Start(ctx, "messaging.whatsapp.send")
	defer span.End()
	span.SetAttributes(attribute.String("sara.to", toPhone))

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(toPhone))
	params.SetFrom(whatsappAddress(s.from))
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("messaging: whatsapp send to %s: %w", toPhone, err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Info("whatsapp message sent", "to", toPhone, "sid", sid)
	return nil
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

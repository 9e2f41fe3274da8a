package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"gather/pkg/logger"
	"gather/pkg/sanitizer"
)

var ErrInvalidRecipient = errors.New("invalid phone recipient")

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type twilioSender struct {
	api  messageCreator
	from string
	log  *logger.Logger
}

// NewTwilioSender sends through the Twilio Messaging API.
func NewTwilioSender(accountSID, authToken, from string, log *logger.Logger) Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &twilioSender{
		api:  client.Api,
		from: from,
		log:  log,
	}
}

// Send normalizes to to E.164 before delivery. Numbers that cannot be
// normalized fail with ErrInvalidRecipient.
func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e164 := sanitizer.NormalizePhone(to)
	if e164 == "" {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(e164)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("error sending sms: %w", err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	s.log.Info("SMS sent", "to", e164, "sid", sid)
	return nil
}

type logSender struct {
	log *logger.Logger
}

// NewLogSender only logs messages. Used when Twilio is not configured.
func NewLogSender(log *logger.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(ctx context.Context, to, body string) error {
	s.log.Info("SMS delivery disabled, message dropped", "to", sanitizer.NormalizePhone(to), "length", len(body))
	return nil
}

package notifier

import (
	"context"
	"errors"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"gather/pkg/kafka"
	"gather/pkg/locale"
	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/sms"
)

const startsAtLayout = "Mon Jan 2, 3:04 PM"

// Notifier turns domain events into SMS confirmations.
type Notifier struct {
	sender  sms.Sender
	printer *message.Printer
	log     *logger.Logger
}

func New(sender sms.Sender, log *logger.Logger) *Notifier {
	return &Notifier{
		sender:  sender,
		printer: message.NewPrinter(language.English),
		log:     log,
	}
}

// Handle is a kafka.MessageHandler. Events without a phone and unknown event
// types are acknowledged without sending anything.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case model.EventSignupCreated:
		var event model.SignupCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode signup event", err)
		}
		if event.Phone == "" {
			return nil
		}
		startsAt := event.StartsAt.In(locale.LocationForPhone(event.Phone))
		body := n.printer.Sprintf("You're signed up for %s on %s.", event.ClassTitle, startsAt.Format(startsAtLayout))
		return n.send(ctx, event.Phone, body, "signup_id", event.SignupID)

	case model.EventDonationCreated:
		var event model.DonationCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("failed to decode donation event", err)
		}
		if event.DonorPhone == "" {
			return nil
		}
		body := n.printer.Sprintf("Thank you %s! We received your donation of %s.", event.DonorName, n.formatAmount(event.AmountCents, event.Currency))
		return n.send(ctx, event.DonorPhone, body, "donation_id", event.DonationID)

	default:
		n.log.Debug("Ignoring event", "event_type", msg.GetEventType(), "event_id", msg.GetEventID())
		return nil
	}
}

func (n *Notifier) send(ctx context.Context, to, body string, idKey, id string) error {
	err := n.sender.Send(ctx, to, body)
	if err == nil {
		n.log.Info("Confirmation sent", idKey, id)
		return nil
	}
	if errors.Is(err, sms.ErrInvalidRecipient) {
		return kafka.NewPermanentError("recipient cannot receive sms", err).WithDetail(idKey, id)
	}
	return kafka.NewTransientError("failed to send sms", err).WithDetail(idKey, id)
}

// formatAmount renders minor units in the currency's standard scale,
// e.g. 2500 USD as "USD 25.00" and 500 JPY as "JPY 500".
func (n *Notifier) formatAmount(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return n.printer.Sprintf("%d %s", minor, code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	value := float64(minor) / math.Pow10(scale)
	return n.printer.Sprintf("%v %v", unit, number.Decimal(value, number.Scale(scale)))
}

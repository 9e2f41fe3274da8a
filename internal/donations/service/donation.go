package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	donationserrors "gather/internal/donations/errors"
	"gather/internal/donations/repository"
	"gather/internal/donations/validator"
	"gather/pkg/config"
	apperrors "gather/pkg/errors"
	"gather/pkg/kafka"
	"gather/pkg/middleware"
	"gather/pkg/model"
	"gather/pkg/payments"
	"gather/pkg/sanitizer"
	"gather/pkg/validation"
)

type DonationService interface {
	Create(ctx context.Context, d *model.Donation) error
	GetByID(ctx context.Context, id string) (*model.Donation, error)
}

type donationService struct {
	repo      repository.DonationRepository
	validator *validator.DonationValidator
	payments  payments.Creator
	publisher kafka.Publisher
	cfg       *config.Config
}

// NewDonationService builds the service. A nil creator means payments are not
// configured and Create reports the provider as unavailable.
func NewDonationService(
	repo repository.DonationRepository,
	validator *validator.DonationValidator,
	creator payments.Creator,
	publisher kafka.Publisher,
	cfg *config.Config,
) DonationService {
	return &donationService{
		repo:      repo,
		validator: validator,
		payments:  creator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *donationService) Create(ctx context.Context, d *model.Donation) error {
	d.ID = ""
	d.PaymentIntentID = ""
	d.ClientSecret = ""
	d.DonorName = sanitizer.NormalizeName(d.DonorName)
	d.DonorEmail = sanitizer.SanitizeEmail(d.DonorEmail)
	d.DonorPhone = sanitizer.FormatPhone(d.DonorPhone)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))

	if err := s.validator.Validate(d); err != nil {
		s.cfg.Log.Warn("Donation validation failed", "currency", d.Currency, "error", err)
		return toValidationError(err)
	}

	if s.payments == nil {
		return apperrors.Unavailable("Payment provider")
	}

	intent, err := s.payments.CreateIntent(ctx, payments.IntentRequest{
		AmountCents:    d.AmountCents,
		Currency:       strings.ToLower(d.Currency),
		ReceiptEmail:   d.DonorEmail,
		Description:    "Donation from " + d.DonorName,
		Metadata:       intentMetadata(ctx, d),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		if errors.Is(err, payments.ErrProviderRejected) {
			s.cfg.Log.Warn("Payment provider rejected donation", "amount_cents", d.AmountCents, "error", err)
			return apperrors.Wrap(err, apperrors.CodeBadRequest, "Payment provider rejected the donation", http.StatusPaymentRequired)
		}
		s.cfg.Log.Error("Failed to create payment intent", "error", err)
		return apperrors.Unavailable("Payment provider")
	}

	d.PaymentIntentID = intent.ID
	d.Status = donationStatus(intent.Status)

	if err := s.repo.Create(ctx, d); err != nil {
		s.cfg.Log.Error("Failed to persist donation after creating payment intent",
			"payment_intent_id", intent.ID,
			"error", err,
		)
		return apperrors.Internal("Failed to create donation", err)
	}
	d.ClientSecret = intent.ClientSecret

	s.cfg.Log.Info("Donation created successfully",
		"id", d.ID,
		"payment_intent_id", d.PaymentIntentID,
		"status", d.Status,
	)

	event := model.DonationCreatedEvent{
		DonationID:  d.ID,
		AmountCents: d.AmountCents,
		Currency:    d.Currency,
		DonorName:   d.DonorName,
		DonorPhone:  d.DonorPhone,
	}
	if err := kafka.PublishEvent(ctx, s.publisher, model.EventDonationCreated, d.ID, model.EventSource, middleware.RequestIDFrom(ctx), event); err != nil {
		s.cfg.Log.Error("Failed to publish donation event", "id", d.ID, "error", err)
	}

	return nil
}

func (s *donationService) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Donation ID cannot be empty")
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, donationserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Donation", id)
		case errors.Is(err, donationserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid donation ID format")
		}
		s.cfg.Log.Error("Failed to retrieve donation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve donation", err)
	}
	return d, nil
}

func intentMetadata(ctx context.Context, d *model.Donation) map[string]string {
	meta := map[string]string{"source": model.EventSource}
	if d.CommunityID != "" {
		meta["community_id"] = d.CommunityID
	}
	if requestID := middleware.RequestIDFrom(ctx); requestID != "" {
		meta["request_id"] = requestID
	}
	return meta
}

// donationStatus maps provider intent states onto donation states.
func donationStatus(intentStatus string) string {
	switch intentStatus {
	case "succeeded":
		return model.DonationStatusSucceeded
	case "canceled", "failed":
		return model.DonationStatusFailed
	default:
		return model.DonationStatusPending
	}
}

func toValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Donation validation failed", verrs.Details())
	}
	return apperrors.Validation("Donation validation failed", map[string]any{"error": err.Error()})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gather/internal/donations/validator"
	"gather/pkg/config"
	apperrors "gather/pkg/errors"
	"gather/pkg/kafka"
	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/payments"
)

type mockDonationRepository struct {
	created []*model.Donation
	err     error
}

func (m *mockDonationRepository) Create(ctx context.Context, d *model.Donation) error {
	if m.err != nil {
		return m.err
	}
	d.ID = "65a1f0c2e4b0a1b2c3d4e5f6"
	m.created = append(m.created, d)
	return nil
}

func (m *mockDonationRepository) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	return nil, errors.New("not implemented")
}

type mockCreator struct {
	createIntentFunc func(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error)
}

func (m *mockCreator) CreateIntent(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	return m.createIntentFunc(ctx, req)
}

type recordingPublisher struct {
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func validDonation() *model.Donation {
	return &model.Donation{
		AmountCents: 2500,
		Currency:    " usd",
		DonorName:   "Ana Lima",
		DonorEmail:  "ANA@example.com",
		DonorPhone:  "5551234567",
	}
}

func newTestService(repo *mockDonationRepository, creator payments.Creator, pub kafka.Publisher) DonationService {
	log := logger.Nop()
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	return NewDonationService(repo, validator.NewDonationValidator(log), creator, pub, cfg)
}

func TestCreate_PersistsIntentAndPublishes(t *testing.T) {
	var sent payments.IntentRequest
	creator := &mockCreator{
		createIntentFunc: func(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
			sent = req
			return &payments.Intent{ID: "pi_123", Status: "requires_payment_method", ClientSecret: "secret"}, nil
		},
	}
	repo := &mockDonationRepository{}
	pub := &recordingPublisher{}

	d := validDonation()
	if err := newTestService(repo, creator, pub).Create(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sent.AmountCents != 2500 || sent.Currency != "usd" || sent.ReceiptEmail != "ana@example.com" {
		t.Errorf("unexpected intent request: %+v", sent)
	}
	if sent.IdempotencyKey == "" {
		t.Error("expected an idempotency key on the intent request")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected donation persisted once, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.PaymentIntentID != "pi_123" || stored.Status != model.DonationStatusPending {
		t.Errorf("unexpected stored donation: %+v", stored)
	}
	if stored.Currency != "USD" {
		t.Errorf("currency = %q, want USD", stored.Currency)
	}
	if d.ClientSecret != "secret" {
		t.Error("expected client secret returned to caller")
	}
	if len(pub.messages) != 1 || pub.messages[0].GetEventType() != model.EventDonationCreated {
		t.Errorf("expected one donation.created event, got %+v", pub.messages)
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		donation   func() *model.Donation
		creator    payments.Creator
		repoErr    error
		wantCode   string
		wantStatus int
	}{
		{
			name: "amount below minimum",
			donation: func() *model.Donation {
				d := validDonation()
				d.AmountCents = 50
				return d
			},
			creator:    &mockCreator{},
			wantCode:   apperrors.CodeValidation,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "unknown currency",
			donation: func() *model.Donation {
				d := validDonation()
				d.Currency = "xyz"
				return d
			},
			creator:    &mockCreator{},
			wantCode:   apperrors.CodeValidation,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "payments not configured",
			donation:   validDonation,
			creator:    nil,
			wantCode:   apperrors.CodeUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:     "provider rejects",
			donation: validDonation,
			creator: &mockCreator{createIntentFunc: func(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
				return nil, fmt.Errorf("%w: card declined", payments.ErrProviderRejected)
			}},
			wantCode:   apperrors.CodeBadRequest,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:     "provider down",
			donation: validDonation,
			creator: &mockCreator{createIntentFunc: func(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
				return nil, errors.New("dial tcp: connection refused")
			}},
			wantCode:   apperrors.CodeUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:     "persist fails",
			donation: validDonation,
			creator: &mockCreator{createIntentFunc: func(ctx context.Context, req payments.IntentRequest) (*payments.Intent, error) {
				return &payments.Intent{ID: "pi_1", Status: "succeeded"}, nil
			}},
			repoErr:    errors.New("write conflict"),
			wantCode:   apperrors.CodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockDonationRepository{err: tt.repoErr}, tt.creator, kafka.NopPublisher{})
			err := svc.Create(context.Background(), tt.donation())

			appErr := apperrors.AsAppError(err)
			if err == nil || appErr.Code != tt.wantCode || appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %s/%d, got %v", tt.wantCode, tt.wantStatus, err)
			}
		})
	}
}

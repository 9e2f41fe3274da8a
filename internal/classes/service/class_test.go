package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	classeserrors "gather/internal/classes/errors"
	"gather/internal/classes/validator"
	communitieserrors "gather/internal/communities/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	apperrors "gather/pkg/errors"
	"gather/pkg/kafka"
	"gather/pkg/logger"
	"gather/pkg/model"
	"gather/pkg/sealer"
	"gather/pkg/signup"
)

const (
	classID     = "65a1f0c2e4b0a1b2c3d4e5f6"
	communityID = "65a1f0c2e4b0a1b2c3d4e5c3"
)

// memoryClassRepository keeps classes in memory with the same capacity and
// cancel semantics as the Mongo repository.
type memoryClassRepository struct {
	classes map[string]*model.Class
}

func newMemoryRepo(classes ...*model.Class) *memoryClassRepository {
	r := &memoryClassRepository{classes: make(map[string]*model.Class)}
	for _, c := range classes {
		r.classes[c.ID] = c
	}
	return r
}

func (r *memoryClassRepository) Create(ctx context.Context, c *model.Class) error {
	c.ID = classID
	r.classes[c.ID] = c
	return nil
}

func (r *memoryClassRepository) FindByID(ctx context.Context, id string) (*model.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", classeserrors.ErrNotFound, id)
	}
	copied := *c
	return &copied, nil
}

func (r *memoryClassRepository) FindByCommunity(ctx context.Context, communityID string, limit int, offset int64) ([]*model.Class, error) {
	return nil, nil
}

func (r *memoryClassRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	return 0, nil
}

func (r *memoryClassRepository) AddSignup(ctx context.Context, id string, s model.Signup, capacity int) (bool, error) {
	c := r.classes[id]
	if capacity > 0 && len(c.ActiveSignups()) >= capacity {
		return false, nil
	}
	c.Signups = append(c.Signups, s)
	return true, nil
}

func (r *memoryClassRepository) CancelSignup(ctx context.Context, id, signupID string, at time.Time) error {
	c, ok := r.classes[id]
	if ok {
		for i := range c.Signups {
			if c.Signups[i].ID == signupID && c.Signups[i].CanceledAt == nil {
				c.Signups[i].CanceledAt = &at
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", classeserrors.ErrSignupNotFound, signupID)
}

type stubCommunities struct {
	known map[string]bool
}

func (s *stubCommunities) Create(ctx context.Context, doc bson.M) (string, error) { return "", nil }

func (s *stubCommunities) FindByID(ctx context.Context, id string) (bson.M, error) {
	if !s.known[id] {
		return nil, fmt.Errorf("%w: %s", communitieserrors.ErrNotFound, id)
	}
	return bson.M{"_id": id}, nil
}

func (s *stubCommunities) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	return nil, nil
}

func (s *stubCommunities) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return nil, nil
}

func (s *stubCommunities) FindByCity(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error) {
	return nil, 0, nil
}

func (s *stubCommunities) Replace(ctx context.Context, id string, doc bson.M) error { return nil }

func (s *stubCommunities) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type recordingPublisher struct {
	messages []kafka.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.messages = append(p.messages, msg)
	return nil
}

func testSchema() signup.Schema {
	return signup.Schema{
		{Key: "intro", Type: signup.TypeHeader, Label: "Welcome"},
		{Key: "name", Type: "text", Label: "Name", Required: true, Visible: true},
		{Key: "phone", Type: "phone", Label: "Phone"},
		{Key: "days", Type: "checkbox", Label: "Days"},
	}
}

func testClass(capacity int) *model.Class {
	return &model.Class{
		ID:          classID,
		CommunityID: communityID,
		Title:       "Pottery",
		StartsAt:    time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Capacity:    capacity,
		SignupForm:  testSchema(),
	}
}

func newTestService(t *testing.T, repo *memoryClassRepository, pub kafka.Publisher) ClassService {
	t.Helper()
	log := logger.Nop()
	cfg := &config.Config{Log: log, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}

	seal, err := sealer.New("")
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	communities := &stubCommunities{known: map[string]bool{communityID: true}}
	return NewClassService(repo, communities, validator.NewClassValidator(log), seal, pub, cfg)
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		class    *model.Class
		wantCode string
	}{
		{"valid", testClass(0), ""},
		{"unknown community", func() *model.Class {
			c := testClass(0)
			c.CommunityID = "65a1f0c2e4b0a1b2c3d4e5ff"
			return c
		}(), apperrors.CodeNotFound},
		{"schema without data fields", func() *model.Class {
			c := testClass(0)
			c.SignupForm = signup.Schema{{Key: "intro", Type: signup.TypeHeader}}
			return c
		}(), apperrors.CodeValidation},
		{"missing title", func() *model.Class {
			c := testClass(0)
			c.Title = "  "
			return c
		}(), apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, newMemoryRepo(), kafka.NopPublisher{})
			err := svc.Create(context.Background(), tt.class)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.class.ID == "" {
					t.Error("expected id to be assigned")
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSignup_CancelRoundTrip(t *testing.T) {
	repo := newMemoryRepo(testClass(0))
	pub := &recordingPublisher{}
	svc := newTestService(t, repo, pub)
	ctx := context.Background()

	receipt, err := svc.Signup(ctx, classID, signup.Entry{
		"name":    "Ana",
		"phone":   "555 123 4567",
		"unknown": "dropped",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Token == "" || receipt.SignupID == "" {
		t.Fatalf("expected token and signup id, got %+v", receipt)
	}

	stored := repo.classes[classID].Signups[0]
	if _, ok := stored.Data["unknown"]; ok {
		t.Error("keys outside the form must be dropped")
	}
	if stored.Phone != "(555) 123-4567" {
		t.Errorf("phone = %q, want formatted", stored.Phone)
	}
	if len(pub.messages) != 1 || pub.messages[0].GetEventType() != model.EventSignupCreated {
		t.Errorf("expected one signup.created event, got %+v", pub.messages)
	}

	if err := svc.CancelSignup(ctx, receipt.Token); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if repo.classes[classID].Signups[0].CanceledAt == nil {
		t.Error("expected signup to be canceled")
	}

	err = svc.CancelSignup(ctx, receipt.Token)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("second cancel: expected NOT_FOUND, got %v", err)
	}
}

func TestSignup_Errors(t *testing.T) {
	tests := []struct {
		name     string
		class    *model.Class
		entry    signup.Entry
		wantCode string
	}{
		{"missing required", testClass(0), signup.Entry{"name": ""}, apperrors.CodeValidation},
		{"class full", func() *model.Class {
			c := testClass(1)
			c.Signups = []model.Signup{{ID: "s1", Data: signup.Entry{"name": "Bo"}}}
			return c
		}(), signup.Entry{"name": "Ana"}, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, newMemoryRepo(tt.class), kafka.NopPublisher{})
			_, err := svc.Signup(context.Background(), classID, tt.entry)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestSignup_CanceledSeatIsReusable(t *testing.T) {
	canceled := time.Now()
	c := testClass(1)
	c.Signups = []model.Signup{{ID: "s1", Data: signup.Entry{"name": "Bo"}, CanceledAt: &canceled}}
	svc := newTestService(t, newMemoryRepo(c), kafka.NopPublisher{})

	if _, err := svc.Signup(context.Background(), classID, signup.Entry{"name": "Ana"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelSignup_RejectsForgedToken(t *testing.T) {
	svc := newTestService(t, newMemoryRepo(testClass(0)), kafka.NopPublisher{})

	err := svc.CancelSignup(context.Background(), "not-a-token")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSignups_ProjectsActiveEntries(t *testing.T) {
	canceled := time.Now()
	c := testClass(0)
	c.Signups = []model.Signup{
		{ID: "s1", Data: signup.Entry{"name": "Ana", "days": primitive.A{"mon", "wed"}}},
		{ID: "s2", Data: signup.Entry{"name": "Bo"}, CanceledAt: &canceled},
		{ID: "s3", Data: signup.Entry{"name": "Cy"}},
	}
	svc := newTestService(t, newMemoryRepo(c), kafka.NopPublisher{})

	projection, err := svc.Signups(context.Background(), classID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(projection.Fields) != 3 {
		t.Errorf("expected 3 data fields, got %d", len(projection.Fields))
	}
	if len(projection.Rows) != 2 {
		t.Fatalf("expected 2 active rows, got %d", len(projection.Rows))
	}
	if projection.Rows[1]["id"] != "Signup 3" || projection.Rows[1]["name"] != "Cy" {
		t.Errorf("unexpected second row: %v", projection.Rows[1])
	}
	if _, ok := projection.Rows[0]["days"].([]any); !ok {
		t.Errorf("expected driver arrays converted to []any, got %T", projection.Rows[0]["days"])
	}
}

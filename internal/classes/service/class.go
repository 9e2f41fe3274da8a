package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	classeserrors "gather/internal/classes/errors"
	"gather/internal/classes/repository"
	"gather/internal/classes/validator"
	communitieserrors "gather/internal/communities/errors"
	communityrepository "gather/internal/communities/repository"
	"gather/pkg/config"
	"gather/pkg/document"
	apperrors "gather/pkg/errors"
	"gather/pkg/kafka"
	"gather/pkg/middleware"
	"gather/pkg/model"
	"gather/pkg/sanitizer"
	"gather/pkg/sealer"
	"gather/pkg/signup"
	"gather/pkg/validation"
)

// Field types whose value is taken as the signup's contact phone.
var phoneFieldTypes = map[string]bool{"phone": true, "tel": true}

type ClassService interface {
	Create(ctx context.Context, c *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	GetByCommunity(ctx context.Context, communityID string, limit int, offset int64) ([]*model.Class, int64, error)
	Signup(ctx context.Context, classID string, entry signup.Entry) (*model.SignupReceipt, error)
	CancelSignup(ctx context.Context, token string) error
	Signups(ctx context.Context, classID string) (*signup.Projection, error)
}

type classService struct {
	repo        repository.ClassRepository
	communities communityrepository.CommunityRepository
	validator   *validator.ClassValidator
	sealer      *sealer.Sealer
	publisher   kafka.Publisher
	cfg         *config.Config
	now         func() time.Time
}

func NewClassService(
	repo repository.ClassRepository,
	communities communityrepository.CommunityRepository,
	validator *validator.ClassValidator,
	sealer *sealer.Sealer,
	publisher kafka.Publisher,
	cfg *config.Config,
) ClassService {
	return &classService{
		repo:        repo,
		communities: communities,
		validator:   validator,
		sealer:      sealer,
		publisher:   publisher,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *classService) Create(ctx context.Context, c *model.Class) error {
	c.ID = ""
	c.Signups = nil
	c.Title = sanitizer.TrimAndNormalize(c.Title)
	c.Description = sanitizer.StripHTML(c.Description)

	if err := s.validator.Validate(c); err != nil {
		s.cfg.Log.Warn("Class validation failed",
			"community_id", c.CommunityID,
			"title", c.Title,
			"error", err,
		)
		return toValidationError(err)
	}

	if _, err := s.communities.FindByID(ctx, c.CommunityID); err != nil {
		if errors.Is(err, communitieserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Community", c.CommunityID)
		}
		return s.mapRepoError(err, c.CommunityID, "Failed to look up community")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return s.mapRepoError(err, "", "Failed to create class")
	}

	s.cfg.Log.Info("Class created successfully",
		"id", c.ID,
		"community_id", c.CommunityID,
		"fields", len(c.SignupForm),
	)
	return nil
}

func (s *classService) GetByID(ctx context.Context, id string) (*model.Class, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Class ID cannot be empty")
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve class")
	}
	return c, nil
}

func (s *classService) GetByCommunity(ctx context.Context, communityID string, limit int, offset int64) ([]*model.Class, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	total, err := s.repo.CountByCommunity(ctx, communityID)
	if err != nil {
		return nil, 0, s.mapRepoError(err, communityID, "Failed to count classes")
	}
	classes, err := s.repo.FindByCommunity(ctx, communityID, limit, offset)
	if err != nil {
		return nil, 0, s.mapRepoError(err, communityID, "Failed to retrieve classes")
	}
	return classes, total, nil
}

func (s *classService) Signup(ctx context.Context, classID string, entry signup.Entry) (*model.SignupReceipt, error) {
	class, err := s.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if missing := class.SignupForm.MissingRequired(entry); len(missing) > 0 {
		fields := make(map[string]any, len(missing))
		for _, key := range missing {
			fields[key] = key + " is required"
		}
		return nil, apperrors.Validation("Signup validation failed", map[string]any{"fields": fields})
	}

	record := model.Signup{
		ID:        uuid.NewString(),
		Data:      keepSchemaFields(class.SignupForm, entry),
		CreatedAt: s.now().Truncate(time.Millisecond),
	}
	record.Phone = signupPhone(class.SignupForm, record.Data)

	added, err := s.repo.AddSignup(ctx, classID, record, class.Capacity)
	if err != nil {
		return nil, s.mapRepoError(err, classID, "Failed to add signup")
	}
	if !added {
		return nil, apperrors.Conflict("Class is full")
	}

	token, err := s.sealer.CreateOpaqueToken(classID, record.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to create cancel token", "class_id", classID, "signup_id", record.ID, "error", err)
		return nil, apperrors.Internal("Failed to create cancel token", err)
	}

	s.cfg.Log.Info("Signup created successfully", "class_id", classID, "signup_id", record.ID)

	event := model.SignupCreatedEvent{
		ClassID:    classID,
		ClassTitle: class.Title,
		SignupID:   record.ID,
		Phone:      record.Phone,
		StartsAt:   class.StartsAt,
	}
	if err := kafka.PublishEvent(ctx, s.publisher, model.EventSignupCreated, classID, model.EventSource, middleware.RequestIDFrom(ctx), event); err != nil {
		s.cfg.Log.Error("Failed to publish signup event", "class_id", classID, "signup_id", record.ID, "error", err)
	}

	return &model.SignupReceipt{SignupID: record.ID, Token: token}, nil
}

func (s *classService) CancelSignup(ctx context.Context, token string) error {
	classID, signupID, err := s.sealer.ParseOpaqueToken(token)
	if err != nil {
		if errors.Is(err, sealer.ErrInvalidToken) {
			return apperrors.InvalidInput("Invalid cancel token")
		}
		return apperrors.Internal("Failed to read cancel token", err)
	}

	if err := s.repo.CancelSignup(ctx, classID, signupID, s.now()); err != nil {
		if errors.Is(err, classeserrors.ErrSignupNotFound) {
			return apperrors.NotFound("Signup")
		}
		return s.mapRepoError(err, classID, "Failed to cancel signup")
	}

	s.cfg.Log.Info("Signup canceled", "class_id", classID, "signup_id", signupID)
	return nil
}

func (s *classService) Signups(ctx context.Context, classID string) (*signup.Projection, error) {
	class, err := s.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	input := class.ProjectionInput()
	for i, entry := range input.Signups {
		input.Signups[i] = plainEntry(entry)
	}
	return signup.Project(input), nil
}

func (s *classService) mapRepoError(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, classeserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Class", id)
	case errors.Is(err, classeserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid class ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

// keepSchemaFields drops submitted keys the form does not define.
func keepSchemaFields(schema signup.Schema, entry signup.Entry) signup.Entry {
	out := make(signup.Entry, len(entry))
	for _, f := range schema.DataFields() {
		if v, ok := entry[f.Key]; ok {
			out[f.Key] = v
		}
	}
	return out
}

func signupPhone(schema signup.Schema, entry signup.Entry) string {
	for _, f := range schema.DataFields() {
		if !phoneFieldTypes[f.Type] {
			continue
		}
		if v, ok := entry[f.Key].(string); ok && v != "" {
			return sanitizer.FormatPhone(v)
		}
	}
	return ""
}

// plainEntry converts driver types (primitive.A, primitive.D) left in a
// decoded entry back to plain Go values.
func plainEntry(entry signup.Entry) signup.Entry {
	plain, ok := document.FromAny(map[string]any(entry)).Any().(map[string]any)
	if !ok {
		return entry
	}
	return plain
}

func toValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Class validation failed", verrs.Details())
	}
	return apperrors.Validation("Class validation failed", map[string]any{"error": fmt.Sprint(err)})
}

package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	contactserrors "gather/internal/contacts/errors"
	"gather/internal/contacts/repository"
	"gather/internal/contacts/validator"
	"gather/pkg/config"
	"gather/pkg/contacts"
	apperrors "gather/pkg/errors"
	"gather/pkg/kafka"
	"gather/pkg/middleware"
	"gather/pkg/model"
	"gather/pkg/sanitizer"
	"gather/pkg/validation"
)

type ContactService interface {
	Create(ctx context.Context, c *model.Contact) error
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	GetByIDs(ctx context.Context, ids []any) ([]*model.Contact, error)
	Update(ctx context.Context, id string, updates *model.ContactUpdate) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo      repository.ContactRepository
	validator *validator.ContactValidator
	publisher kafka.Publisher
	cfg       *config.Config
}

func NewContactService(
	repo repository.ContactRepository,
	validator *validator.ContactValidator,
	publisher kafka.Publisher,
	cfg *config.Config,
) ContactService {
	return &contactService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *contactService) Create(ctx context.Context, c *model.Contact) error {
	userID := middleware.UserIDFrom(ctx)
	c.ID = ""
	c.OwnerID = ""
	if c.Scope == model.ScopeUser {
		if userID == "" {
			return apperrors.Unauthorized("Authentication is required to create a personal contact")
		}
		c.OwnerID = userID
		c.ScopeID = ""
	}

	s.sanitize(c)

	if err := s.validate(c); err != nil {
		s.cfg.Log.Warn("Contact validation failed",
			"scope", c.Scope,
			"scope_id", c.ScopeID,
			"error", err,
		)
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		duplicate, err := s.isDuplicate(sessCtx, c, userID)
		if err != nil {
			return err
		}
		if duplicate {
			return apperrors.Conflict("A contact with the same name and phone number already exists")
		}

		if err := s.repo.Create(sessCtx, c); err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Failed to create contact",
			"scope", c.Scope,
			"scope_id", c.ScopeID,
			"error", err,
		)
		return apperrors.Internal("Failed to create contact", err)
	}

	s.cfg.Log.Info("Contact created successfully",
		"id", c.ID,
		"scope", c.Scope,
		"scope_id", c.ScopeID,
	)

	s.publishCreated(ctx, c)
	return nil
}

func (s *contactService) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Contact ID cannot be empty")
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve contact")
	}

	if !visibleTo(c, middleware.UserIDFrom(ctx)) {
		return nil, apperrors.NotFoundWithID("Contact", id)
	}

	return c, nil
}

func (s *contactService) GetByIDs(ctx context.Context, ids []any) ([]*model.Contact, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to get contacts by ids", "count", len(ids), "error", err)
		return nil, apperrors.Internal("Failed to retrieve contacts", err)
	}

	userID := middleware.UserIDFrom(ctx)
	visible := make([]*model.Contact, 0, len(found))
	for _, c := range found {
		if visibleTo(c, userID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *contactService) Update(ctx context.Context, id string, updates *model.ContactUpdate) (*model.Contact, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, toValidationError(err)
	}

	merged := applyUpdate(existing, updates)
	s.sanitize(merged)

	if err := s.validate(merged); err != nil {
		return nil, err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		duplicate, err := s.isDuplicate(sessCtx, merged, middleware.UserIDFrom(ctx))
		if err != nil {
			return err
		}
		if duplicate {
			return apperrors.Conflict("A contact with the same name and phone number already exists")
		}
		return s.repo.Update(sessCtx, id, merged)
	})
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update contact")
	}

	s.cfg.Log.Info("Contact updated successfully", "id", id)
	return merged, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete contact")
	}

	s.cfg.Log.Info("Contact deleted successfully", "id", id)
	return nil
}

// isDuplicate gathers the caller's private contacts plus the community and
// city contacts c could collide with, then runs the identity check. Only
// contacts sharing c's phone digits are loaded since nothing else can match.
func (s *contactService) isDuplicate(ctx context.Context, c *model.Contact, userID string) (bool, error) {
	if c.PhoneDigits == "" {
		return false, nil
	}

	var scopes []contacts.Source

	if userID != "" {
		owned, err := s.repo.FindOwnedWithPhone(ctx, userID, c.PhoneDigits)
		if err != nil {
			return false, fmt.Errorf("failed to load user contacts: %w", err)
		}
		scopes = append(scopes, contacts.UserContacts(model.ToDedupSlice(owned)))
	}

	communities, err := s.scoped(ctx, model.ScopeCommunity, c.CommunityIDs, c)
	if err != nil {
		return false, err
	}
	cities, err := s.scoped(ctx, model.ScopeCity, c.CityIDs, c)
	if err != nil {
		return false, err
	}

	scopes = append(scopes, contacts.CommunityContacts(communities), contacts.CityContacts(cities))
	return contacts.IsDuplicate(c.ToDedup(), scopes...), nil
}

func (s *contactService) scoped(ctx context.Context, scope string, ids []string, c *model.Contact) (map[string][]contacts.Contact, error) {
	if c.Scope == scope && c.ScopeID != "" {
		ids = append([]string{c.ScopeID}, ids...)
	}
	ids = sanitizer.NormalizeIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.repo.FindScopedWithPhone(ctx, scope, ids, c.PhoneDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s contacts: %w", scope, err)
	}

	grouped := make(map[string][]contacts.Contact, len(ids))
	for _, existing := range found {
		grouped[existing.ScopeID] = append(grouped[existing.ScopeID], existing.ToDedup())
	}
	return grouped, nil
}

func (s *contactService) validate(c *model.Contact) error {
	if err := s.validator.Validate(c); err != nil {
		return toValidationError(err)
	}
	return nil
}

func (s *contactService) sanitize(c *model.Contact) {
	c.FirstName = sanitizer.NormalizeName(c.FirstName)
	c.LastName = sanitizer.NormalizeName(c.LastName)
	c.Email = sanitizer.SanitizeEmail(c.Email)
	c.Phone = sanitizer.FormatPhone(c.Phone)
	c.PhoneDigits = sanitizer.PhoneDigits(c.Phone)
	c.CommunityIDs = sanitizer.NormalizeIDs(c.CommunityIDs)
	c.CityIDs = sanitizer.NormalizeIDs(c.CityIDs)
}

func (s *contactService) publishCreated(ctx context.Context, c *model.Contact) {
	event := model.ContactCreatedEvent{
		ContactID: c.ID,
		Scope:     c.Scope,
		ScopeID:   c.ScopeID,
		CreatedAt: c.CreatedAt,
	}
	if err := kafka.PublishEvent(ctx, s.publisher, model.EventContactCreated, c.ID, model.EventSource, middleware.RequestIDFrom(ctx), event); err != nil {
		s.cfg.Log.Error("Failed to publish contact event", "id", c.ID, "error", err)
	}
}

func (s *contactService) mapRepoError(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, contactserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Contact", id)
	case errors.Is(err, contactserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid contact ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func visibleTo(c *model.Contact, userID string) bool {
	return c.Scope != model.ScopeUser || c.OwnerID == userID
}

func applyUpdate(existing *model.Contact, u *model.ContactUpdate) *model.Contact {
	merged := *existing
	if u.FirstName != nil {
		merged.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		merged.LastName = *u.LastName
	}
	if u.Phone != nil {
		merged.Phone = *u.Phone
	}
	if u.Email != nil {
		merged.Email = *u.Email
	}
	merged.CommunityIDs = u.CommunityIDs
	merged.CityIDs = u.CityIDs
	return &merged
}

func toValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Contact validation failed", verrs.Details())
	}
	return apperrors.Validation("Contact validation failed", map[string]any{"error": err.Error()})
}

package service

import (
	"context"
	"errors"
	"time"

	citieserrors "gather/internal/cities/errors"
	"gather/internal/cities/repository"
	"gather/internal/cities/validator"
	"gather/pkg/config"
	"gather/pkg/document"
	apperrors "gather/pkg/errors"
	"gather/pkg/model"
	"gather/pkg/places"
	"gather/pkg/validation"
)

type CityService interface {
	Create(ctx context.Context, body any) (map[string]any, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	GetBySlug(ctx context.Context, slug string) (map[string]any, error)
	GetByIDs(ctx context.Context, ids []any) ([]map[string]any, error)
	Update(ctx context.Context, id string, body any) (map[string]any, error)
}

type cityService struct {
	repo      repository.CityRepository
	validator *validator.CityValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewCityService(repo repository.CityRepository, validator *validator.CityValidator, cfg *config.Config) CityService {
	return &cityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *cityService) Create(ctx context.Context, body any) (map[string]any, error) {
	record, err := places.Decode(body, model.FieldCommunities)
	if err != nil {
		return nil, err
	}

	doc, err := places.Prepare(record, model.CityTemplate(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.validate(doc); err != nil {
		return nil, err
	}

	stored := places.ToBSON(doc)
	id, err := s.repo.Create(ctx, stored)
	if err != nil {
		return nil, s.mapRepoError(err, "", "Failed to create city")
	}
	stored[model.FieldID] = id

	s.cfg.Log.Info("City created successfully", "id", id, "slug", stored[model.FieldSlug])
	return places.Present(stored, model.CityTemplate()), nil
}

func (s *cityService) GetByID(ctx context.Context, id string) (map[string]any, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("City ID cannot be empty")
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve city")
	}
	return places.Present(doc, model.CityTemplate()), nil
}

func (s *cityService) GetBySlug(ctx context.Context, slug string) (map[string]any, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("City slug cannot be empty")
	}

	doc, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, citieserrors.ErrNotFound) {
			return nil, apperrors.NotFound("City with slug '" + slug + "'")
		}
		return nil, s.mapRepoError(err, slug, "Failed to retrieve city")
	}
	return places.Present(doc, model.CityTemplate()), nil
}

func (s *cityService) GetByIDs(ctx context.Context, ids []any) ([]map[string]any, error) {
	docs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapRepoError(err, "", "Failed to retrieve cities")
	}
	return places.PresentAll(docs, model.CityTemplate()), nil
}

func (s *cityService) Update(ctx context.Context, id string, body any) (map[string]any, error) {
	patch, err := places.Decode(body, model.FieldCommunities)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve city")
	}

	doc, err := places.Patch(stored, patch, model.CityTemplate(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.validate(doc); err != nil {
		return nil, err
	}

	// communities is maintained by community writes; only the other fields are set.
	fields := places.ToBSON(doc)
	delete(fields, model.FieldCommunities)
	if err := s.repo.SetFields(ctx, id, fields); err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update city")
	}

	updated := places.ToBSON(doc)
	updated[model.FieldID] = stored[model.FieldID]
	s.cfg.Log.Info("City updated successfully", "id", id)
	return places.Present(updated, model.CityTemplate()), nil
}

func (s *cityService) validate(doc document.Object) error {
	if err := s.validator.Validate(doc); err != nil {
		s.cfg.Log.Warn("City validation failed", "slug", doc[model.FieldSlug].Scalar(), "error", err)
		return toValidationError(err)
	}
	return nil
}

func (s *cityService) mapRepoError(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, citieserrors.ErrNotFound):
		return apperrors.NotFoundWithID("City", id)
	case errors.Is(err, citieserrors.ErrSlugTaken):
		return apperrors.Conflict("A city with this slug already exists")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func toValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("City validation failed", verrs.Details())
	}
	return apperrors.Validation("City validation failed", map[string]any{"error": err.Error()})
}

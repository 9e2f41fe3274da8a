package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	citieserrors "gather/internal/cities/errors"
	cityrepository "gather/internal/cities/repository"
	communitieserrors "gather/internal/communities/errors"
	"gather/internal/communities/repository"
	"gather/internal/communities/validator"
	"gather/pkg/config"
	"gather/pkg/document"
	apperrors "gather/pkg/errors"
	"gather/pkg/model"
	"gather/pkg/places"
	"gather/pkg/validation"
)

type CommunityService interface {
	Create(ctx context.Context, body any) (map[string]any, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	GetBySlug(ctx context.Context, slug string) (map[string]any, error)
	GetByIDs(ctx context.Context, ids []any) ([]map[string]any, error)
	GetByCity(ctx context.Context, cityID string, limit int, offset int64) ([]map[string]any, int64, error)
	Update(ctx context.Context, id string, body any) (map[string]any, error)
}

type communityService struct {
	repo      repository.CommunityRepository
	cities    cityrepository.CityRepository
	validator *validator.CommunityValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewCommunityService(
	repo repository.CommunityRepository,
	cities cityrepository.CityRepository,
	validator *validator.CommunityValidator,
	cfg *config.Config,
) CommunityService {
	return &communityService{
		repo:      repo,
		cities:    cities,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *communityService) Create(ctx context.Context, body any) (map[string]any, error) {
	record, err := places.Decode(body)
	if err != nil {
		return nil, err
	}

	doc, err := places.Prepare(record, model.CommunityTemplate(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.validate(doc); err != nil {
		return nil, err
	}

	stored := places.ToBSON(doc)
	cityID, _ := doc[model.FieldCityID].AsString()

	var id string
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if cityID != "" {
			if _, err := s.cities.FindByID(sessCtx, cityID); err != nil {
				return err
			}
		}

		id, err = s.repo.Create(sessCtx, stored)
		if err != nil {
			return err
		}

		if cityID != "" {
			return s.cities.AddCommunity(sessCtx, cityID, id)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapRepoError(err, cityID, "Failed to create community")
	}
	stored[model.FieldID] = id

	s.cfg.Log.Info("Community created successfully",
		"id", id,
		"slug", stored[model.FieldSlug],
		"city_id", cityID,
	)
	return places.Present(stored, model.CommunityTemplate()), nil
}

func (s *communityService) GetByID(ctx context.Context, id string) (map[string]any, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Community ID cannot be empty")
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve community")
	}
	return places.Present(doc, model.CommunityTemplate()), nil
}

func (s *communityService) GetBySlug(ctx context.Context, slug string) (map[string]any, error) {
	if slug == "" {
		return nil, apperrors.InvalidInput("Community slug cannot be empty")
	}

	doc, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, communitieserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Community with slug '" + slug + "'")
		}
		return nil, s.mapRepoError(err, slug, "Failed to retrieve community")
	}
	return places.Present(doc, model.CommunityTemplate()), nil
}

func (s *communityService) GetByIDs(ctx context.Context, ids []any) ([]map[string]any, error) {
	docs, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, s.mapRepoError(err, "", "Failed to retrieve communities")
	}
	return places.PresentAll(docs, model.CommunityTemplate()), nil
}

func (s *communityService) GetByCity(ctx context.Context, cityID string, limit int, offset int64) ([]map[string]any, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	docs, total, err := s.repo.FindByCity(ctx, cityID, limit, offset)
	if err != nil {
		return nil, 0, s.mapRepoError(err, cityID, "Failed to retrieve communities")
	}
	return places.PresentAll(docs, model.CommunityTemplate()), total, nil
}

// Update applies a patch. Moving a community to another city updates both
// cities' communities arrays in the same transaction.
func (s *communityService) Update(ctx context.Context, id string, body any) (map[string]any, error) {
	patch, err := places.Decode(body)
	if err != nil {
		return nil, err
	}

	var replacement map[string]any
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		stored, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return err
		}

		doc, err := places.Patch(stored, patch, model.CommunityTemplate(), s.now())
		if err != nil {
			return err
		}
		if err := s.validate(doc); err != nil {
			return err
		}

		oldCity, _ := document.FromAny(stored[model.FieldCityID]).AsString()
		newCity, _ := doc[model.FieldCityID].AsString()
		if oldCity != newCity {
			if err := s.moveCommunity(sessCtx, id, oldCity, newCity); err != nil {
				return err
			}
		}

		replacement = places.ToBSON(doc)
		if err := s.repo.Replace(sessCtx, id, replacement); err != nil {
			return err
		}
		replacement[model.FieldID] = stored[model.FieldID]
		return nil
	})
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to update community")
	}

	s.cfg.Log.Info("Community updated successfully", "id", id)
	return places.Present(replacement, model.CommunityTemplate()), nil
}

func (s *communityService) moveCommunity(ctx context.Context, id, from, to string) error {
	if to != "" {
		if _, err := s.cities.FindByID(ctx, to); err != nil {
			return err
		}
		if err := s.cities.AddCommunity(ctx, to, id); err != nil {
			return err
		}
	}
	if from != "" {
		if err := s.cities.RemoveCommunity(ctx, from, id); err != nil && !errors.Is(err, citieserrors.ErrNotFound) {
			return fmt.Errorf("failed to detach community from city %s: %w", from, err)
		}
	}
	return nil
}

func (s *communityService) validate(doc document.Object) error {
	if err := s.validator.Validate(doc); err != nil {
		s.cfg.Log.Warn("Community validation failed", "slug", doc[model.FieldSlug].Scalar(), "error", err)
		return toValidationError(err)
	}
	return nil
}

func (s *communityService) mapRepoError(err error, id, message string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, communitieserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Community", id)
	case errors.Is(err, communitieserrors.ErrSlugTaken):
		return apperrors.Conflict("A community with this slug already exists")
	case errors.Is(err, citieserrors.ErrNotFound):
		return apperrors.NotFound("Referenced city")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func toValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Community validation failed", verrs.Details())
	}
	return apperrors.Validation("Community validation failed", map[string]any{"error": err.Error()})
}

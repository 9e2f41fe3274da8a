package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	citieserrors "gather/internal/cities/errors"
	communitieserrors "gather/internal/communities/errors"
	"gather/internal/communities/validator"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	apperrors "gather/pkg/errors"
	"gather/pkg/logger"
)

const (
	cityA       = "65a1f0c2e4b0a1b2c3d4e5a1"
	cityB       = "65a1f0c2e4b0a1b2c3d4e5b2"
	communityID = "65a1f0c2e4b0a1b2c3d4e5c3"
)

type mockCommunityRepository struct {
	createFunc     func(ctx context.Context, doc bson.M) (string, error)
	findByIDFunc   func(ctx context.Context, id string) (bson.M, error)
	findByCityFunc func(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error)
	replaceFunc    func(ctx context.Context, id string, doc bson.M) error
}

func (m *mockCommunityRepository) Create(ctx context.Context, doc bson.M) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	return communityID, nil
}

func (m *mockCommunityRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", communitieserrors.ErrNotFound, id)
}

func (m *mockCommunityRepository) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	return nil, fmt.Errorf("%w: %s", communitieserrors.ErrNotFound, slug)
}

func (m *mockCommunityRepository) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return []bson.M{}, nil
}

func (m *mockCommunityRepository) FindByCity(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error) {
	if m.findByCityFunc != nil {
		return m.findByCityFunc(ctx, cityID, limit, offset)
	}
	return []bson.M{}, 0, nil
}

func (m *mockCommunityRepository) Replace(ctx context.Context, id string, doc bson.M) error {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, id, doc)
	}
	return nil
}

func (m *mockCommunityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

// fakeCityRepository keeps the communities array per known city.
type fakeCityRepository struct {
	communities map[string][]string
}

func newFakeCities(ids ...string) *fakeCityRepository {
	f := &fakeCityRepository{communities: make(map[string][]string)}
	for _, id := range ids {
		f.communities[id] = nil
	}
	return f
}

func (f *fakeCityRepository) Create(ctx context.Context, doc bson.M) (string, error) {
	return "", nil
}

func (f *fakeCityRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	if _, ok := f.communities[id]; !ok {
		return nil, fmt.Errorf("%w: %s", citieserrors.ErrNotFound, id)
	}
	return bson.M{"_id": id}, nil
}

func (f *fakeCityRepository) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	return nil, nil
}

func (f *fakeCityRepository) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return nil, nil
}

func (f *fakeCityRepository) SetFields(ctx context.Context, id string, fields bson.M) error {
	return nil
}

func (f *fakeCityRepository) AddCommunity(ctx context.Context, cityID, id string) error {
	if _, ok := f.communities[cityID]; !ok {
		return fmt.Errorf("%w: %s", citieserrors.ErrNotFound, cityID)
	}
	for _, existing := range f.communities[cityID] {
		if existing == id {
			return nil
		}
	}
	f.communities[cityID] = append(f.communities[cityID], id)
	return nil
}

func (f *fakeCityRepository) RemoveCommunity(ctx context.Context, cityID, id string) error {
	kept := f.communities[cityID][:0]
	for _, existing := range f.communities[cityID] {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	f.communities[cityID] = kept
	return nil
}

func (f *fakeCityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockCommunityRepository, cities *fakeCityRepository) CommunityService {
	log := logger.Nop()
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewCommunityService(repo, cities, validator.NewCommunityValidator(log), cfg)
}

func TestCreate_AttachesToCity(t *testing.T) {
	cities := newFakeCities(cityA)
	svc := newTestService(&mockCommunityRepository{}, cities)

	community, err := svc.Create(context.Background(), map[string]any{
		"name":    "Downtown Runners",
		"city_id": cityA,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cities.communities[cityA]; len(got) != 1 || got[0] != communityID {
		t.Errorf("city communities = %v, want [%s]", got, communityID)
	}
	if community["slug"] != "downtown-runners" {
		t.Errorf("slug = %v", community["slug"])
	}
	if _, ok := community["meeting"].(map[string]any); !ok {
		t.Errorf("expected meeting backfilled from template, got %v", community["meeting"])
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		repoErr  error
		wantCode string
	}{
		{"unknown city", map[string]any{"name": "Runners", "city_id": cityB}, nil, apperrors.CodeNotFound},
		{"malformed city id", map[string]any{"name": "Runners", "city_id": "nope"}, nil, apperrors.CodeValidation},
		{"city id not a string", map[string]any{"name": "Runners", "city_id": 12.0}, nil, apperrors.CodeValidation},
		{"slug clash", map[string]any{"name": "Runners"}, fmt.Errorf("%w: runners", communitieserrors.ErrSlugTaken), apperrors.CodeConflict},
		{"meeting not an object", map[string]any{"name": "Runners", "meeting": []any{}}, nil, apperrors.CodeInvalidArgumentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCommunityRepository{
				createFunc: func(ctx context.Context, doc bson.M) (string, error) {
					if tt.repoErr != nil {
						return "", tt.repoErr
					}
					return communityID, nil
				},
			}
			_, err := newTestService(repo, newFakeCities(cityA)).Create(context.Background(), tt.body)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestUpdate_MovesBetweenCities(t *testing.T) {
	cities := newFakeCities(cityA, cityB)
	cities.communities[cityA] = []string{communityID}

	repo := &mockCommunityRepository{
		findByIDFunc: func(ctx context.Context, id string) (bson.M, error) {
			return bson.M{"_id": id, "name": "Runners", "slug": "runners", "city_id": cityA}, nil
		},
	}
	svc := newTestService(repo, cities)

	community, err := svc.Update(context.Background(), communityID, map[string]any{"city_id": cityB})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cities.communities[cityA]) != 0 {
		t.Errorf("expected community removed from old city, got %v", cities.communities[cityA])
	}
	if got := cities.communities[cityB]; len(got) != 1 || got[0] != communityID {
		t.Errorf("expected community added to new city, got %v", got)
	}
	if community["city_id"] != cityB {
		t.Errorf("city_id = %v, want %s", community["city_id"], cityB)
	}
}

func TestGetByCity_NormalizesPagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	repo := &mockCommunityRepository{
		findByCityFunc: func(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []bson.M{{"name": "Runners"}}, 7, nil
		},
	}

	list, total, err := newTestService(repo, newFakeCities()).GetByCity(context.Background(), cityA, 0, -3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit <= 0 || gotOffset != 0 {
		t.Errorf("expected normalized pagination, got limit=%d offset=%d", gotLimit, gotOffset)
	}
	if total != 7 || len(list) != 1 {
		t.Errorf("got %d items, total %d", len(list), total)
	}
}

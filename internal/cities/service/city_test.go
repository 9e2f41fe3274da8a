package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	citieserrors "gather/internal/cities/errors"
	"gather/internal/cities/validator"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	apperrors "gather/pkg/errors"
	"gather/pkg/logger"
)

type mockCityRepository struct {
	createFunc     func(ctx context.Context, doc bson.M) (string, error)
	findByIDFunc   func(ctx context.Context, id string) (bson.M, error)
	findBySlugFunc func(ctx context.Context, slug string) (bson.M, error)
	setFieldsFunc  func(ctx context.Context, id string, fields bson.M) error
}

func (m *mockCityRepository) Create(ctx context.Context, doc bson.M) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	return "65a1f0c2e4b0a1b2c3d4e5f6", nil
}

func (m *mockCityRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", citieserrors.ErrNotFound, id)
}

func (m *mockCityRepository) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	if m.findBySlugFunc != nil {
		return m.findBySlugFunc(ctx, slug)
	}
	return nil, fmt.Errorf("%w: %s", citieserrors.ErrNotFound, slug)
}

func (m *mockCityRepository) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return []bson.M{}, nil
}

func (m *mockCityRepository) SetFields(ctx context.Context, id string, fields bson.M) error {
	if m.setFieldsFunc != nil {
		return m.setFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *mockCityRepository) AddCommunity(ctx context.Context, cityID, communityID string) error {
	return nil
}

func (m *mockCityRepository) RemoveCommunity(ctx context.Context, cityID, communityID string) error {
	return nil
}

func (m *mockCityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockCityRepository) CityService {
	log := logger.Nop()
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewCityService(repo, validator.NewCityValidator(log), cfg)
}

func TestCreate_StoresMergedDocument(t *testing.T) {
	var stored bson.M
	repo := &mockCityRepository{
		createFunc: func(ctx context.Context, doc bson.M) (string, error) {
			stored = doc
			return "65a1f0c2e4b0a1b2c3d4e5f6", nil
		},
	}
	svc := newTestService(repo)

	city, err := svc.Create(context.Background(), map[string]any{
		"name":  "Provo",
		"_id":   "client-chosen",
		"state": "UT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := stored["_id"]; ok {
		t.Error("client supplied _id must not be stored")
	}
	if stored["slug"] != "provo" {
		t.Errorf("slug = %v, want provo", stored["slug"])
	}
	if _, ok := stored["location"].(map[string]any); !ok {
		t.Errorf("expected template location object, got %T", stored["location"])
	}
	if city["id"] != "65a1f0c2e4b0a1b2c3d4e5f6" {
		t.Errorf("response id = %v", city["id"])
	}
	if city["state"] != "UT" {
		t.Errorf("state = %v, want UT", city["state"])
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		repoErr  error
		wantCode string
	}{
		{"array body", []any{1.0}, nil, apperrors.CodeInvalidArgumentType},
		{"wrong nested type", map[string]any{"name": "Provo", "contact": "none"}, nil, apperrors.CodeInvalidArgumentType},
		{"missing name", map[string]any{"state": "UT"}, nil, apperrors.CodeValidation},
		{"slug clash", map[string]any{"name": "Provo"}, fmt.Errorf("%w: provo", citieserrors.ErrSlugTaken), apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCityRepository{
				createFunc: func(ctx context.Context, doc bson.M) (string, error) {
					return "", tt.repoErr
				},
			}
			_, err := newTestService(repo).Create(context.Background(), tt.body)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestGetBySlug_NotFound(t *testing.T) {
	_, err := newTestService(&mockCityRepository{}).GetBySlug(context.Background(), "nowhere")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdate_MergesPatchAndBackfills(t *testing.T) {
	oid := primitive.NewObjectID()
	var set bson.M
	repo := &mockCityRepository{
		findByIDFunc: func(ctx context.Context, id string) (bson.M, error) {
			return bson.M{
				"_id":         oid,
				"name":        "Provo",
				"slug":        "provo",
				"communities": bson.A{"c1"},
			}, nil
		},
		setFieldsFunc: func(ctx context.Context, id string, fields bson.M) error {
			set = fields
			return nil
		},
	}

	city, err := newTestService(repo).Update(context.Background(), oid.Hex(), map[string]any{
		"visibility": true,
		"links":      []any{"https://provo.example"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set["visibility"] != true {
		t.Errorf("visibility = %v, want true", set["visibility"])
	}
	if _, ok := set["images"].(map[string]any); !ok {
		t.Errorf("expected images backfilled from template, got %v", set["images"])
	}
	if communities, ok := city["communities"].([]any); !ok || len(communities) != 1 {
		t.Errorf("existing communities must be kept, got %v", city["communities"])
	}
	if city["id"] != oid.Hex() {
		t.Errorf("response id = %v, want %s", city["id"], oid.Hex())
	}
}

func TestCreate_IgnoresClientCommunities(t *testing.T) {
	var stored bson.M
	repo := &mockCityRepository{
		createFunc: func(ctx context.Context, doc bson.M) (string, error) {
			stored = doc
			return "65a1f0c2e4b0a1b2c3d4e5f6", nil
		},
	}

	_, err := newTestService(repo).Create(context.Background(), map[string]any{
		"name":        "Provo",
		"communities": []any{"not-a-community"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	communities, ok := stored["communities"].([]any)
	if !ok || len(communities) != 0 {
		t.Errorf("communities = %v, want empty", stored["communities"])
	}
}

func TestUpdate_NeverWritesCommunities(t *testing.T) {
	oid := primitive.NewObjectID()
	var set bson.M
	repo := &mockCityRepository{
		findByIDFunc: func(ctx context.Context, id string) (bson.M, error) {
			return bson.M{
				"_id":         oid,
				"name":        "Provo",
				"slug":        "provo",
				"communities": bson.A{"c1", "c2"},
			}, nil
		},
		setFieldsFunc: func(ctx context.Context, id string, fields bson.M) error {
			set = fields
			return nil
		},
	}

	city, err := newTestService(repo).Update(context.Background(), oid.Hex(), map[string]any{
		"name":        "Provo City",
		"communities": []any{"bogus"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := set["communities"]; ok {
		t.Errorf("communities must not be written by an update, got %v", set["communities"])
	}
	if _, ok := set["_id"]; ok {
		t.Error("_id must not be written by an update")
	}
	if set["name"] != "Provo City" {
		t.Errorf("name = %v, want Provo City", set["name"])
	}
	communities, ok := city["communities"].([]any)
	if !ok || len(communities) != 2 || communities[0] != "c1" || communities[1] != "c2" {
		t.Errorf("response communities = %v, want [c1 c2]", city["communities"])
	}
}

func TestUpdate_InvalidPatchShape(t *testing.T) {
	repo := &mockCityRepository{
		findByIDFunc: func(ctx context.Context, id string) (bson.M, error) {
			return bson.M{"name": "Provo", "slug": "provo"}, nil
		},
	}

	_, err := newTestService(repo).Update(context.Background(), "x", map[string]any{"location": []any{1.0}})
	if !apperrors.HasCode(err, apperrors.CodeInvalidArgumentType) {
		t.Errorf("expected INVALID_ARGUMENT_TYPE, got %v", err)
	}
}

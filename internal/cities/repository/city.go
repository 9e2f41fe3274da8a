package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	citieserrors "gather/internal/cities/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	"gather/pkg/identifier"
	"gather/pkg/model"
)

const (
	CollectionName = "cities"
)

type CityRepository interface {
	Create(ctx context.Context, doc bson.M) (string, error)
	FindByID(ctx context.Context, id string) (bson.M, error)
	FindBySlug(ctx context.Context, slug string) (bson.M, error)
	FindByIDs(ctx context.Context, ids []any) ([]bson.M, error)
	// SetFields writes fields onto the city without touching other keys.
	SetFields(ctx context.Context, id string, fields bson.M) error
	// AddCommunity records communityID in the city's communities array once.
	AddCommunity(ctx context.Context, cityID, communityID string) error
	RemoveCommunity(ctx context.Context, cityID, communityID string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCityRepository struct {
	store     *mongotx.DocumentStore
	txManager mongotx.TransactionManager
}

func NewMongoCityRepository(cfg *config.Config) CityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCityRepository{
		store:     mongotx.NewDocumentStore(db, CollectionName, cfg.ReadTimeout, cfg.WriteTimeout),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoCityRepository) Create(ctx context.Context, doc bson.M) (string, error) {
	id, err := r.store.Insert(ctx, doc)
	if err != nil {
		return "", mapStoreError(err, fmt.Sprint(doc[model.FieldSlug]))
	}
	return identifier.String(id), nil
}

func (r *mongoCityRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	doc, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return doc, nil
}

func (r *mongoCityRepository) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	doc, err := r.store.FindOne(ctx, bson.M{model.FieldSlug: slug})
	if err != nil {
		return nil, mapStoreError(err, slug)
	}
	return doc, nil
}

func (r *mongoCityRepository) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return r.store.FindByIDs(ctx, ids)
}

func (r *mongoCityRepository) SetFields(ctx context.Context, id string, fields bson.M) error {
	filter, err := identifier.IDFilter(id)
	if err != nil {
		return fmt.Errorf("%w: %s", citieserrors.ErrNotFound, id)
	}
	delete(fields, model.FieldID)
	delete(fields, model.FieldCommunities)
	return mapStoreError(r.store.Update(ctx, filter, bson.M{"$set": fields}), id)
}

func (r *mongoCityRepository) AddCommunity(ctx context.Context, cityID, communityID string) error {
	filter, err := identifier.IDFilter(cityID)
	if err != nil {
		return err
	}
	update := bson.M{
		"$addToSet": bson.M{model.FieldCommunities: communityID},
		"$set":      bson.M{model.FieldUpdatedAt: time.Now().UTC()},
	}
	return mapStoreError(r.store.Update(ctx, filter, update), cityID)
}

func (r *mongoCityRepository) RemoveCommunity(ctx context.Context, cityID, communityID string) error {
	filter, err := identifier.IDFilter(cityID)
	if err != nil {
		return err
	}
	update := bson.M{
		"$pull": bson.M{model.FieldCommunities: communityID},
		"$set":  bson.M{model.FieldUpdatedAt: time.Now().UTC()},
	}
	return mapStoreError(r.store.Update(ctx, filter, update), cityID)
}

func (r *mongoCityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func mapStoreError(err error, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongotx.ErrDocumentNotFound):
		return fmt.Errorf("%w: %s", citieserrors.ErrNotFound, key)
	case errors.Is(err, mongotx.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", citieserrors.ErrSlugTaken, key)
	}
	return err
}

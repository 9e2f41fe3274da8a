package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	communitieserrors "gather/internal/communities/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	"gather/pkg/identifier"
	"gather/pkg/model"
)

const (
	CollectionName = "communities"
)

type CommunityRepository interface {
	Create(ctx context.Context, doc bson.M) (string, error)
	FindByID(ctx context.Context, id string) (bson.M, error)
	FindBySlug(ctx context.Context, slug string) (bson.M, error)
	FindByIDs(ctx context.Context, ids []any) ([]bson.M, error)
	FindByCity(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error)
	Replace(ctx context.Context, id string, doc bson.M) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoCommunityRepository struct {
	store     *mongotx.DocumentStore
	txManager mongotx.TransactionManager
}

func NewMongoCommunityRepository(cfg *config.Config) CommunityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCommunityRepository{
		store:     mongotx.NewDocumentStore(db, CollectionName, cfg.ReadTimeout, cfg.WriteTimeout),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoCommunityRepository) Create(ctx context.Context, doc bson.M) (string, error) {
	id, err := r.store.Insert(ctx, doc)
	if err != nil {
		return "", mapStoreError(err, fmt.Sprint(doc[model.FieldSlug]))
	}
	return identifier.String(id), nil
}

func (r *mongoCommunityRepository) FindByID(ctx context.Context, id string) (bson.M, error) {
	doc, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return doc, nil
}

func (r *mongoCommunityRepository) FindBySlug(ctx context.Context, slug string) (bson.M, error) {
	doc, err := r.store.FindOne(ctx, bson.M{model.FieldSlug: slug})
	if err != nil {
		return nil, mapStoreError(err, slug)
	}
	return doc, nil
}

func (r *mongoCommunityRepository) FindByIDs(ctx context.Context, ids []any) ([]bson.M, error) {
	return r.store.FindByIDs(ctx, ids)
}

func (r *mongoCommunityRepository) FindByCity(ctx context.Context, cityID string, limit int, offset int64) ([]bson.M, int64, error) {
	filter := bson.M{model.FieldCityID: cityID}

	total, err := r.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	docs, err := r.store.Find(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *mongoCommunityRepository) Replace(ctx context.Context, id string, doc bson.M) error {
	key, ok := identifier.One(id)
	if !ok {
		return fmt.Errorf("%w: %s", communitieserrors.ErrNotFound, id)
	}
	return mapStoreError(r.store.Replace(ctx, key, doc), id)
}

func (r *mongoCommunityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func mapStoreError(err error, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongotx.ErrDocumentNotFound):
		return fmt.Errorf("%w: %s", communitieserrors.ErrNotFound, key)
	case errors.Is(err, mongotx.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", communitieserrors.ErrSlugTaken, key)
	}
	return err
}

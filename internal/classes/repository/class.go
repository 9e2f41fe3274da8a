package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	classeserrors "gather/internal/classes/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	"gather/pkg/model"
)

const (
	CollectionName = "classes"
)

type ClassRepository interface {
	Create(ctx context.Context, c *model.Class) error
	FindByID(ctx context.Context, id string) (*model.Class, error)
	FindByCommunity(ctx context.Context, communityID string, limit int, offset int64) ([]*model.Class, error)
	CountByCommunity(ctx context.Context, communityID string) (int64, error)
	// AddSignup appends s unless the class already holds capacity active
	// signups. A capacity of zero means unlimited.
	AddSignup(ctx context.Context, classID string, s model.Signup, capacity int) (bool, error)
	CancelSignup(ctx context.Context, classID, signupID string, at time.Time) error
}

type mongoClassRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoClassRepository(cfg *config.Config) ClassRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClassRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoClassRepository) Create(ctx context.Context, c *model.Class) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if c.Signups == nil {
		c.Signups = []model.Signup{}
	}

	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return nil
}

func (r *mongoClassRepository) FindByID(ctx context.Context, id string) (*model.Class, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", classeserrors.ErrInvalidID, id)
	}

	var c model.Class
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", classeserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find class: %w", err)
	}
	return &c, nil
}

func (r *mongoClassRepository) FindByCommunity(ctx context.Context, communityID string, limit int, offset int64) ([]*model.Class, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "starts_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetProjection(bson.M{"signups": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"community_id": communityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer cursor.Close(ctx)

	classes := make([]*model.Class, 0)
	if err := cursor.All(ctx, &classes); err != nil {
		return nil, fmt.Errorf("failed to decode classes: %w", err)
	}
	return classes, nil
}

func (r *mongoClassRepository) CountByCommunity(ctx context.Context, communityID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"community_id": communityID})
	if err != nil {
		return 0, fmt.Errorf("failed to count classes: %w", err)
	}
	return count, nil
}

func (r *mongoClassRepository) AddSignup(ctx context.Context, classID string, s model.Signup, capacity int) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", classeserrors.ErrInvalidID, classID)
	}

	filter := bson.M{"_id": objectID}
	if capacity > 0 {
		// Counted server-side so concurrent signups cannot overfill the class.
		filter["$expr"] = bson.M{
			"$lt": bson.A{
				bson.M{"$size": bson.M{"$filter": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$signups", bson.A{}}},
					"as":    "s",
					"cond":  bson.M{"$not": bson.A{bson.M{"$ifNull": bson.A{"$$s.canceled_at", false}}}},
				}}},
				capacity,
			},
		}
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"signups": s}})
	if err != nil {
		return false, fmt.Errorf("failed to add signup: %w", err)
	}
	return result.MatchedCount == 1, nil
}

func (r *mongoClassRepository) CancelSignup(ctx context.Context, classID, signupID string, at time.Time) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return fmt.Errorf("%w: %s", classeserrors.ErrInvalidID, classID)
	}

	filter := bson.M{
		"_id": objectID,
		"signups": bson.M{"$elemMatch": bson.M{
			"id":          signupID,
			"canceled_at": bson.M{"$exists": false},
		}},
	}
	update := bson.M{"$set": bson.M{"signups.$.canceled_at": at}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel signup: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", classeserrors.ErrSignupNotFound, signupID)
	}
	return nil
}

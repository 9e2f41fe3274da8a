package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	donationserrors "gather/internal/donations/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	"gather/pkg/model"
)

const (
	CollectionName = "donations"
)

type DonationRepository interface {
	Create(ctx context.Context, d *model.Donation) error
	FindByID(ctx context.Context, id string) (*model.Donation, error)
}

type mongoDonationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDonationRepository(cfg *config.Config) DonationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDonationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDonationRepository) Create(ctx context.Context, d *model.Donation) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	d.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDonationRepository) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", donationserrors.ErrInvalidID, id)
	}

	var d model.Donation
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", donationserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}
	return &d, nil
}

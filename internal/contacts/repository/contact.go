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

	contactserrors "gather/internal/contacts/errors"
	"gather/pkg/config"
	mongotx "gather/pkg/db/mongo"
	"gather/pkg/identifier"
	"gather/pkg/model"
)

const (
	CollectionName = "contacts"
)

type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	FindByIDs(ctx context.Context, ids []any) ([]*model.Contact, error)
	Update(ctx context.Context, id string, c *model.Contact) error
	Delete(ctx context.Context, id string) error

	// FindOwnedWithPhone returns a user's private contacts sharing phoneDigits.
	FindOwnedWithPhone(ctx context.Context, ownerID, phoneDigits string) ([]*model.Contact, error)
	// FindScopedWithPhone returns community or city contacts under any of
	// scopeIDs sharing phoneDigits.
	FindScopedWithPhone(ctx context.Context, scope string, scopeIDs []string, phoneDigits string) ([]*model.Contact, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoContactRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoContactRepository(cfg *config.Config) ContactRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoContactRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoContactRepository) Create(ctx context.Context, c *model.Contact) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	c.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}

	return nil
}

func (r *mongoContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	var c model.Contact
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	return &c, nil
}

func (r *mongoContactRepository) FindByIDs(ctx context.Context, ids []any) ([]*model.Contact, error) {
	filter, err := identifier.InFilter("_id", ids)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *mongoContactRepository) FindOwnedWithPhone(ctx context.Context, ownerID, phoneDigits string) ([]*model.Contact, error) {
	filter := bson.M{
		"scope":        model.ScopeUser,
		"owner_id":     ownerID,
		"phone_digits": phoneDigits,
	}
	return r.find(ctx, filter, options.Find())
}

func (r *mongoContactRepository) FindScopedWithPhone(ctx context.Context, scope string, scopeIDs []string, phoneDigits string) ([]*model.Contact, error) {
	if len(scopeIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"scope":        scope,
		"scope_id":     bson.M{"$in": scopeIDs},
		"phone_digits": phoneDigits,
	}
	return r.find(ctx, filter, options.Find())
}

func (r *mongoContactRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Contact, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*model.Contact
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return results, nil
}

func (r *mongoContactRepository) Update(ctx context.Context, id string, c *model.Contact) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"first_name":   c.FirstName,
			"last_name":    c.LastName,
			"phone":        c.Phone,
			"phone_digits": c.PhoneDigits,
			"email":        c.Email,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", contactserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoContactRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gather/pkg/identifier"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDuplicateKey     = errors.New("duplicate key")
)

// WithTimeout bounds ctx by timeout unless it is a transaction session,
// which must be passed through untouched.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}

	return context.WithTimeout(ctx, timeout)
}

// DocumentStore is find/insert/update over one collection of free-form
// documents, keyed by either ObjectID or string ids.
type DocumentStore struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewDocumentStore(db *mongo.Database, collection string, readTimeout, writeTimeout time.Duration) *DocumentStore {
	return &DocumentStore{
		collection:   db.Collection(collection),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (s *DocumentStore) Name() string {
	return s.collection.Name()
}

func (s *DocumentStore) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	var doc bson.M
	if err := s.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find %s document: %w", s.Name(), err)
	}
	return doc, nil
}

func (s *DocumentStore) FindByID(ctx context.Context, id string) (bson.M, error) {
	filter, err := identifier.IDFilter(id)
	if err != nil {
		return nil, err
	}
	return s.FindOne(ctx, filter)
}

// FindByIDs returns the documents matching raw ids in storage order. Raw ids
// are normalized first; an empty normalized set is an InvalidInput error.
func (s *DocumentStore) FindByIDs(ctx context.Context, raw []any) ([]bson.M, error) {
	filter, err := identifier.InFilter("_id", raw)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, filter, 0, 0)
}

func (s *DocumentStore) Find(ctx context.Context, filter bson.M, limit int, offset int64) ([]bson.M, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]bson.M, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.Name(), err)
	}
	return docs, nil
}

func (s *DocumentStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := WithTimeout(ctx, s.readTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.Name(), err)
	}
	return count, nil
}

// Insert stores doc and returns its id, generated when doc has none.
func (s *DocumentStore) Insert(ctx context.Context, doc bson.M) (any, error) {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, s.Name())
		}
		return nil, fmt.Errorf("failed to insert %s document: %w", s.Name(), err)
	}
	return result.InsertedID, nil
}

// Replace overwrites the document with the given _id.
func (s *DocumentStore) Replace(ctx context.Context, id any, doc bson.M) error {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, s.Name())
		}
		return fmt.Errorf("failed to replace %s document: %w", s.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) Update(ctx context.Context, filter bson.M, update bson.M) error {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, s.Name())
		}
		return fmt.Errorf("failed to update %s document: %w", s.Name(), err)
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, id any) error {
	ctx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s document: %w", s.Name(), err)
	}
	if result.DeletedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

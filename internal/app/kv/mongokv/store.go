// Package mongokv is a MongoDB-backed kv.Backend. Each logical key is a
// document in the "kv" collection; a batch runs in one multi-document
// transaction when the deployment supports it.
package mongokv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/planboard/internal/app/kv"
	"github.com/dalemusser/planboard/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CollectionName is the collection holding key-value documents.
const CollectionName = "kv"

type entryDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store is a kv.Backend over one Mongo collection.
type Store struct {
	client *mongo.Client
	c      *mongo.Collection
	log    *zap.Logger
}

var _ kv.Backend = (*Store)(nil)

// New creates a store over db's kv collection.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: db.Client(), c: db.Collection(CollectionName), log: logger}
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc entryDoc
	err := s.c.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(doc.Value), true, nil
}

// Write applies entries atomically on replica sets. On a standalone server
// it falls back to a single ordered bulk write.
func (s *Store) Write(ctx context.Context, entries []kv.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := writeModels(entries, time.Now().UTC())

	sess, err := s.client.StartSession()
	if err != nil {
		if txn.IsNotSupported(err) {
			return s.bulk(ctx, models)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return s.c.BulkWrite(sc, models, options.BulkWrite().SetOrdered(true))
	})
	if err == nil {
		return nil
	}
	if txn.IsNotSupported(err) {
		s.log.Debug("transactions unavailable, writing kv batch without one", zap.Error(err))
		return s.bulk(ctx, models)
	}
	return fmt.Errorf("kv batch: %w", err)
}

func (s *Store) bulk(ctx context.Context, models []mongo.WriteModel) error {
	if _, err := s.c.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("kv bulk write: %w", err)
	}
	return nil
}

func writeModels(entries []kv.Entry, now time.Time) []mongo.WriteModel {
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		if e.Delete {
			models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": e.Key}))
			continue
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.Key}).
			SetReplacement(entryDoc{Key: e.Key, Value: string(e.Value), UpdatedAt: now}).
			SetUpsert(true))
	}
	return models
}

// Keys lists keys beginning with prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": prefixPattern(prefix)}}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Key)
	}
	return out, cur.Err()
}

func prefixPattern(prefix string) string {
	return "^" + regexp.QuoteMeta(prefix)
}

// Close is a no-op; the client is owned by the caller.
func (s *Store) Close() error { return nil }

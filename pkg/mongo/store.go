package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const expiresAtIndex = "expires_at_ttl"

type sessionDocument struct {
	Key       string            `bson:"_id"`
	Data      map[string]string `bson:"data"`
	ExpiresAt *time.Time        `bson:"expires_at"`
}

// Store implements session.Store on a collection holding one document per
// session. The server's TTL monitor removes expired documents; until it runs
// they are filtered out by Get.
type Store struct {
	coll   *mongo.Collection
	prefix session.KeyPrefix
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyPrefix namespaces session keys.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) { s.prefix = session.KeyPrefix(prefix) }
}

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over coll.
func NewStore(coll *mongo.Collection, opts ...StoreOption) *Store {
	s := &Store{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromConfig creates a Store on the configured database and collection.
func NewStoreFromConfig(client *mongo.Client, cfg Config) *Store {
	return NewStore(
		client.Database(cfg.Database).Collection(cfg.Collection),
		WithKeyPrefix(cfg.KeyPrefix),
	)
}

// EnsureIndexes creates the TTL index on expires_at. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName(expiresAtIndex).SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	filter := bson.M{
		"_id": s.prefix.Key(id),
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": s.now()}},
		},
	}

	var doc sessionDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}

	if doc.Data == nil {
		return session.Values{}, nil
	}
	return session.Values(doc.Data), nil
}

// Set replaces the document and clears its expiry.
func (s *Store) Set(ctx context.Context, id string, data session.Values) error {
	if data == nil {
		data = session.Values{}
	}
	key := s.prefix.Key(id)
	doc := sessionDocument{Key: key, Data: data}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.prefix.Key(id)}); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Expire sets expires_at to now+ttl. Missing documents are left alone.
func (s *Store) Expire(ctx context.Context, id string, ttl time.Duration) error {
	update := bson.M{"$set": bson.M{"expires_at": s.now().Add(ttl)}}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.prefix.Key(id)}, update); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// ClearAll deletes every document under the prefix, or the whole collection
// without one.
func (s *Store) ClearAll(ctx context.Context) error {
	filter := bson.M{}
	if s.prefix != "" {
		filter = bson.M{"_id": bson.Regex{Pattern: "^" + regexp.QuoteMeta(string(s.prefix))}}
	}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Collection returns the underlying collection.
func (s *Store) Collection() *mongo.Collection {
	return s.coll
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const defaultScanBatchSize = 1000

// Store implements session.Store over any go-redis client: single node,
// cluster or sentinel. Values are stored as a JSON object per key.
type Store struct {
	db            redis.UniversalClient
	prefix        session.KeyPrefix
	scanBatchSize int64
}

// NewStore creates a session store whose keys are prefixed with prefix.
func NewStore(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		db:            client,
		prefix:        session.KeyPrefix(prefix),
		scanBatchSize: defaultScanBatchSize,
	}
}

// NewStoreFromConfig creates a store using the prefix and scan batch size from cfg.
func NewStoreFromConfig(client redis.UniversalClient, cfg Config) *Store {
	s := NewStore(client, cfg.KeyPrefix)
	if cfg.ScanBatchSize > 0 {
		s.scanBatchSize = cfg.ScanBatchSize
	}
	return s
}

func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	raw, err := s.db.Get(ctx, s.prefix.Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}

	var data session.Values
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(session.ErrSerialization, err)
	}
	if data == nil {
		data = session.Values{}
	}
	return data, nil
}

// Set replaces the stored value. Any previous TTL is cleared.
func (s *Store) Set(ctx context.Context, id string, data session.Values) error {
	if data == nil {
		data = session.Values{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(session.ErrSerialization, err)
	}
	if err := s.db.Set(ctx, s.prefix.Key(id), raw, 0).Err(); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.db.Del(ctx, s.prefix.Key(id)).Err(); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Expire sets the key TTL. Expiring a missing key is a no-op.
func (s *Store) Expire(ctx context.Context, id string, ttl time.Duration) error {
	if err := s.db.Expire(ctx, s.prefix.Key(id), ttl).Err(); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// ClearAll deletes every session key. With a prefix only matching keys are
// removed via SCAN; without one the whole database is flushed. On a cluster
// every master is visited.
func (s *Store) ClearAll(ctx context.Context) error {
	var err error
	if cluster, ok := s.db.(*redis.ClusterClient); ok {
		err = cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return s.clearNode(ctx, node)
		})
	} else {
		err = s.clearNode(ctx, s.db)
	}
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) clearNode(ctx context.Context, node redis.Cmdable) error {
	if s.prefix == "" {
		return node.FlushDB(ctx).Err()
	}

	match := s.prefix.Key("*")
	var cursor uint64
	for {
		keys, next, err := node.Scan(ctx, cursor, match, s.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			// one DEL per key keeps cluster nodes free of CROSSSLOT errors
			pipe := node.Pipeline()
			for _, key := range keys {
				pipe.Del(ctx, key)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.UniversalClient {
	return s.db
}

// Close terminates the Redis connection.
func (s *Store) Close() error {
	return s.db.Close()
}

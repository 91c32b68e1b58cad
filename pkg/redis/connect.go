package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a client for the configured topology and pings it until it
// answers, retrying up to RetryAttempts times RetryInterval apart.
//
// Returns ErrFailedToParseRedisConnString for an invalid URL, ErrUnknownMode,
// ErrMissingAddrs or ErrMissingMasterName for incomplete configuration, and
// ErrRedisNotReady when every attempt fails.
func Connect(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for attempt := range attempts {
		client, err := newClient(cfg)
		if err != nil {
			return nil, err
		}

		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrRedisNotReady, lastErr)
}

func newClient(cfg Config) (redis.UniversalClient, error) {
	switch cfg.Mode {
	case "", ModeSingle:
		opts, err := redis.ParseURL(cfg.ConnectionURL)
		if err != nil {
			return nil, errors.Join(ErrFailedToParseRedisConnString, err)
		}
		return redis.NewClient(opts), nil

	case ModeCluster:
		if len(cfg.Addrs) == 0 {
			return nil, ErrMissingAddrs
		}
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		}), nil

	case ModeSentinel:
		if len(cfg.Addrs) == 0 {
			return nil, ErrMissingAddrs
		}
		if cfg.MasterName == "" {
			return nil, ErrMissingMasterName
		}
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.Addrs,
			Password:      cfg.Password,
			DB:            cfg.DB,
		}), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// backend is a connected session store plus what the process needs to run
// and stop it.
type backend struct {
	name   string
	store  session.Store
	checks []httpserver.Check
	jobs   []func(context.Context)
	close  func()
}

func openBackend(ctx context.Context, name string, log *slog.Logger) (*backend, error) {
	log = log.With(logger.Component("backend"), logger.Store(name))

	switch name {
	case "", "memory":
		store := session.NewMemoryStore(session.WithCleanupInterval(time.Minute))
		return &backend{
			name:  "memory",
			store: store,
			close: func() { _ = store.Close() },
		}, nil

	case "redis":
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.InfoContext(ctx, "connected", slog.String("mode", string(cfg.Mode)))
		store := redis.NewStoreFromConfig(client, cfg)
		return &backend{
			name:   name,
			store:  store,
			checks: []httpserver.Check{{Name: name, Fn: redis.Healthcheck(client)}},
			close:  func() { _ = store.Close() },
		}, nil

	case "postgres":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
			pool.Close()
			return nil, err
		}
		log.InfoContext(ctx, "connected")
		store := pg.NewStore(pool, pg.WithKeyPrefix(cfg.KeyPrefix))
		return &backend{
			name:   name,
			store:  store,
			checks: []httpserver.Check{{Name: name, Fn: pg.Healthcheck(pool)}},
			jobs: []func(context.Context){
				func(ctx context.Context) { store.RunCleanup(ctx, cfg.CleanupInterval, log) },
			},
			close: pool.Close,
		}, nil

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := mongo.NewStoreFromConfig(client, cfg)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}
		log.InfoContext(ctx, "connected", slog.String("database", cfg.Database))
		return &backend{
			name:   name,
			store:  store,
			checks: []httpserver.Check{{Name: name, Fn: mongo.Healthcheck(client)}},
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", name)
	}
}

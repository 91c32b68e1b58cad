// Package redis connects to Redis and provides a session.Store on top of it.
//
// Connect builds a go-redis UniversalClient for single node, cluster or
// sentinel deployments and retries the initial ping. Store persists each
// session as a JSON object under a prefixed key and relies on Redis key
// expiry for TTLs.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := redis.NewStoreFromConfig(client, cfg)
//	manager, err := session.New(session.WithStore(store))
//
// Healthcheck returns a probe suitable for httpserver.ReadinessHandler.
package redis

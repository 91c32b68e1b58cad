// Package mongo provides MongoDB connection management and a session store.
//
// New connects with retry and pool settings from environment-driven Config.
// Store keeps one document per session:
//
//	{ _id: "<prefix><id>", data: { ... }, expires_at: ISODate | null }
//
// Set replaces the document with expires_at null. Expire sets expires_at to
// now plus the TTL. EnsureIndexes creates a TTL index so the server removes
// expired documents; Get ignores them until it does.
//
// # Usage
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Disconnect(context.Background())
//
//	store := mongo.NewStoreFromConfig(client, cfg)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
//
//	mgr, err := session.New(session.WithStore(store))
//
// Driver errors are joined with session.ErrStoreUnavailable; a missing or
// expired document is reported as session.ErrSessionNotFound.
package mongo

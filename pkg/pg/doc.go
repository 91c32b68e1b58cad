// Package pg stores sessions in PostgreSQL using pgx/v5.
//
// Connect opens a pgxpool with retry, Migrate applies the embedded goose
// migration that creates the sessions table, and Store implements
// session.Store on top of it. Each session is one row: the key, a JSONB
// object of values, and a nullable expires_at. Rows past expires_at are
// ignored by Get and deleted by DeleteExpired, which RunCleanup calls on a
// ticker.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	store := pg.NewStore(pool, pg.WithKeyPrefix(cfg.KeyPrefix))
//	go store.RunCleanup(ctx, cfg.CleanupInterval, log)
package pg

// Package session implements a cookie-keyed server-side session lifecycle.
//
// A request carries at most one session id in a cookie. At the start of the
// request the Engine loads the record for that id from a Store; an absent
// cookie, an unknown id or a failing store all yield a fresh record under a
// newly generated id. Handlers read and mutate the record through its typed
// accessors. When the response starts the Engine finalizes the record: its
// Status decides which store operations run, and the session cookie is
// reissued on every response.
//
//	Status        store operations           cookie
//	Unchanged     none, or Expire on touch   reissued
//	Changed       Remove, Set, Expire        reissued
//	Cleared       Remove                     reissued
//	Destroyed     Remove                     reissued
//	ExpiredTouch  Expire                     reissued
//
// Persistence is fire-and-forget. Store errors are logged and never reach the
// client, so a request always receives its response.
//
// # Usage
//
//	manager, err := session.New(
//	    session.WithStore(redis.NewStore(client, "sess:")),
//	    session.WithRefreshStrategy(session.PersistentStorage(24*time.Hour)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	r.Use(manager.Middleware)
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    n, _ := sess.GetInt("visits")
//	    _ = sess.Set("visits", n+1)
//	})
//
// # Stores
//
// MemoryStore ships with this package. Redis, PostgreSQL and MongoDB stores
// live in the pkg/redis, pkg/pg and pkg/mongo packages. All of them namespace
// ids through KeyPrefix.
//
// # Configuration
//
// Config can be loaded from SESSION_* environment variables with
// pkg/config. Refresh and IDStrategy accept text forms such as
// "persistent:24h" and "sha256:64".
package session

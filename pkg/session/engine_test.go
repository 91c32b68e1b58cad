package session_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

var errBackendDown = errors.New("connection refused")

func newTestEngine(t *testing.T, store session.Store, mutate ...func(*session.Config)) *session.Engine {
	t.Helper()
	cfg := session.DefaultConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}
	engine, err := session.NewEngine(store, cfg, nil, session.WithEngineIDGenerator(&sequentialIDs{}))
	require.NoError(t, err)
	return engine
}

func opKinds(plan session.Plan) []session.OpKind {
	kinds := make([]session.OpKind, 0, len(plan.Ops))
	for _, op := range plan.Ops {
		kinds = append(kinds, op.Kind)
	}
	return kinds
}

func TestNewEngine(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := session.NewEngine(nil, session.DefaultConfig(), nil)
		assert.ErrorIs(t, err, session.ErrNoStore)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := session.DefaultConfig()
		cfg.IDStrategy = session.RandomNumeric(10)
		_, err := session.NewEngine(session.NewMemoryStore(), cfg, nil)
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})
}

func TestEngine_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("no cookie creates a changed record", func(t *testing.T) {
		engine := newTestEngine(t, session.NewMemoryStore())
		rec := engine.Load(ctx, "")
		assert.Equal(t, "id-1", rec.ID())
		assert.Equal(t, session.StatusChanged, rec.Status())
		assert.Zero(t, rec.Len())
	})

	t.Run("known id loads unchanged", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Set(ctx, "abc", session.Values{"user": `"ann"`}))
		engine := newTestEngine(t, store)

		rec := engine.Load(ctx, "abc")
		assert.Equal(t, "abc", rec.ID())
		assert.Equal(t, session.StatusUnchanged, rec.Status())
		name, _ := rec.GetString("user")
		assert.Equal(t, "ann", name)
	})

	t.Run("unknown id gets a new id", func(t *testing.T) {
		engine := newTestEngine(t, session.NewMemoryStore())
		rec := engine.Load(ctx, "stale")
		assert.Equal(t, "id-1", rec.ID())
		assert.Equal(t, session.StatusChanged, rec.Status())
	})

	t.Run("store failure degrades to a new session", func(t *testing.T) {
		store := &MockStore{}
		store.On("Get", mock.Anything, "abc").Return(nil, errBackendDown)
		engine := newTestEngine(t, store)

		rec := engine.Load(ctx, "abc")
		assert.Equal(t, "id-1", rec.ID())
		assert.Equal(t, session.StatusChanged, rec.Status())
		store.AssertExpectations(t)
	})

	t.Run("mutations do not leak into the store", func(t *testing.T) {
		store := session.NewMemoryStore()
		require.NoError(t, store.Set(ctx, "abc", session.Values{"n": `1`}))
		engine := newTestEngine(t, store)

		rec := engine.Load(ctx, "abc")
		require.NoError(t, rec.Set("n", 2))

		stored, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, `1`, stored["n"])
	})
}

func TestEngine_Finalize(t *testing.T) {
	ctx := context.Background()
	ttl := session.DefaultConfig().ExpireTime

	tests := []struct {
		name       string
		autoExpire bool
		mutate     func(*session.Record)
		wantStatus session.Status
		wantOps    []session.OpKind
	}{
		{
			name:       "unchanged with auto expire",
			autoExpire: true,
			mutate:     func(*session.Record) {},
			wantStatus: session.StatusExpiredTouch,
			wantOps:    []session.OpKind{session.OpExpire},
		},
		{
			name:       "unchanged without auto expire",
			autoExpire: false,
			mutate:     func(*session.Record) {},
			wantStatus: session.StatusUnchanged,
			wantOps:    []session.OpKind{},
		},
		{
			name:       "changed",
			autoExpire: true,
			mutate:     func(r *session.Record) { _ = r.Set("k", "v") },
			wantStatus: session.StatusChanged,
			wantOps:    []session.OpKind{session.OpRemove, session.OpSet, session.OpExpire},
		},
		{
			name:       "cleared",
			autoExpire: true,
			mutate:     func(r *session.Record) { r.Clear() },
			wantStatus: session.StatusCleared,
			wantOps:    []session.OpKind{session.OpRemove},
		},
		{
			name:       "destroyed",
			autoExpire: true,
			mutate:     func(r *session.Record) { r.Destroy() },
			wantStatus: session.StatusDestroyed,
			wantOps:    []session.OpKind{session.OpRemove},
		},
	}

	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemoryStore()
			require.NoError(t, store.Set(ctx, "abc", session.Values{"a": `1`}))

			cfg := session.DefaultConfig()
			cfg.CookieName = "sid"
			cfg.Domain = "example.com"
			cfg.Path = "/app"
			cfg.Secure = false
			cfg.SameSite = http.SameSiteStrictMode
			cfg.MaxAge = 30 * time.Minute
			cfg.Refresh = session.PersistentStorage(24 * time.Hour)
			cfg.AutoExpire = tt.autoExpire
			engine, err := session.NewEngine(store, cfg, nil,
				session.WithEngineIDGenerator(&sequentialIDs{}),
				session.WithEngineClock(func() time.Time { return now }),
			)
			require.NoError(t, err)

			rec := engine.Load(ctx, "abc")
			tt.mutate(rec)
			plan := engine.Finalize(rec)

			assert.Equal(t, tt.wantStatus, rec.Status())
			assert.Equal(t, tt.wantOps, opKinds(plan))
			for _, op := range plan.Ops {
				assert.Equal(t, "abc", op.ID)
				if op.Kind == session.OpExpire {
					assert.Equal(t, ttl, op.TTL)
				}
			}
			c := plan.Cookie
			require.NotNil(t, c)
			assert.Equal(t, "sid", c.Name)
			assert.Equal(t, "abc", c.Value)
			assert.Equal(t, "example.com", c.Domain)
			assert.Equal(t, "/app", c.Path)
			assert.False(t, c.Secure)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.Equal(t, 1800, c.MaxAge)
			assert.Equal(t, now.Add(24*time.Hour), c.Expires)
			assert.NoError(t, c.Valid())
		})
	}

	t.Run("set op carries a snapshot", func(t *testing.T) {
		engine := newTestEngine(t, session.NewMemoryStore())
		rec := engine.Load(ctx, "")
		require.NoError(t, rec.Set("n", 1))

		plan := engine.Finalize(rec)
		require.Len(t, plan.Ops, 3)
		require.NoError(t, rec.Set("n", 2))
		assert.Equal(t, session.Values{"n": `1`}, plan.Ops[1].Data)
	})

	t.Run("nil record", func(t *testing.T) {
		engine := newTestEngine(t, session.NewMemoryStore())
		plan := engine.Finalize(nil)
		assert.Empty(t, plan.Ops)
		assert.Nil(t, plan.Cookie)
	})
}

func TestEngine_CookieAttributes(t *testing.T) {
	now := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	cfg := session.DefaultConfig()
	cfg.CookieName = "sid"
	cfg.Domain = "example.com"
	cfg.Path = "/app"
	cfg.MaxAge = 30 * time.Minute
	cfg.Refresh = session.PersistentStorage(24 * time.Hour)

	engine, err := session.NewEngine(session.NewMemoryStore(), cfg, nil,
		session.WithEngineIDGenerator(&sequentialIDs{}),
		session.WithEngineClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	plan := engine.Finalize(engine.Load(context.Background(), ""))
	c := plan.Cookie
	require.NotNil(t, c)
	assert.Equal(t, "sid", c.Name)
	assert.Equal(t, "id-1", c.Value)
	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "/app", c.Path)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, now.Add(24*time.Hour), c.Expires)
	assert.Equal(t, 1800, c.MaxAge)
}

// A first visit that writes data persists it under a new id.
func TestEngine_NewVisitorWrite(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	store := session.NewMemoryStore(session.WithMemoryClock(func() time.Time { return clock }))
	engine := newTestEngine(t, store, func(c *session.Config) { c.ExpireTime = time.Hour })

	rec := engine.Load(ctx, "")
	require.NoError(t, rec.Set("count", 1))
	c := engine.Commit(ctx, rec)

	require.NotNil(t, c)
	assert.Equal(t, "id-1", c.Value)

	stored, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, session.Values{"count": `1`}, stored)

	clock = clock.Add(time.Hour)
	_, err = store.Get(ctx, "id-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

// A read-only request refreshes the TTL and never rewrites the value.
func TestEngine_ReturningVisitorRead(t *testing.T) {
	ctx := context.Background()
	store := &MockStore{}
	store.On("Get", mock.Anything, "abc").Return(session.Values{"count": `3`}, nil)
	store.On("Expire", mock.Anything, "abc", session.DefaultConfig().ExpireTime).Return(nil)
	engine := newTestEngine(t, store)

	rec := engine.Load(ctx, "abc")
	n, ok := rec.GetInt("count")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	c := engine.Commit(ctx, rec)
	assert.Equal(t, "abc", c.Value)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

// A stale cookie is replaced by a fresh id.
func TestEngine_StaleCookie(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	engine := newTestEngine(t, store)

	rec := engine.Load(ctx, "expired-id")
	c := engine.Commit(ctx, rec)

	assert.Equal(t, "id-1", c.Value)
	_, err := store.Get(ctx, "expired-id")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	_, err = store.Get(ctx, "id-1")
	assert.NoError(t, err)
}

// Logout removes the record and still reissues the cookie.
func TestEngine_Destroy(t *testing.T) {
	ctx := context.Background()
	store := &MockStore{}
	store.On("Get", mock.Anything, "abc").Return(session.Values{"user": `"ann"`}, nil)
	store.On("Remove", mock.Anything, "abc").Return(nil)
	engine := newTestEngine(t, store)

	rec := engine.Load(ctx, "abc")
	rec.Destroy()
	c := engine.Commit(ctx, rec)

	assert.Equal(t, "abc", c.Value)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

// A failing store never prevents the response.
func TestEngine_StoreFailureDuringFinalize(t *testing.T) {
	ctx := context.Background()
	ttl := session.DefaultConfig().ExpireTime
	store := &MockStore{}
	store.On("Get", mock.Anything, "abc").Return(session.Values{}, nil)
	store.On("Remove", mock.Anything, "abc").Return(errBackendDown)
	store.On("Set", mock.Anything, "abc", session.Values{"k": `"v"`}).Return(errBackendDown)
	store.On("Expire", mock.Anything, "abc", ttl).Return(nil)
	engine := newTestEngine(t, store)

	rec := engine.Load(ctx, "abc")
	require.NoError(t, rec.Set("k", "v"))

	c := engine.Commit(ctx, rec)
	require.NotNil(t, c)
	assert.Equal(t, "abc", c.Value)
	store.AssertExpectations(t)
}

func TestPlan_ApplyContinuesAfterFailure(t *testing.T) {
	ctx := context.Background()
	store := &MockStore{}
	store.On("Remove", mock.Anything, "abc").Return(errBackendDown)
	store.On("Set", mock.Anything, "abc", session.Values{}).Return(nil)
	store.On("Expire", mock.Anything, "abc", time.Minute).Return(errBackendDown)

	plan := session.Plan{Ops: []session.Op{
		{Kind: session.OpRemove, ID: "abc"},
		{Kind: session.OpSet, ID: "abc", Data: session.Values{}},
		{Kind: session.OpExpire, ID: "abc", TTL: time.Minute},
	}}

	errs := plan.Apply(ctx, store)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], errBackendDown)
	assert.Contains(t, errs[0].Error(), "remove")
	assert.Contains(t, errs[1].Error(), "expire")
	store.AssertExpectations(t)
}

func TestEngine_ClearAll(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "a", session.Values{}))
	require.NoError(t, store.Set(ctx, "b", session.Values{}))
	engine := newTestEngine(t, store)

	require.NoError(t, engine.ClearAll(ctx))
	assert.Zero(t, store.Len())
}

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "remove", session.OpRemove.String())
	assert.Equal(t, "set", session.OpSet.String())
	assert.Equal(t, "expire", session.OpExpire.String())
	assert.Equal(t, "unknown", session.OpKind(0).String())
}

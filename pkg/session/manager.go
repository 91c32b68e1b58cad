package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Manager binds an Engine to a Transport for net/http handlers.
type Manager struct {
	engine        *Engine
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	ids           IDGenerator
	clock         func() time.Time
	log           *slog.Logger
	ownsStore     bool
}

// New creates a session manager with the given options.
// Without WithStore sessions are kept in a MemoryStore owned by the manager.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(WithCleanupInterval(time.Minute))
		m.ownsStore = true
	}

	engine, err := NewEngine(m.store, m.config, m.log,
		WithEngineIDGenerator(m.ids),
		WithEngineClock(m.clock),
	)
	if err != nil {
		if m.ownsStore {
			_ = m.closeStore()
		}
		return nil, err
	}
	m.engine = engine
	m.log = engine.log

	if m.transport == nil {
		m.transport = NewCookieTransport(m.config.CookieName, m.cookieManager)
	}

	return m, nil
}

// MustNew is like New but panics on invalid configuration
func MustNew(opts ...Option) *Manager {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Engine returns the underlying lifecycle engine
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Config returns the validated configuration
func (m *Manager) Config() Config {
	return m.config
}

// Load resolves the session for the request. It never fails.
func (m *Manager) Load(r *http.Request) *Record {
	token, err := m.transport.GetToken(r)
	if err != nil {
		token = ""
	}
	return m.engine.Load(r.Context(), token)
}

// Save finalizes rec, persists it and attaches the session token to w.
// Store failures are logged and swallowed; only a transport failure is returned.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, rec *Record) error {
	c := m.engine.Commit(ctx, rec)
	if c == nil {
		return nil
	}
	return m.transport.SetToken(w, c)
}

// ClearAll wipes every stored session
func (m *Manager) ClearAll(ctx context.Context) error {
	return m.engine.ClearAll(ctx)
}

// Close releases the store when the manager created it
func (m *Manager) Close() error {
	if !m.ownsStore {
		return nil
	}
	return m.closeStore()
}

func (m *Manager) closeStore() error {
	if c, ok := m.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

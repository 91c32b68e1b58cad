package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// OpKind names a store operation issued at finalize time.
type OpKind uint8

const (
	OpRemove OpKind = iota + 1
	OpSet
	OpExpire
)

func (k OpKind) String() string {
	switch k {
	case OpRemove:
		return "remove"
	case OpSet:
		return "set"
	case OpExpire:
		return "expire"
	default:
		return "unknown"
	}
}

// Op is a single store operation.
type Op struct {
	Kind OpKind
	ID   string
	Data Values        // OpSet only
	TTL  time.Duration // OpExpire only
}

func (o Op) apply(ctx context.Context, store Store) error {
	switch o.Kind {
	case OpRemove:
		return store.Remove(ctx, o.ID)
	case OpSet:
		return store.Set(ctx, o.ID, o.Data)
	case OpExpire:
		return store.Expire(ctx, o.ID, o.TTL)
	default:
		return fmt.Errorf("unknown store operation %d", o.Kind)
	}
}

// Plan is the outcome of finalizing a record: store operations to run in
// order and the cookie to attach to the response.
type Plan struct {
	Ops    []Op
	Cookie *http.Cookie
}

// Apply runs the operations sequentially against store. A failed operation
// does not stop the ones after it. The returned slice holds one error per
// failed operation and is nil when all succeeded.
func (p Plan) Apply(ctx context.Context, store Store) []error {
	var errs []error
	for _, op := range p.Ops {
		if err := op.apply(ctx, store); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", op.Kind, err))
		}
	}
	return errs
}

// Engine implements the session lifecycle: Load at request start and
// Finalize at response time. It holds no per-request state.
type Engine struct {
	cfg   Config
	store Store
	ids   IDGenerator
	log   *slog.Logger
	now   func() time.Time
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithEngineIDGenerator overrides the generator derived from cfg.IDStrategy.
func WithEngineIDGenerator(gen IDGenerator) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// WithEngineClock overrides the time source used for cookie expiry.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates cfg and returns an Engine persisting to store.
// A nil log discards engine logs.
func NewEngine(store Store, cfg Config, log *slog.Logger, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		cfg:   cfg,
		store: store,
		ids:   cfg.IDStrategy,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Load returns the record for the cookie value carried by the request.
// It never fails: an absent cookie, a store miss and a store error all
// produce a fresh record under a newly generated id.
func (e *Engine) Load(ctx context.Context, cookieValue string) *Record {
	if cookieValue == "" {
		return e.fresh()
	}

	data, err := e.store.Get(ctx, cookieValue)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			e.log.WarnContext(ctx, "session load failed, starting a new session",
				logger.Component("session"),
				logger.Event("load"),
				logger.SessionID(cookieValue),
				logger.Error(err),
			)
		}
		return e.fresh()
	}

	return newRecord(cookieValue, data, StatusUnchanged)
}

// fresh mints a record that is persisted on its first response.
func (e *Engine) fresh() *Record {
	return newRecord(e.ids.Generate(), nil, StatusChanged)
}

// Finalize translates the record status into store operations and the
// response cookie. An unchanged record with auto-expire enabled is moved to
// StatusExpiredTouch. The cookie is issued for every status.
func (e *Engine) Finalize(rec *Record) Plan {
	if rec == nil {
		return Plan{}
	}

	if rec.status == StatusUnchanged && e.cfg.AutoExpire {
		rec.touch()
	}

	id := rec.id
	ttl := e.cfg.ExpireTime

	var ops []Op
	switch rec.status {
	case StatusChanged:
		ops = []Op{
			{Kind: OpRemove, ID: id},
			{Kind: OpSet, ID: id, Data: rec.snapshot()},
			{Kind: OpExpire, ID: id, TTL: ttl},
		}
	case StatusCleared, StatusDestroyed:
		ops = []Op{{Kind: OpRemove, ID: id}}
	case StatusExpiredTouch:
		ops = []Op{{Kind: OpExpire, ID: id, TTL: ttl}}
	}

	return Plan{
		Ops:    ops,
		Cookie: e.cfg.buildCookieAt(id, e.now()),
	}
}

// Commit finalizes the record and runs the resulting operations.
// Store failures are logged and discarded; the cookie is always returned.
func (e *Engine) Commit(ctx context.Context, rec *Record) *http.Cookie {
	plan := e.Finalize(rec)
	for _, err := range plan.Apply(ctx, e.store) {
		e.log.WarnContext(ctx, "session persist failed",
			logger.Component("session"),
			logger.Event("finalize"),
			logger.SessionID(rec.id),
			logger.Status(rec.status),
			logger.Error(err),
		)
	}
	return plan.Cookie
}

// ClearAll wipes the backing store. It is never called on the request path.
func (e *Engine) ClearAll(ctx context.Context) error {
	return e.store.ClearAll(ctx)
}

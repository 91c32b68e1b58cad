package pg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	getSessionQuery = `SELECT data FROM sessions
WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	setSessionQuery = `INSERT INTO sessions (key, data, expires_at) VALUES ($1, $2, NULL)
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, expires_at = NULL`

	removeSessionQuery = `DELETE FROM sessions WHERE key = $1`

	expireSessionQuery = `UPDATE sessions SET expires_at = $2 WHERE key = $1`

	clearPrefixQuery = `DELETE FROM sessions WHERE starts_with(key, $1)`

	clearAllQuery = `DELETE FROM sessions`

	deleteExpiredQuery = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// Store implements session.Store on the sessions table created by Migrate.
// Expired rows are invisible to Get and removed by DeleteExpired.
type Store struct {
	db     DB
	prefix session.KeyPrefix
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyPrefix namespaces session keys.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) { s.prefix = session.KeyPrefix(prefix) }
}

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over db.
func NewStore(db DB, opts ...StoreOption) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(ctx context.Context, id string) (session.Values, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, getSessionQuery, s.prefix.Key(id), s.now()).Scan(&raw)
	if IsNotFoundError(err) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Join(session.ErrStoreUnavailable, err)
	}

	data := session.Values{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Join(session.ErrSerialization, err)
	}
	return data, nil
}

// Set upserts the record and clears its expiry.
func (s *Store) Set(ctx context.Context, id string, data session.Values) error {
	if data == nil {
		data = session.Values{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Join(session.ErrSerialization, err)
	}
	if _, err := s.db.Exec(ctx, setSessionQuery, s.prefix.Key(id), raw); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, removeSessionQuery, s.prefix.Key(id)); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// Expire sets expires_at to now+ttl. Missing rows are left alone.
func (s *Store) Expire(ctx context.Context, id string, ttl time.Duration) error {
	if _, err := s.db.Exec(ctx, expireSessionQuery, s.prefix.Key(id), s.now().Add(ttl)); err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// ClearAll deletes every row under the prefix, or the whole table without one.
func (s *Store) ClearAll(ctx context.Context) error {
	var err error
	if s.prefix == "" {
		_, err = s.db.Exec(ctx, clearAllQuery)
	} else {
		_, err = s.db.Exec(ctx, clearPrefixQuery, string(s.prefix))
	}
	if err != nil {
		return errors.Join(session.ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredQuery, s.now())
	if err != nil {
		return 0, errors.Join(session.ErrStoreUnavailable, err)
	}
	return tag.RowsAffected(), nil
}

// RunCleanup calls DeleteExpired every interval until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration, log logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				log.ErrorContext(ctx, "expired session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "expired sessions deleted", "count", n)
			}
		}
	}
}

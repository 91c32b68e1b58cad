package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets the session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom session transport
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig replaces the whole configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.config.Domain = domain
	}
}

func WithPath(path string) Option {
	return func(m *Manager) {
		m.config.Path = path
	}
}

func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.config.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.config.HTTPOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(m *Manager) {
		m.config.SameSite = sameSite
	}
}

// WithMaxAge sets an explicit cookie Max-Age
func WithMaxAge(maxAge time.Duration) Option {
	return func(m *Manager) {
		m.config.MaxAge = maxAge
	}
}

// WithExpireTime sets the TTL of stored sessions
func WithExpireTime(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.ExpireTime = ttl
	}
}

// WithRefreshStrategy sets the client-side cookie lifetime policy
func WithRefreshStrategy(strategy RefreshStrategy) Option {
	return func(m *Manager) {
		m.config.Refresh = strategy
	}
}

// WithIDStrategy sets how new session ids are generated
func WithIDStrategy(strategy IDStrategy) Option {
	return func(m *Manager) {
		m.config.IDStrategy = strategy
	}
}

// WithAutoExpire toggles TTL refresh on read-only requests
func WithAutoExpire(enabled bool) Option {
	return func(m *Manager) {
		m.config.AutoExpire = enabled
	}
}

// WithCookieManager sets the cookie manager for the default cookie transport
func WithCookieManager(cookieMgr *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookieManager = cookieMgr
	}
}

// WithLogger sets the logger used for swallowed store failures
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithIDGenerator overrides the generator derived from the id strategy
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		m.ids = gen
	}
}

// WithClock overrides the time source used for cookie expiry
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.clock = now
	}
}

package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Config holds session configuration. It is built once and shared read-only.
type Config struct {
	// CookieName is the name of the session cookie (default: "session_key")
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session_key"`
	Domain     string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	Path       string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	HTTPOnly   bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite   http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"0"` // 0 omits the attribute

	// MaxAge overrides the cookie Max-Age when non-zero
	MaxAge time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0"`

	// ExpireTime is the TTL applied to stored records
	ExpireTime time.Duration `env:"SESSION_EXPIRE_TIME" envDefault:"168h"`

	Refresh    RefreshStrategy `env:"SESSION_REFRESH_STRATEGY" envDefault:"browser"`
	IDStrategy IDStrategy      `env:"SESSION_ID_STRATEGY" envDefault:"uuidv7"`

	// AutoExpire refreshes the stored TTL on read-only requests
	AutoExpire bool `env:"SESSION_AUTO_EXPIRE" envDefault:"true"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName: "session_key",
		Path:       "/",
		Secure:     true,
		HTTPOnly:   true,
		ExpireTime: 7 * 24 * time.Hour,
		Refresh:    BrowserLifecycle(),
		IDStrategy: UUIDv7(),
		AutoExpire: true,
	}
}

// NewConfig applies the config options among opts to DefaultConfig and
// validates the result. Options that do not touch the configuration are
// ignored.
func NewConfig(opts ...Option) (Config, error) {
	m := &Manager{config: DefaultConfig()}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.config.Validate(); err != nil {
		return Config{}, err
	}
	return m.config, nil
}

// Validate rejects configurations that cannot serve requests.
func (c Config) Validate() error {
	if c.CookieName == "" {
		return errors.Join(ErrInvalidConfig, errors.New("cookie name is required"))
	}
	if c.ExpireTime <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("expire time must be positive, got %s", c.ExpireTime))
	}
	if c.MaxAge != 0 && c.MaxAge < time.Second {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("max age must be at least 1s, got %s", c.MaxAge))
	}
	if err := c.Refresh.Validate(); err != nil {
		return err
	}
	if err := c.IDStrategy.Validate(); err != nil {
		return err
	}
	// net/http silently drops cookies that fail Valid
	if err := c.buildCookieAt("x", time.Now()).Valid(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}

// BuildCookie returns the Set-Cookie value carrying id.
func (c Config) BuildCookie(id string) *http.Cookie {
	return c.buildCookieAt(id, time.Now())
}

func (c Config) buildCookieAt(id string, now time.Time) *http.Cookie {
	opts := []cookie.Option{
		cookie.WithDomain(c.Domain),
		cookie.WithPath(c.Path),
		cookie.WithSecure(c.Secure),
		cookie.WithHTTPOnly(c.HTTPOnly),
		cookie.WithSameSite(c.SameSite),
	}
	if c.Refresh.persistent {
		opts = append(opts, cookie.WithExpires(now.Add(c.Refresh.persistFor)))
	}
	if c.MaxAge > 0 {
		opts = append(opts, cookie.WithMaxAge(int(c.MaxAge/time.Second)))
	}
	return cookie.Build(c.CookieName, id, opts...)
}

// RefreshStrategy controls the cookie lifetime on the client.
// The zero value is BrowserLifecycle.
type RefreshStrategy struct {
	persistent bool
	persistFor time.Duration
}

// BrowserLifecycle issues session cookies without an expiry.
func BrowserLifecycle() RefreshStrategy { return RefreshStrategy{} }

// PersistentStorage issues cookies expiring d after each response.
func PersistentStorage(d time.Duration) RefreshStrategy {
	return RefreshStrategy{persistent: true, persistFor: d}
}

// Persistent reports whether cookies carry an explicit expiry, and its duration.
func (s RefreshStrategy) Persistent() (time.Duration, bool) {
	return s.persistFor, s.persistent
}

func (s RefreshStrategy) Validate() error {
	if s.persistent && s.persistFor <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("persistent duration must be positive, got %s", s.persistFor))
	}
	return nil
}

func (s RefreshStrategy) String() string {
	if s.persistent {
		return "persistent:" + s.persistFor.String()
	}
	return "browser"
}

// MarshalText implements encoding.TextMarshaler.
func (s RefreshStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "browser" or "persistent:<duration>".
func (s *RefreshStrategy) UnmarshalText(text []byte) error {
	name, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(string(text))), ":")
	switch name {
	case "", "browser":
		*s = BrowserLifecycle()
		return nil
	case "persistent":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("refresh strategy %q: %w", text, err))
		}
		*s = PersistentStorage(d)
		return nil
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown refresh strategy %q", text))
	}
}

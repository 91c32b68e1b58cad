package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager issues cookies on top of a set of default attributes.
type Manager struct {
	defaults Options
}

// New returns a Manager. Defaults are path "/", HttpOnly and SameSite=Lax,
// overridable with opts.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{defaults: applyOptions(defaults, opts)}
}

// Defaults returns a copy of the manager's default attributes.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Build assembles a cookie from explicit options without any defaults.
func Build(name, value string, opts ...Option) *http.Cookie {
	options := applyOptions(Options{}, opts)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Expires:  options.Expires,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
}

// Set writes a cookie using the manager defaults overridden by opts.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)
	return m.Write(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Expires:  options.Expires,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// Write attaches a fully built cookie to the response.
// Cookies that net/http would silently drop are rejected.
func (m *Manager) Write(w http.ResponseWriter, c *http.Cookie) error {
	if c == nil || c.Name == "" {
		return ErrInvalidName
	}
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidName, err)
	}
	http.SetCookie(w, c)
	return nil
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

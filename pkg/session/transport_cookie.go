package session

import (
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// CookieTransport implements Transport using cookies
type CookieTransport struct {
	cookieMgr  *cookie.Manager
	cookieName string
}

// NewCookieTransport creates a cookie-based transport. A nil manager uses cookie defaults.
func NewCookieTransport(cookieName string, cookieMgr *cookie.Manager) *CookieTransport {
	if cookieMgr == nil {
		cookieMgr = cookie.New()
	}
	return &CookieTransport{
		cookieMgr:  cookieMgr,
		cookieName: cookieName,
	}
}

// GetToken extracts the session token from the cookie
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.Get(r, t.cookieName)
	if err != nil || token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken writes the session cookie as built by the engine
func (t *CookieTransport) SetToken(w http.ResponseWriter, c *http.Cookie) error {
	return t.cookieMgr.Write(w, c)
}

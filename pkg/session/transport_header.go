package session

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HeaderTransport implements Transport using HTTP headers, for API clients
// that do not keep cookies.
type HeaderTransport struct {
	headerName string
	prefix     string
}

// NewHeaderTransport creates a new header-based transport
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{
		headerName: headerName,
		prefix:     "Bearer ",
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// HeaderOption is a functional option for HeaderTransport
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a custom prefix for the header value
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// GetToken extracts the session token from the header
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := r.Header.Get(t.headerName)
	if t.prefix != "" {
		value = strings.TrimPrefix(value, t.prefix)
	}
	if value == "" {
		return "", ErrSessionNotFound
	}
	return value, nil
}

// SetToken sends the session token and its expiry hints in response headers
func (t *HeaderTransport) SetToken(w http.ResponseWriter, c *http.Cookie) error {
	w.Header().Set(t.headerName, t.prefix+c.Value)

	if !c.Expires.IsZero() {
		w.Header().Set(t.headerName+"-Expires", c.Expires.UTC().Format(time.RFC3339))
	}
	if c.MaxAge > 0 {
		w.Header().Set(t.headerName+"-Max-Age", strconv.Itoa(c.MaxAge))
	}

	return nil
}

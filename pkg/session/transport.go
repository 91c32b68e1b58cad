package session

import "net/http"

// Transport defines how session tokens are carried between client and server
type Transport interface {
	// GetToken extracts the session token from the request.
	// It returns ErrSessionNotFound when the request carries none.
	GetToken(r *http.Request) (string, error)

	// SetToken attaches the finalized session cookie to the response
	SetToken(w http.ResponseWriter, c *http.Cookie) error
}

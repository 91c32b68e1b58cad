package session

import (
	"errors"
	"net/http"
)

// CompositeTransport tries multiple transports in order
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a composite transport that tries multiple transports
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{
		transports: transports,
	}
}

// GetToken extracts session token from first successful transport
func (t *CompositeTransport) GetToken(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		token, err := transport.GetToken(r)
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrSessionNotFound
}

// SetToken sends the session token via all configured transports
func (t *CompositeTransport) SetToken(w http.ResponseWriter, c *http.Cookie) error {
	var errs []error
	for _, transport := range t.transports {
		if err := transport.SetToken(w, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

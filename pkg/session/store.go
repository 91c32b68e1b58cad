package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// Implementations must be safe for concurrent use and apply a KeyPrefix to
// every keyed operation.
type Store interface {
	// Get returns the stored values or ErrSessionNotFound
	Get(ctx context.Context, id string) (Values, error)

	// Set stores values without a TTL, replacing any previous record and TTL
	Set(ctx context.Context, id string, data Values) error

	// Remove deletes the record. Removing a missing record is not an error
	Remove(ctx context.Context, id string) error

	// Expire sets the record TTL
	Expire(ctx context.Context, id string, ttl time.Duration) error

	// ClearAll wipes the backing store. Administrative use only
	ClearAll(ctx context.Context) error
}

// KeyPrefix namespaces session ids before they reach a backend.
type KeyPrefix string

// Key returns the backend key for id.
func (p KeyPrefix) Key(id string) string {
	return string(p) + id
}

// ID strips the prefix from a backend key.
func (p KeyPrefix) ID(key string) (string, bool) {
	if len(key) < len(p) || key[:len(p)] != string(p) {
		return "", false
	}
	return key[len(p):], true
}

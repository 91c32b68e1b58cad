package session

import "errors"

var (
	// ErrSessionNotFound indicates the store holds no record for the id
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrStoreUnavailable indicates the backing store could not serve the call
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrSerialization indicates a value could not be encoded or decoded
	ErrSerialization = errors.New("session.serialization_failed")

	// ErrKeyNotFound indicates the record has no value under the key
	ErrKeyNotFound = errors.New("session.key_not_found")

	// ErrInvalidConfig indicates the session configuration was rejected
	ErrInvalidConfig = errors.New("session.invalid_config")

	// ErrNoSession indicates the request context carries no session record
	ErrNoSession = errors.New("session.not_in_context")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")
)

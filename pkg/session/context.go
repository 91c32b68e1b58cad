package session

import "context"

type recordContextKey struct{}

// WithRecord adds a session record to the context
func WithRecord(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, recordContextKey{}, rec)
}

// FromContext retrieves the session record from the context
func FromContext(ctx context.Context) (*Record, bool) {
	rec, ok := ctx.Value(recordContextKey{}).(*Record)
	return rec, ok && rec != nil
}

// Require retrieves the session record or returns ErrNoSession
func Require(ctx context.Context) (*Record, error) {
	rec, ok := FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	return rec, nil
}

// MustFromContext retrieves the session record from the context or panics
func MustFromContext(ctx context.Context) *Record {
	rec, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return rec
}

package session_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// MockStore is a mock implementation of session.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (session.Values, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(session.Values), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, id string, data session.Values) error {
	args := m.Called(ctx, id, data)
	return args.Error(0)
}

func (m *MockStore) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Expire(ctx context.Context, id string, ttl time.Duration) error {
	args := m.Called(ctx, id, ttl)
	return args.Error(0)
}

func (m *MockStore) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// sequentialIDs generates predictable ids: id-1, id-2, ...
type sequentialIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequentialIDs) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// MockLocker implements domain.Locker for testing. The default behavior
// mirrors the real SetNX lock within a single process.
type MockLocker struct {
	AcquireFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, key string) error

	mu   sync.Mutex
	held map[string]struct{}
}

// NewMockLocker creates a new MockLocker with default behaviors
func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]struct{})}
}

// Acquire takes the lock unless it is already held
func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.held[key]; ok {
		return false, nil
	}
	m.held[key] = struct{}{}
	return true, nil
}

// Release frees the lock
func (m *MockLocker) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}

// Compile-time interface compliance verification
var _ domain.Locker = (*MockLocker)(nil)

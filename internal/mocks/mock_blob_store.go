package mocks

import (
	"context"
	"fmt"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// MockBlobStore implements domain.BlobStore for testing
type MockBlobStore struct {
	PresignFunc func(ctx context.Context, ownerID uint) (string, map[string]string, error)
}

// NewMockBlobStore creates a new MockBlobStore with default behaviors
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{}
}

// Presign delegates to PresignFunc when set
func (m *MockBlobStore) Presign(ctx context.Context, ownerID uint) (string, map[string]string, error) {
	if m.PresignFunc != nil {
		return m.PresignFunc(ctx, ownerID)
	}
	// Default behavior: a stable fake target keyed by owner
	return "https://uploads.test/bucket", map[string]string{"key": fmt.Sprintf("%d/asset", ownerID)}, nil
}

// Compile-time interface compliance verification
var _ domain.BlobStore = (*MockBlobStore)(nil)

package mocks

import (
	"sync"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// MockNotifier implements domain.Notifier for testing. It records every
// dispatch so tests can assert on destinations, codes and template kinds.
type MockNotifier struct {
	SendFunc func(destination, code string, kind domain.TemplateKind) error

	mu    sync.Mutex
	sends []Dispatch
}

// Dispatch is one recorded Send call.
type Dispatch struct {
	Destination string
	Code        string
	Kind        domain.TemplateKind
}

// NewMockNotifier creates a new MockNotifier with default behaviors
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the dispatch and delegates to SendFunc when set
func (m *MockNotifier) Send(destination, code string, kind domain.TemplateKind) error {
	m.mu.Lock()
	m.sends = append(m.sends, Dispatch{Destination: destination, Code: code, Kind: kind})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(destination, code, kind)
	}
	// Default behavior: success
	return nil
}

// Sends returns a copy of the recorded dispatches
func (m *MockNotifier) Sends() []Dispatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Dispatch, len(m.sends))
	copy(out, m.sends)
	return out
}

// Compile-time interface compliance verification
var _ domain.Notifier = (*MockNotifier)(nil)

package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
)

// MockAdapter is a testify mock of a transcription provider.
// Submit and PollStatus are driven by expectations set with On.
type MockAdapter struct {
	mock.Mock

	name       string
	configured bool
	canPoll    bool

	mu      sync.Mutex
	uploads [][]byte
}

// NewMockAdapter creates a configured adapter. canPoll selects whether it exposes a Poller.
func NewMockAdapter(name string, canPoll bool) *MockAdapter {
	return &MockAdapter{name: name, configured: true, canPoll: canPoll}
}

// WithoutCredentials makes IsConfigured report false
func (m *MockAdapter) WithoutCredentials() *MockAdapter {
	m.configured = false
	return m
}

// Name implements provider.Adapter
func (m *MockAdapter) Name() string { return m.name }

// IsConfigured implements provider.Adapter
func (m *MockAdapter) IsConfigured() bool { return m.configured }

// Poller implements provider.Adapter
func (m *MockAdapter) Poller() (provider.Poller, bool) {
	if !m.canPoll {
		return nil, false
	}
	return m, true
}

// Submit drains the media body, then answers from the registered expectations
func (m *MockAdapter) Submit(ctx context.Context, media provider.Media, opts provider.Options) provider.SubmitResult {
	if media.Body != nil {
		data, _ := io.ReadAll(media.Body)
		m.mu.Lock()
		m.uploads = append(m.uploads, data)
		m.mu.Unlock()
	}
	args := m.Called(ctx, media, opts)
	return args.Get(0).(provider.SubmitResult)
}

// PollStatus implements provider.Poller
func (m *MockAdapter) PollStatus(ctx context.Context, jobID string) (provider.PollResult, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(provider.PollResult), args.Error(1)
}

// Uploads returns the media bodies passed to Submit, in call order
func (m *MockAdapter) Uploads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.uploads...)
}

// NewResolver returns a resolver over a private registry holding the adapters by name
func NewResolver(adapters ...provider.Adapter) *provider.Resolver {
	registry := provider.NewRegistry()
	for _, a := range adapters {
		adapter := a
		if err := registry.Register(adapter.Name(), func(provider.Config) (provider.Adapter, error) {
			return adapter, nil
		}); err != nil {
			panic(err)
		}
	}
	return provider.NewResolver(registry)
}

var (
	_ provider.Adapter = (*MockAdapter)(nil)
	_ provider.Poller  = (*MockAdapter)(nil)
)

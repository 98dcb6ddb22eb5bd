package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider mocks a translation provider. Responses are scripted per
// source text; unscripted texts get a deterministic placeholder translation.
// It is safe for concurrent use, matching how the scheduler drives real
// providers.
type MockProvider struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Delay        time.Duration
	calls        []string
}

// NewMockProvider creates an empty scripted provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: make(map[string]string),
		Errors:       make(map[string]error),
	}
}

// Translate mocks a provider call, honoring context cancellation during
// the configured delay.
func (m *MockProvider) Translate(ctx context.Context, text, target string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("%s->%s", text, target))
	delay := m.Delay
	err := m.Errors[text]
	translation, scripted := m.Translations[text]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err != nil {
		return "", err
	}
	if scripted {
		return translation, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// Name returns the provider name
func (m *MockProvider) Name() string { return "mock" }

// IsAvailable checks if the provider is properly configured
func (m *MockProvider) IsAvailable() error { return nil }

// Calls returns a copy of the recorded calls in invocation order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// CallCount returns how often Translate was invoked.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MockPane records the pane updates made by the sync controller.
type MockPane struct {
	mu      sync.Mutex
	current int
	ratio   float64
}

// NewMockPane creates a pane with no selection.
func NewMockPane() *MockPane {
	return &MockPane{current: -1}
}

// SetCurrent records the highlighted index.
func (p *MockPane) SetCurrent(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = index
}

// ScrollToRatio records the scroll position.
func (p *MockPane) ScrollToRatio(ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ratio = ratio
}

// CurrentIndex returns the last highlighted index.
func (p *MockPane) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// ScrollRatio returns the last scroll ratio.
func (p *MockPane) ScrollRatio() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ratio
}

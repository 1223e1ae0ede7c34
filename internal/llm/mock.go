package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. Err, when set, is returned instead
// of a response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockJSON is a scripted success carrying the given JSON text.
func MockJSON(s string) MockResponse {
	return MockResponse{Content: json.RawMessage(s)}
}

// MockProvider replays scripted replies in order and records every
// request. Replies go through the same schema check as a real model's.
// Once the script runs out it answers with Fallback, or reports the
// provider as unavailable when Fallback is nil.
type MockProvider struct {
	Fallback func(Request) MockResponse

	mu     sync.Mutex
	script []MockResponse
	Calls  []Request
}

// NewMockProvider creates a MockProvider that replays script.
func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// offlineHints answers hint requests without a model, so the hints
// command can be tried without an API key.
func offlineHints(req Request) MockResponse {
	var prompt int
	for _, m := range req.Messages {
		prompt += len(m.Content)
	}
	return MockResponse{
		Content: json.RawMessage(`{"hints":["Read the question again and underline what it asks for."]}`),
		Usage:   Usage{InputTokens: prompt / 4, OutputTokens: 16},
	}
}

func (m *MockProvider) next(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		return r, true
	}
	if m.Fallback != nil {
		return m.Fallback(req), true
	}
	return MockResponse{}, false
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	r, ok := m.next(req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return finish(req, &Response{
		Content:    r.Content,
		Usage:      r.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	})
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a reply to the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

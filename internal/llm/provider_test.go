package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/weekcards/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(`{"b":2}`),
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp1.Content))
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, StopEnd, resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(resp2.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "first", mock.Calls[0].Messages[0].Content)
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider(MockJSON(`{"first":true}`))
	mock.Fallback = func(Request) MockResponse { return MockJSON(`{"fallback":true}`) }

	resp, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"first":true}`, string(resp.Content))

	for range 2 {
		resp, err = mock.Generate(context.Background(), Request{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"fallback":true}`, string(resp.Content))
	}
	assert.Equal(t, 3, mock.CallCount())
}

func TestMockProvider_EnforcesSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(`{"hints":["one"]}`))
	_, err := mock.Generate(context.Background(), Request{Schema: hintTestSchema()})
	var invErr *ErrInvalidResponse
	assert.True(t, errors.As(err, &invErr))
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, "mock", mock.ModelID())
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, 0, WeekFrom(ctx))
	assert.Empty(t, QuestionFrom(ctx))

	ctx = WithWeek(WithPurpose(ctx, "hint-authoring"), 4)
	assert.Equal(t, "hint-authoring", PurposeFrom(ctx))
	assert.Equal(t, 4, WeekFrom(ctx))

	// Later tags keep the earlier ones.
	ctx = WithQuestion(ctx, "assessment.questions.2")
	assert.Equal(t, "hint-authoring", PurposeFrom(ctx))
	assert.Equal(t, 4, WeekFrom(ctx))
	assert.Equal(t, "assessment.questions.2", QuestionFrom(ctx))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"openrouter with key", Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("WEEKCARDS_LLM_PROVIDER", "openai")
	t.Setenv("WEEKCARDS_OPENAI_API_KEY", "sk-env")
	t.Setenv("WEEKCARDS_OPENAI_MODEL", "gpt-4o")
	t.Setenv("WEEKCARDS_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	// OpenAI is probed before Anthropic.
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-oai", cfg.OpenAI.APIKey)
}

type recordedEvents struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordedEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	rec := &recordedEvents{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
	)
	p := WithLogging(mock, "gemini", rec, nil)
	ctx := WithQuestion(WithWeek(WithPurpose(context.Background(), "hint-authoring"), 2), "concepts.1.flow.0.q")

	_, err := p.Generate(ctx, Request{})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "hint-authoring", rec.events[0].Purpose)
	assert.Equal(t, 2, rec.events[0].Week)
	assert.Equal(t, "concepts.1.flow.0.q", rec.events[0].QuestionPath)
	assert.Equal(t, "gemini", rec.events[0].Provider)
	assert.Equal(t, "mock", rec.events[0].Model)
	assert.Equal(t, 7, rec.events[0].InputTokens)
	assert.True(t, rec.events[0].Success)
	assert.False(t, rec.events[1].Success)
	assert.Equal(t, "boom", rec.events[1].ErrorMessage)
}

func TestLoggingProvider_RecorderFailureIsIgnored(t *testing.T) {
	rec := &recordedEvents{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockJSON(`{}`)), "mock", rec, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "slow", p.ModelID())

	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}

func TestNewProvider(t *testing.T) {
	rec := &recordedEvents{}
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, rec, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	// The configured mock answers offline and is logged like a real model.
	resp, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "Write one hint."}}})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Content), `"hints"`)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "mock", rec.events[0].Provider)
	assert.True(t, rec.events[0].Success)

	_, err = NewProvider(context.Background(), Config{Provider: "anthropic"}, nil, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = "openai"
	cfg.OpenAI.APIKey = "sk-test"
	p, err = NewProvider(context.Background(), cfg, &recordedEvents{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())
}

func TestConfigFromEnv_BaseURLs(t *testing.T) {
	t.Setenv("WEEKCARDS_OPENROUTER_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("WEEKCARDS_OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg := ConfigFromEnv()
	assert.Equal(t, "http://localhost:9999/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
}

func TestConfig_ValidateNamesVariable(t *testing.T) {
	err := Config{Provider: "gemini"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEEKCARDS_GEMINI_API_KEY")
}

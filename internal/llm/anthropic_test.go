package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stop,
			"usage": map[string]any{
				"input_tokens":  50,
				"output_tokens": 30,
			},
		})
	}
}

func anthropicError(status int, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func hintRequest() Request {
	return Request{
		System:    "You write hints for lesson questions.",
		Messages:  []Message{{Role: RoleUser, Content: "Question: 1/2 + 1/4 = ?"}},
		Schema:    hintTestSchema(),
		MaxTokens: 256,
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"hints":["Find a common denominator.","Quarters fit halves twice."]}`, "end_turn"))

	resp, err := p.Generate(context.Background(), hintRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Fatalf("expected stop reason %q, got %q", StopEnd, resp.StopReason)
	}
	if resp.Model != "claude-haiku-4-5-20251001" {
		t.Fatalf("model = %q", resp.Model)
	}
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"hints":["just one"]}`, "end_turn"))

	_, err := p.Generate(context.Background(), hintRequest())
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"hints":["Find a`, "max_tokens"))

	_, err := p.Generate(context.Background(), hintRequest())
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestAnthropicProvider_RateLimit(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error"))

	_, err := p.Generate(context.Background(), hintRequest())
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T (%v)", err, err)
	}
}

func TestAnthropicProvider_ServerError(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicError(http.StatusInternalServerError, "api_error"))

	_, err := p.Generate(context.Background(), hintRequest())
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4-20250514"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, anthropicModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

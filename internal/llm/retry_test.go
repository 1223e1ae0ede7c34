package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	respDown      = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	respInvalid   = MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
	respTruncated = MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"hints":[`)}}
	respOK        = MockJSON(`{"hints":["Count the tens first."]}`)
)

func TestRetry_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		cfg       RetryConfig
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{respOK}, retryConfig(), false, 1},
		{"outage then success", []MockResponse{respDown, respOK}, retryConfig(), false, 2},
		{"every attempt fails", []MockResponse{respDown, respDown, respDown, respOK}, retryConfig(), true, 3},
		{"truncation is not retried", []MockResponse{respTruncated, respOK}, retryConfig(), true, 1},
		{"invalid response retried once", []MockResponse{respInvalid, respInvalid, respOK}, retryConfig(), true, 2},
		{"invalid then success", []MockResponse{respInvalid, respOK}, retryConfig(), false, 2},
		{"untyped transport error retried", []MockResponse{{Err: errors.New("connection reset")}, respOK}, retryConfig(), false, 2},
		{"zero attempts means one", []MockResponse{respDown, respOK}, RetryConfig{}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, tt.cfg)

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, string(respOK.Content), string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_TruncationKeepsType(t *testing.T) {
	p := WithRetry(NewMockProvider(respTruncated), retryConfig())
	_, err := p.Generate(context.Background(), Request{})

	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestRetry_ContextCancellation(t *testing.T) {
	p := WithRetry(NewMockProvider(respDown, respDown, respOK), retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_OnRetryHook(t *testing.T) {
	type call struct {
		attempt int
		wait    time.Duration
	}
	var calls []call

	cfg := retryConfig()
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		assert.True(t, IsTransient(err))
		calls = append(calls, call{attempt, wait})
	}
	rateLimited := MockResponse{Err: &ErrRateLimit{RetryAfter: 2 * time.Millisecond, Err: errors.New("429")}}

	_, err := WithRetry(NewMockProvider(rateLimited, respDown, respOK), cfg).Generate(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, 1, calls[0].attempt)
	assert.Equal(t, 2*time.Millisecond, calls[0].wait)
	assert.Equal(t, 2, calls[1].attempt)
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), retryConfig()).ModelID())
}

func TestRetry_BackoffCappedByMaxWait(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}
	assert.Equal(t, retryConfig().MaxWait, r.backoff(0, &ErrRateLimit{RetryAfter: time.Hour}))
	for attempt := range 10 {
		assert.LessOrEqual(t, r.backoff(attempt, errors.New("x")), retryConfig().MaxWait*12/10)
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&ErrRateLimit{}))
	assert.True(t, IsTransient(&ErrProviderUnavailable{}))
	assert.False(t, IsTransient(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.False(t, IsTransient(&ErrMaxTokensExceeded{}))
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "rate limited", Reason(fmt.Errorf("hint generation: %w", &ErrRateLimit{})))
	assert.Equal(t, "provider unavailable", Reason(&ErrProviderUnavailable{}))
	assert.Equal(t, "unusable reply", Reason(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.Equal(t, "reply too long", Reason(&ErrMaxTokensExceeded{}))
	assert.Equal(t, "timed out", Reason(context.DeadlineExceeded))
	assert.Empty(t, Reason(errors.New("plain")))
}

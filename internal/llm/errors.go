package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the vendor. RetryAfter is zero when the
// vendor did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse carries a reply that is not JSON or does not match
// the request schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return "llm reply rejected: " + e.Err.Error()
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, network failures and an exhausted
// mock script.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm provider unavailable"
	}
	return "llm provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a reply cut off by Request.MaxTokens. Content
// holds the partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("llm reply cut off at max tokens (%d bytes received)", len(e.Content))
}

// IsTransient reports whether err is a rate limit or an outage.
func IsTransient(err error) bool {
	var rl *ErrRateLimit
	var down *ErrProviderUnavailable
	return errors.As(err, &rl) || errors.As(err, &down)
}

// Reason is a short label for err suitable for a one-line report, or ""
// when err is not one of this package's errors.
func Reason(err error) string {
	var (
		rl    *ErrRateLimit
		down  *ErrProviderUnavailable
		inv   *ErrInvalidResponse
		trunc *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &rl):
		return "rate limited"
	case errors.As(err, &down):
		return "provider unavailable"
	case errors.As(err, &inv):
		return "unusable reply"
	case errors.As(err, &trunc):
		return "reply too long"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out"
	}
	return ""
}

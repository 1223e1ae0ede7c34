package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/weekcards/internal/logger"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → timeout → retry → logging → base. events and log may be nil.
func NewProvider(ctx context.Context, cfg Config, events EventRecorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		m := NewMockProvider()
		m.Fallback = offlineHints
		base = m
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, events, log)
	if log != nil && cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = func(attempt int, wait time.Duration, err error) {
			log.Warn("llm request failed, retrying", "provider", cfg.Provider, "attempt", attempt, "wait", wait, "error", err)
		}
	}
	retried := WithRetry(logged, cfg.Retry)
	return WithTimeout(retried, cfg.Timeout), nil
}

// TimeoutProvider bounds each Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so every call gets its own deadline. A zero timeout
// returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

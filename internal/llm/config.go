package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries. Default: 60s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// OnRetry, when set, is called before each wait with the attempt that
	// failed (1-based).
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "anthropic",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// vendor describes a hosted provider: the variables it is configured
// from and where its settings live in Config.
type vendor struct {
	name   string
	envKey string // the vendor's own API key variable
	prefix string // WEEKCARDS_<prefix>_API_KEY, _MODEL, _BASE_URL
	key    func(*Config) *string
	model  func(*Config) *string
	base   func(*Config) *string // nil without a base URL setting
}

// vendors are listed in DiscoverConfig priority order.
var vendors = []vendor{
	{
		name: "gemini", envKey: "GEMINI_API_KEY", prefix: "GEMINI",
		key:   func(c *Config) *string { return &c.Gemini.APIKey },
		model: func(c *Config) *string { return &c.Gemini.Model },
	},
	{
		name: "openai", envKey: "OPENAI_API_KEY", prefix: "OPENAI",
		key:   func(c *Config) *string { return &c.OpenAI.APIKey },
		model: func(c *Config) *string { return &c.OpenAI.Model },
		base:  func(c *Config) *string { return &c.OpenAI.BaseURL },
	},
	{
		name: "anthropic", envKey: "ANTHROPIC_API_KEY", prefix: "ANTHROPIC",
		key:   func(c *Config) *string { return &c.Anthropic.APIKey },
		model: func(c *Config) *string { return &c.Anthropic.Model },
	},
	{
		name: "openrouter", envKey: "OPENROUTER_API_KEY", prefix: "OPENROUTER",
		key:   func(c *Config) *string { return &c.OpenRouter.APIKey },
		model: func(c *Config) *string { return &c.OpenRouter.Model },
		base:  func(c *Config) *string { return &c.OpenRouter.BaseURL },
	},
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

// setFromEnv overwrites *dst when the variable is set and non-empty.
func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// ConfigFromEnv overlays WEEKCARDS_LLM_* and the per-vendor WEEKCARDS_*
// variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if t := os.Getenv("WEEKCARDS_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	setFromEnv(&cfg.Provider, "WEEKCARDS_LLM_PROVIDER")

	for _, v := range vendors {
		env := "WEEKCARDS_" + v.prefix
		setFromEnv(v.key(&cfg), env+"_API_KEY")
		setFromEnv(v.model(&cfg), env+"_MODEL")
		if v.base != nil {
			setFromEnv(v.base(&cfg), env+"_BASE_URL")
		}
	}
	return cfg
}

// DiscoverConfig returns a Config for the first vendor whose own API key
// variable (GEMINI_API_KEY, OPENAI_API_KEY, ...) is set.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendors {
		k := strings.TrimSpace(os.Getenv(v.envKey))
		if k == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = v.name
		*v.key(&cfg) = k
		return cfg, true
	}
	return Config{}, false
}

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *v.key(&c) == "" {
		return fmt.Errorf("WEEKCARDS_%s_API_KEY is required for the %s provider", v.prefix, v.name)
	}
	return nil
}

// Package llm talks to hosted language models for card authoring tasks.
// Every provider returns JSON that has been checked against the request's
// schema, so callers can decode without defensive parsing.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt and returns the model output. When the
	// request carries a Schema the output is validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Authoring prompts are single-turn.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Providers
	// use their native structured output mechanism for it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name is kebab-case, e.g. "question-hints". It is the cache key for
	// the compiled validator, so different definitions need different names.
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Stop reasons, normalized across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON object when a Schema was requested,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks every provider shares: a truncated reply is
// an error, and structured replies must match the schema.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through so direct model IDs work.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

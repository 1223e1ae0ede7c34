package authoring

// Config holds hint generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MinHints is the number of authored hints a question should carry.
	// Questions below it get generated hints appended.
	MinHints int

	// Concurrency bounds in-flight LLM requests.
	Concurrency int
}

// DefaultConfig returns sensible defaults for hint generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   400,
		Temperature: 0.4,
		MinHints:    2,
		Concurrency: 4,
	}
}

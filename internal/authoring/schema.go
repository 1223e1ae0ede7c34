package authoring

import "github.com/abhisek/weekcards/internal/llm"

// HintSchema defines the JSON schema for generated hints.
var HintSchema = &llm.Schema{
	Name:        "question-hints",
	Description: "Progressive hints for one lesson question, from gentle nudge to near-solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":        "string",
					"description": "One hint, a single sentence that does not state the answer",
				},
				"minItems":    1,
				"maxItems":    3,
				"description": "Hints ordered from most general to most specific",
			},
		},
		"required":             []any{"hints"},
		"additionalProperties": false,
	},
}

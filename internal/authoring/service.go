// Package authoring fills in missing question hints with an LLM and writes
// them back into the card JSON.
package authoring

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/sjson"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/llm"
	"github.com/abhisek/weekcards/internal/logger"
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
)

// Purpose labels hint requests in the LLM event log.
const Purpose = "hint-authoring"

// Target is a question that has fewer authored hints than wanted.
type Target struct {
	ID       card.ItemID
	Path     string
	Concept  string
	Question question.Question
	Existing []string
}

// Result is the outcome for one target.
type Result struct {
	Target Target
	Added  []string
	Err    error
}

// Targets lists the questions of t with fewer than minHints hints, in flow
// order. Questions without a document path cannot be written back and are
// skipped.
func Targets(t *card.FlowTable, minHints int) []Target {
	var out []Target
	for id := card.ItemID(0); ; id++ {
		e, ok := t.Entry(id)
		if !ok {
			break
		}
		q, isQ := t.Question(id)
		if !isQ || e.Item.Path == "" || len(q.Hints) >= minHints {
			continue
		}
		tgt := Target{ID: id, Path: e.Item.Path, Question: q, Existing: q.Hints}
		if e.Position.Concept >= 0 {
			tgt.Concept = t.Card().Concepts[e.Position.Concept].Title
		}
		out = append(out, tgt)
	}
	return out
}

// Service generates hints.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// NewService creates a hint generation service.
func NewService(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.MinHints < 1 {
		cfg.MinHints = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{provider: provider, cfg: cfg, log: log.With("component", "authoring")}
}

type hintOutput struct {
	Hints []string `json:"hints"`
}

// Generate asks for the hints t is missing. Returned hints are trimmed,
// deduplicated against the existing ones and capped at the number needed.
func (s *Service) Generate(ctx context.Context, c *card.Card, t Target) ([]string, error) {
	need := s.cfg.MinHints - len(t.Existing)
	if need <= 0 {
		return nil, nil
	}
	ctx = llm.WithQuestion(llm.WithWeek(llm.WithPurpose(ctx, Purpose), c.Week), t.Path)

	req := llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintUserMessage(c.Title, t, need)},
		},
		Schema:      HintSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("hint generation: %w", err)
	}

	var out hintOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse hint response: %w", err)
	}

	seen := make(map[string]bool, len(t.Existing))
	for _, h := range t.Existing {
		seen[textmatch.NormalizeArabic(h)] = true
	}
	var added []string
	for _, h := range out.Hints {
		h = strings.TrimSpace(h)
		key := textmatch.NormalizeArabic(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		added = append(added, h)
		if len(added) == need {
			break
		}
	}
	return added, nil
}

// Fill generates hints for every target of the card in doc and returns the
// updated document. A failed target is reported in its Result and leaves
// that question untouched; the error return is for unusable input only.
func (s *Service) Fill(ctx context.Context, doc []byte) ([]byte, []Result, error) {
	c, err := card.Parse(doc)
	if err != nil {
		return nil, nil, err
	}
	targets := Targets(card.NewFlowTable(c), s.cfg.MinHints)
	results := make([]Result, len(targets))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, t := range targets {
		g.Go(func() error {
			added, err := s.Generate(gctx, c, t)
			if err != nil {
				s.log.Warn("hint generation failed", "week", c.Week, "path", t.Path, "error", err)
			}
			mu.Lock()
			results[i] = Result{Target: t, Added: added, Err: err}
			mu.Unlock()
			// Per-question failures do not cancel the rest.
			return nil
		})
	}
	_ = g.Wait()

	out := doc
	for _, r := range results {
		if len(r.Added) == 0 {
			continue
		}
		out, err = writeHints(out, r.Target.Path, slices.Concat(r.Target.Existing, r.Added))
		if err != nil {
			return nil, results, fmt.Errorf("write hints at %s: %w", r.Target.Path, err)
		}
	}
	return out, results, nil
}

// writeHints stores hints as the question's "hints" array and drops a
// singular "hint" key so the two never disagree.
func writeHints(doc []byte, path string, hints []string) ([]byte, error) {
	out, err := sjson.SetBytes(doc, path+".hints", hints)
	if err != nil {
		return nil, err
	}
	return sjson.DeleteBytes(out, path+".hint")
}

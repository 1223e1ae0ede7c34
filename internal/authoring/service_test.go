package authoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/llm"
	"github.com/abhisek/weekcards/internal/store"
)

const hintCard = `{
  "week": 4,
  "title": "Fractions",
  "concepts": [
    {
      "title": "Halves",
      "flow": [
        {"type": "explain", "text": "A half is one of two equal parts."},
        {"type": "question", "q": {"text": "1/2 + 1/2 = ?", "answer": "1", "hint": "Add the tops."}},
        {"type": "question", "q": {"text": "Pick the half", "choices": ["1/3", "1/2"], "correctIndex": 1, "hints": ["Two parts.", "Look at the bottom number."]}}
      ]
    }
  ],
  "assessment": [
    {"text": "1/4 + 1/4 = ?", "answer": "1/2"}
  ]
}`

func serialConfig() Config {
	cfg := DefaultConfig()
	cfg.Concurrency = 1
	return cfg
}

func TestTargets(t *testing.T) {
	c, err := card.Parse([]byte(hintCard))
	require.NoError(t, err)

	targets := Targets(card.NewFlowTable(c), 2)
	require.Len(t, targets, 2)

	assert.Equal(t, "concepts.0.flow.1.q", targets[0].Path)
	assert.Equal(t, "Halves", targets[0].Concept)
	assert.Equal(t, []string{"Add the tops."}, targets[0].Existing)

	assert.Equal(t, "assessment.0", targets[1].Path)
	assert.Empty(t, targets[1].Concept)
	assert.Empty(t, targets[1].Existing)

	assert.Empty(t, Targets(card.NewFlowTable(c), 0))
}

func TestGenerate_DedupsAndCaps(t *testing.T) {
	c, err := card.Parse([]byte(hintCard))
	require.NoError(t, err)
	target := Targets(card.NewFlowTable(c), 2)[0]

	mock := llm.NewMockProvider(llm.MockJSON(`{"hints":["  add the tops. ", "Both halves make a whole.", "Extra"]}`))
	s := NewService(mock, serialConfig(), nil)

	added, err := s.Generate(context.Background(), c, target)
	require.NoError(t, err)
	assert.Equal(t, []string{"Both halves make a whole."}, added)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, HintSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Card: Fractions")
	assert.Contains(t, req.Messages[0].Content, "Correct answer (never reveal it): 1")
	assert.Contains(t, req.Messages[0].Content, "Write exactly 1 new hint(s)")
}

func TestGenerate_NothingNeeded(t *testing.T) {
	c, err := card.Parse([]byte(hintCard))
	require.NoError(t, err)

	mock := llm.NewMockProvider()
	s := NewService(mock, serialConfig(), nil)
	added, err := s.Generate(context.Background(), c, Target{Existing: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Nil(t, added)
	assert.Zero(t, mock.CallCount())
}

func TestFill_WritesBack(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockJSON(`{"hints":["Both halves make a whole."]}`),
		llm.MockJSON(`{"hints":["Quarters are small halves.","Two quarters make one half."]}`),
	)
	s := NewService(mock, serialConfig(), nil)

	out, results, err := s.Fill(context.Background(), []byte(hintCard))
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}

	doc := gjson.ParseBytes(out)
	first := doc.Get("concepts.0.flow.1.q")
	assert.False(t, first.Get("hint").Exists())
	assert.Equal(t, `["Add the tops.","Both halves make a whole."]`, first.Get("hints").Raw)
	assert.Equal(t, 2, len(doc.Get("assessment.0.hints").Array()))

	// Untouched question keeps its hints.
	assert.Equal(t, 2, len(doc.Get("concepts.0.flow.2.q.hints").Array()))

	// The result still parses as a card and no question is short of hints.
	c, err := card.Parse(out)
	require.NoError(t, err)
	assert.Empty(t, Targets(card.NewFlowTable(c), 2))
}

func TestFill_FailureLeavesQuestionUntouched(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("provider down")},
		llm.MockJSON(`{"hints":["Quarters are small halves.","Two quarters make one half."]}`),
	)
	s := NewService(mock, serialConfig(), nil)

	out, results, err := s.Fill(context.Background(), []byte(hintCard))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ErrorContains(t, results[0].Err, "provider down")
	assert.NoError(t, results[1].Err)

	doc := gjson.ParseBytes(out)
	assert.Equal(t, "Add the tops.", doc.Get("concepts.0.flow.1.q.hint").String())
	assert.False(t, doc.Get("concepts.0.flow.1.q.hints").Exists())
	assert.True(t, doc.Get("assessment.0.hints").IsArray())
}

func TestFill_InvalidCard(t *testing.T) {
	s := NewService(llm.NewMockProvider(), serialConfig(), nil)
	_, _, err := s.Fill(context.Background(), []byte(`{"title":"no week"}`))
	assert.ErrorIs(t, err, card.ErrInvalidCard)
}

func TestBuildHintUserMessage_ListsChoices(t *testing.T) {
	c, err := card.Parse([]byte(hintCard))
	require.NoError(t, err)
	table := card.NewFlowTable(c)
	q, ok := table.Question(2)
	require.True(t, ok)

	msg := buildHintUserMessage("Fractions", Target{Question: q, Existing: q.Hints}, 1)
	assert.Contains(t, msg, "Question type: mcq")
	assert.Contains(t, msg, "1. 1/3\n2. 1/2\n")
	assert.True(t, strings.Contains(msg, "- Two parts.\n"))
}

type eventLog []store.LLMRequestEventData

func (l *eventLog) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	*l = append(*l, data)
	return nil
}

func TestGenerate_TagsEventsWithQuestion(t *testing.T) {
	c, err := card.Parse([]byte(hintCard))
	require.NoError(t, err)
	target := Targets(card.NewFlowTable(c), 2)[0]

	var events eventLog
	mock := llm.NewMockProvider(llm.MockJSON(`{"hints":["Both halves make a whole."]}`))
	s := NewService(llm.WithLogging(mock, "mock", &events, nil), serialConfig(), nil)

	_, err = s.Generate(context.Background(), c, target)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Purpose, events[0].Purpose)
	assert.Equal(t, c.Week, events[0].Week)
	assert.Equal(t, target.Path, events[0].QuestionPath)
}

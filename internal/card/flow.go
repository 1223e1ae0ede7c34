package card

import (
	"github.com/tidwall/gjson"

	"github.com/abhisek/weekcards/internal/question"
)

// ItemID identifies a concept item or assessment question within one
// FlowTable. IDs are dense and assigned in flow order.
type ItemID int

// Position locates an entry. Concept and Index are -1 for assessment
// questions, whose position is AssessmentIndex.
type Position struct {
	Concept         int
	Index           int
	AssessmentIndex int
}

// Entry is one row of the flow table.
type Entry struct {
	ID       ItemID
	Position Position
	Item     FlowItem
}

// Problem is an authoring defect attached to an entry.
type Problem struct {
	ID      ItemID
	Message string
}

// FlowTable is the immutable index of a card's items. Questions are
// normalized once when the table is built.
type FlowTable struct {
	card       *Card
	entries    []Entry
	concepts   [][]ItemID
	assessment []ItemID
	questions  map[ItemID]question.Question
	problems   []Problem
}

// NewFlowTable indexes every concept item and assessment question of c.
func NewFlowTable(c *Card) *FlowTable {
	t := &FlowTable{card: c, questions: make(map[ItemID]question.Question)}
	for ci, concept := range c.Concepts {
		ids := make([]ItemID, 0, len(concept.Flow()))
		for ii, item := range concept.Flow() {
			ids = append(ids, t.add(Position{Concept: ci, Index: ii, AssessmentIndex: -1}, item))
		}
		t.concepts = append(t.concepts, ids)
	}
	if c.Assessment != nil {
		for ai, raw := range c.Assessment.Questions {
			item := FlowItem{Kind: ItemQuestion, Question: raw}
			if ai < len(c.Assessment.Paths) {
				item.Path = c.Assessment.Paths[ai]
			}
			t.assessment = append(t.assessment, t.add(Position{Concept: -1, Index: -1, AssessmentIndex: ai}, item))
		}
	}
	return t
}

func (t *FlowTable) add(pos Position, item FlowItem) ItemID {
	id := ItemID(len(t.entries))
	t.entries = append(t.entries, Entry{ID: id, Position: pos, Item: item})
	for _, p := range item.Problems {
		t.problems = append(t.problems, Problem{ID: id, Message: p})
	}
	if item.IsQuestion() {
		q := question.FromResult(gjson.Parse(item.Question))
		t.questions[id] = q
		for _, p := range q.Problems {
			t.problems = append(t.problems, Problem{ID: id, Message: p})
		}
	}
	return id
}

// Card returns the indexed card.
func (t *FlowTable) Card() *Card { return t.card }

// ConceptCount returns the number of concepts.
func (t *FlowTable) ConceptCount() int { return len(t.concepts) }

// ItemCounts returns the item count of every concept.
func (t *FlowTable) ItemCounts() []int {
	out := make([]int, len(t.concepts))
	for i, ids := range t.concepts {
		out[i] = len(ids)
	}
	return out
}

// ItemID returns the id at a concept position.
func (t *FlowTable) ItemID(concept, index int) (ItemID, bool) {
	if concept < 0 || concept >= len(t.concepts) || index < 0 || index >= len(t.concepts[concept]) {
		return 0, false
	}
	return t.concepts[concept][index], true
}

// Entry returns the entry for id.
func (t *FlowTable) Entry(id ItemID) (Entry, bool) {
	if id < 0 || int(id) >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[id], true
}

// Question returns the normalized question for id.
func (t *FlowTable) Question(id ItemID) (question.Question, bool) {
	q, ok := t.questions[id]
	return q, ok
}

// AssessmentIDs returns the assessment question ids in order.
func (t *FlowTable) AssessmentIDs() []ItemID { return t.assessment }

// HasAssessment reports whether the card defines a final assessment.
func (t *FlowTable) HasAssessment() bool { return len(t.assessment) > 0 }

// Problems returns every authoring problem found while indexing.
func (t *FlowTable) Problems() []Problem { return t.problems }

// ProblemsFor returns the authoring problems of one entry.
func (t *FlowTable) ProblemsFor(id ItemID) []string {
	var out []string
	for _, p := range t.problems {
		if p.ID == id {
			out = append(out, p.Message)
		}
	}
	return out
}

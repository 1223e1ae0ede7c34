// Package question normalizes heterogeneous question payloads into a closed
// set of variants and derives the expected answer for each of them.
package question

// Kind identifies a question variant.
type Kind string

const (
	KindInput     Kind = "input"
	KindMCQ       Kind = "mcq"
	KindOrdering  Kind = "ordering"
	KindMatching  Kind = "matching"
	KindFillBlank Kind = "fillblank"
)

// BlankMarker is the placeholder token for a fill-in-blank slot in question text.
const BlankMarker = "[[blank]]"

// PlaceholderText replaces a missing question prompt.
const PlaceholderText = "Answer the following question."

// NoSelection marks an unanswered multiple-choice response.
const NoSelection = -1

// Body is the type-specific part of a question. The set of implementations
// is closed: Input, MCQ, Ordering, Matching and FillBlank.
type Body interface {
	Kind() Kind
	isBody()
}

// Input is a free text or numeric answer. Boolean marks true/false questions,
// which compare parsed truth values.
type Input struct {
	Answer  string
	Boolean bool
}

// MCQ is a single-selection multiple-choice question. CorrectIndex is -1
// when the author did not give a usable index.
type MCQ struct {
	Choices      []string
	CorrectIndex int
}

// Ordering holds items in their correct order.
type Ordering struct {
	Items []string
}

// Pair is one left/right association of a matching question.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Matching holds the correct pairs.
type Matching struct {
	Pairs []Pair
}

// FillBlank holds the correct fill values in order. Markers is the number of
// BlankMarker tokens found in the question text.
type FillBlank struct {
	Blanks  []string
	Markers int
}

func (Input) Kind() Kind     { return KindInput }
func (MCQ) Kind() Kind       { return KindMCQ }
func (Ordering) Kind() Kind  { return KindOrdering }
func (Matching) Kind() Kind  { return KindMatching }
func (FillBlank) Kind() Kind { return KindFillBlank }

func (Input) isBody()     {}
func (MCQ) isBody()       {}
func (Ordering) isBody()  {}
func (Matching) isBody()  {}
func (FillBlank) isBody() {}

// Validation selects the optional comparison tiers for text answers.
type Validation struct {
	Numeric bool `json:"numeric"`
	Fuzzy   bool `json:"fuzzy"`
}

// Question is the normalized form of an authored question.
type Question struct {
	Text       string
	Required   bool
	Hints      []string
	Solution   string
	Validation Validation
	Points     float64
	Body       Body

	// Problems lists authoring defects found while parsing. A question with
	// problems is still usable; it may simply be unanswerable.
	Problems []string
}

// Kind returns the variant of the question body.
func (q Question) Kind() Kind {
	if q.Body == nil {
		return KindInput
	}
	return q.Body.Kind()
}

// IsBoolean reports whether q is a true/false question.
func (q Question) IsBoolean() bool {
	in, ok := q.Body.(Input)
	return ok && in.Boolean
}

// Response is the answer state captured from the learner.
type Response struct {
	Value    string   // input
	Selected int      // mcq, NoSelection when unanswered
	Order    []string // ordering, "" for an unplaced slot
	Matches  []string // matching, right value per pair
	Blanks   []string // fill-blank values in order
}

// EmptyResponse returns a response with nothing captured.
func EmptyResponse() Response {
	return Response{Selected: NoSelection}
}

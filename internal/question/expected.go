package question

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/abhisek/weekcards/internal/textmatch"
)

// Answer is the canonical correct answer of a question. Only the fields
// of the question's kind are populated.
type Answer struct {
	Kind         Kind
	Text         string   // input
	Boolean      bool     // input, true/false question
	Choices      []string // mcq
	CorrectIndex int      // mcq, -1 when unresolvable
	List         []string // ordering, fill-blank
	Pairs        []Pair   // matching
}

// Expected derives the expected answer from explicit fields, falling back to
// the authored solution text.
func Expected(q Question) Answer {
	exp := Answer{Kind: q.Kind(), CorrectIndex: NoSelection}
	switch b := q.Body.(type) {
	case MCQ:
		exp.Choices = b.Choices
		exp.CorrectIndex = b.CorrectIndex
		if exp.CorrectIndex < 0 || exp.CorrectIndex >= len(b.Choices) {
			exp.CorrectIndex = indexOf(b.Choices, q.Solution)
		}
	case Ordering:
		exp.List = b.Items
		if len(exp.List) == 0 {
			exp.List = SplitList(q.Solution)
		}
	case FillBlank:
		exp.List = b.Blanks
		if len(exp.List) == 0 {
			exp.List = SplitList(q.Solution)
		}
	case Matching:
		exp.Pairs = b.Pairs
		if len(exp.Pairs) == 0 {
			exp.Pairs = SolutionPairs(q.Solution)
		}
	case Input:
		exp.Boolean = b.Boolean
		exp.Text = textmatch.NormalizeSpace(b.Answer)
		if exp.Text == "" {
			exp.Text = textmatch.NormalizeSpace(q.Solution)
		}
	default:
		exp.Kind = KindInput
		exp.Text = textmatch.NormalizeSpace(q.Solution)
	}
	return exp
}

func indexOf(choices []string, solution string) int {
	want := textmatch.NormalizeSpace(solution)
	if want == "" {
		return NoSelection
	}
	for i, c := range choices {
		if textmatch.NormalizeSpace(c) == want {
			return i
		}
	}
	return NoSelection
}

// SplitList splits an authored list on newlines, commas and Arabic commas,
// dropping empty entries.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ',' || r == '،'
	})
	var out []string
	for _, f := range fields {
		if f = textmatch.NormalizeSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// pairSeparators are tried in order; multi-rune arrows come before the
// single characters they contain.
var pairSeparators = []string{"→", "->", "=>", ":", "=", "-"}

// SolutionPairs decodes pairs from a solution that is either embedded JSON
// (array of objects, array of two-element arrays, or an object map) or a
// list of "left → right" entries.
func SolutionPairs(solution string) []Pair {
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil
	}
	if gjson.Valid(solution) {
		if r := gjson.Parse(solution); r.IsArray() || r.IsObject() {
			return parsePairs(r)
		}
	}

	var out []Pair
	for _, entry := range SplitList(solution) {
		for _, sep := range pairSeparators {
			left, right, ok := strings.Cut(entry, sep)
			if !ok {
				continue
			}
			left, right = strings.TrimSpace(left), strings.TrimSpace(right)
			if left != "" && right != "" {
				out = append(out, Pair{Left: left, Right: right})
			}
			break
		}
	}
	return out
}

// SolutionText renders the expected answer as one readable line. It falls
// back to the authored solution when nothing can be derived.
func SolutionText(q Question) string {
	exp := Expected(q)
	var s string
	switch exp.Kind {
	case KindMCQ:
		if exp.CorrectIndex >= 0 && exp.CorrectIndex < len(exp.Choices) {
			s = exp.Choices[exp.CorrectIndex]
		}
	case KindOrdering, KindFillBlank:
		s = strings.Join(exp.List, "، ")
	case KindMatching:
		parts := make([]string, 0, len(exp.Pairs))
		for _, p := range exp.Pairs {
			parts = append(parts, p.Left+" → "+p.Right)
		}
		s = strings.Join(parts, "، ")
	default:
		s = exp.Text
	}
	if s == "" {
		s = textmatch.NormalizeSpace(q.Solution)
	}
	return s
}

// CompareFunc reports whether a captured text value matches an expected one.
type CompareFunc func(user, expected string) bool

// DefaultCompare returns the three-tier comparator configured by the
// question's validation options.
func DefaultCompare(q Question) CompareFunc {
	opts := textmatch.Options{Numeric: q.Validation.Numeric, Fuzzy: q.Validation.Fuzzy}
	return func(user, expected string) bool {
		return textmatch.Equal(user, expected, opts)
	}
}

// StrictCompare is the exact-then-numeric comparator without fuzzy matching.
func StrictCompare(q Question) CompareFunc {
	opts := textmatch.Options{Numeric: q.Validation.Numeric}
	return func(user, expected string) bool {
		return textmatch.Equal(user, expected, opts)
	}
}

// IsAnswerCorrect grades r against q. A nil cmp uses DefaultCompare.
// Multiple-choice, ordering and matching answers ignore cmp.
func IsAnswerCorrect(q Question, r Response, cmp CompareFunc) bool {
	if cmp == nil {
		cmp = DefaultCompare(q)
	}
	exp := Expected(q)
	switch exp.Kind {
	case KindMCQ:
		return exp.CorrectIndex >= 0 && r.Selected == exp.CorrectIndex
	case KindOrdering:
		return orderEqual(r.Order, exp.List)
	case KindMatching:
		if len(exp.Pairs) == 0 || len(r.Matches) < len(exp.Pairs) {
			return false
		}
		for i, p := range exp.Pairs {
			if !textmatch.ExactEqual(r.Matches[i], p.Right) {
				return false
			}
		}
		return true
	case KindFillBlank:
		if len(exp.List) == 0 || len(r.Blanks) < len(exp.List) {
			return false
		}
		for i, want := range exp.List {
			if !cmp(r.Blanks[i], want) {
				return false
			}
		}
		return true
	default:
		if exp.Boolean {
			got, okU := ParseTruth(r.Value)
			want, okE := ParseTruth(exp.Text)
			if okU && okE {
				return got == want
			}
		}
		return cmp(r.Value, exp.Text)
	}
}

func orderEqual(got, want []string) bool {
	if len(want) == 0 || len(got) != len(want) {
		return false
	}
	for i := range want {
		if !textmatch.ExactEqual(got[i], want[i]) {
			return false
		}
	}
	return true
}

// ParseTruth reads a true/false answer in English or Arabic.
func ParseTruth(s string) (value, ok bool) {
	switch textmatch.NormalizeArabic(s) {
	case "true", "t", "yes", "y", "1", "صح", "صحيح", "نعم":
		return true, true
	case "false", "f", "no", "n", "0", "خطا", "خاطئ", "لا":
		return false, true
	}
	return false, false
}

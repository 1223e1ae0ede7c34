package question

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var typeAliases = map[string]Kind{
	"input":           KindInput,
	"text":            KindInput,
	"short":           KindInput,
	"number":          KindInput,
	"numeric":         KindInput,
	"mcq":             KindMCQ,
	"choice":          KindMCQ,
	"multiple-choice": KindMCQ,
	"ordering":        KindOrdering,
	"order":           KindOrdering,
	"sort":            KindOrdering,
	"match":           KindMatching,
	"matching":        KindMatching,
	"pairs":           KindMatching,
	"fillblank":       KindFillBlank,
	"fill-blank":      KindFillBlank,
	"fill_blank":      KindFillBlank,
	"blank":           KindFillBlank,
}

var booleanAliases = map[string]bool{
	"true-false": true,
	"truefalse":  true,
	"true_false": true,
	"tf":         true,
	"boolean":    true,
}

// Parse normalizes a raw question payload. It never fails: malformed input
// yields an Input question with the defect recorded in Problems.
func Parse(raw []byte) Question {
	if !gjson.ValidBytes(raw) {
		return Question{
			Text:     PlaceholderText,
			Points:   1,
			Body:     Input{},
			Problems: []string{"question is not valid JSON"},
		}
	}
	return FromResult(gjson.ParseBytes(raw))
}

// FromResult normalizes an already parsed question payload.
func FromResult(r gjson.Result) Question {
	q := Question{Points: 1}
	if !r.IsObject() {
		q.Text = PlaceholderText
		q.Body = Input{}
		q.Problems = append(q.Problems, "question is not an object")
		return q
	}

	q.Text = firstString(r, "text", "prompt", "question")
	if q.Text == "" {
		q.Text = PlaceholderText
		q.Problems = append(q.Problems, "question has no text")
	}
	q.Required = ParseBool(firstExisting(r, "required", "isRequired"), false)
	q.Hints = parseHints(r)
	q.Solution = stringOrRaw(r.Get("solution"))
	q.Validation = Validation{
		Numeric: ParseBool(firstExisting(r, "validation.numeric", "numeric"), false),
		Fuzzy:   ParseBool(firstExisting(r, "validation.fuzzy", "fuzzy"), false),
	}
	if p := r.Get("points"); p.Type == gjson.Number && p.Num > 0 {
		q.Points = p.Num
	}

	kind, boolean := inferKind(r, &q)
	switch kind {
	case KindMCQ:
		q.Body = parseMCQ(r, &q)
	case KindOrdering:
		q.Body = Ordering{Items: stringList(r.Get("items"))}
	case KindMatching:
		q.Body = Matching{Pairs: parsePairs(r.Get("pairs"))}
	case KindFillBlank:
		q.Body = FillBlank{
			Blanks:  stringList(r.Get("blanks")),
			Markers: strings.Count(q.Text, BlankMarker),
		}
	default:
		q.Body = Input{Answer: stringOrRaw(r.Get("answer")), Boolean: boolean}
	}

	q.Problems = append(q.Problems, lint(q)...)
	return q
}

// inferKind resolves the variant: explicit type first, then the presence of
// choices, items, pairs or blanks, then input.
func inferKind(r gjson.Result, q *Question) (Kind, bool) {
	t := strings.ToLower(strings.TrimSpace(r.Get("type").String()))
	if t == "question" {
		// Inline flow items carry the flow kind in "type".
		t = strings.ToLower(strings.TrimSpace(firstString(r, "questionType", "qtype")))
	}
	if t != "" {
		if k, ok := typeAliases[t]; ok {
			return k, false
		}
		if booleanAliases[t] {
			return KindInput, true
		}
		q.Problems = append(q.Problems, fmt.Sprintf("unknown question type %q, treated as input", t))
		return KindInput, false
	}
	switch {
	case r.Get("choices").IsArray():
		return KindMCQ, false
	case r.Get("items").IsArray():
		return KindOrdering, false
	case r.Get("pairs").Exists():
		return KindMatching, false
	case r.Get("blanks").IsArray():
		return KindFillBlank, false
	}
	return KindInput, false
}

func parseMCQ(r gjson.Result, q *Question) MCQ {
	m := MCQ{CorrectIndex: NoSelection}
	flagged := NoSelection
	for i, c := range r.Get("choices").Array() {
		if c.IsObject() {
			m.Choices = append(m.Choices, strings.TrimSpace(firstString(c, "text", "label", "value")))
			if flagged == NoSelection && ParseBool(c.Get("correct"), false) {
				flagged = i
			}
			continue
		}
		m.Choices = append(m.Choices, strings.TrimSpace(c.String()))
	}

	idx := firstExisting(r, "correctIndex", "correct_index", "answerIndex")
	switch {
	case idx.Type == gjson.Number:
		i := int(idx.Int())
		if float64(i) == idx.Num && i >= 0 && i < len(m.Choices) {
			m.CorrectIndex = i
		} else {
			q.Problems = append(q.Problems, fmt.Sprintf("correctIndex %s out of range", idx.Raw))
		}
	case flagged != NoSelection:
		m.CorrectIndex = flagged
	}
	return m
}

func parseHints(r gjson.Result) []string {
	if hs := r.Get("hints"); hs.IsArray() {
		return stringList(hs)
	}
	if h := strings.TrimSpace(r.Get("hint").String()); h != "" {
		return []string{h}
	}
	return nil
}

// parsePairs accepts an array of {left,right} objects, an array of
// two-element arrays or an object mapping left to right.
func parsePairs(r gjson.Result) []Pair {
	var out []Pair
	add := func(left, right string) {
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if left != "" && right != "" {
			out = append(out, Pair{Left: left, Right: right})
		}
	}
	switch {
	case r.IsArray():
		for _, p := range r.Array() {
			switch {
			case p.IsObject():
				add(firstString(p, "left", "l", "a", "term"), firstString(p, "right", "r", "b", "match"))
			case p.IsArray():
				parts := p.Array()
				if len(parts) == 2 {
					add(parts[0].String(), parts[1].String())
				}
			}
		}
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			add(k.String(), v.String())
			return true
		})
	}
	return out
}

// lint records defects that leave a question unanswerable or inconsistent.
func lint(q Question) []string {
	var problems []string
	exp := Expected(q)
	switch b := q.Body.(type) {
	case Input:
		if exp.Text == "" {
			problems = append(problems, "input question has no answer or solution")
		}
	case MCQ:
		if len(b.Choices) == 0 {
			problems = append(problems, "mcq question has no choices")
		} else if exp.CorrectIndex < 0 {
			problems = append(problems, "mcq question has no resolvable correct choice")
		}
	case Ordering:
		if len(exp.List) < 2 {
			problems = append(problems, "ordering question needs at least two items")
		}
	case Matching:
		if len(exp.Pairs) == 0 {
			problems = append(problems, "matching question has no pairs")
		}
	case FillBlank:
		if len(exp.List) == 0 {
			problems = append(problems, "fill-blank question has no blanks")
		}
		if b.Markers > 0 && b.Markers != len(exp.List) {
			problems = append(problems, fmt.Sprintf("fill-blank text has %d markers but %d answers", b.Markers, len(exp.List)))
		}
	}
	return problems
}

// ParseBool reads a flag authored as a JSON bool, a number or one of the
// strings true/1/yes/y (case-insensitive). Absent or null values yield
// fallback.
func ParseBool(r gjson.Result, fallback bool) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		switch strings.ToLower(strings.TrimSpace(r.Str)) {
		case "true", "1", "yes", "y":
			return true
		}
		return false
	}
	return fallback
}

func firstExisting(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Type == gjson.String || v.Type == gjson.Number {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringOrRaw returns scalars as text and keeps arrays or objects as raw
// JSON, so an embedded solution can be decoded later.
func stringOrRaw(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.JSON:
		return r.Raw
	}
	return strings.TrimSpace(r.String())
}

// stringList reads an array of strings. A plain string is split like an
// authored solution list.
func stringList(r gjson.Result) []string {
	if r.Type == gjson.String {
		return SplitList(r.Str)
	}
	if !r.IsArray() {
		return nil
	}
	var out []string
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

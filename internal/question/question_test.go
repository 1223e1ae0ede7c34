package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParse_KindInference(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{"explicit mcq", `{"type":"mcq","text":"q","choices":["a","b"],"correctIndex":0}`, KindMCQ},
		{"explicit beats shape", `{"type":"input","text":"q","choices":["a"],"answer":"a"}`, KindInput},
		{"choices before items", `{"text":"q","choices":["a"],"items":["x","y"]}`, KindMCQ},
		{"items before pairs", `{"text":"q","items":["a","b"],"pairs":{"a":"b"}}`, KindOrdering},
		{"pairs before blanks", `{"text":"q","pairs":[["a","b"]],"blanks":["x"]}`, KindMatching},
		{"blanks", `{"text":"q [[blank]]","blanks":["x"]}`, KindFillBlank},
		{"default input", `{"text":"q","answer":"4"}`, KindInput},
		{"alias multiple-choice", `{"type":"Multiple-Choice","text":"q","choices":["a"],"correctIndex":0}`, KindMCQ},
		{"alias sort", `{"type":"sort","text":"q","items":["a","b"]}`, KindOrdering},
		{"alias pairs", `{"type":"pairs","text":"q","pairs":{"a":"b"}}`, KindMatching},
		{"alias fill_blank", `{"type":"fill_blank","text":"q","blanks":["x"]}`, KindFillBlank},
		{"alias numeric", `{"type":"numeric","text":"q","answer":3}`, KindInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Parse([]byte(tc.raw))
			assert.Equal(t, tc.want, q.Kind())
		})
	}
}

func TestParse_TrueFalse(t *testing.T) {
	for _, typ := range []string{"true-false", "truefalse", "tf", "boolean"} {
		q := Parse([]byte(`{"type":"` + typ + `","text":"The sky is blue","answer":true}`))
		require.Equal(t, KindInput, q.Kind(), typ)
		assert.True(t, q.IsBoolean(), typ)
		assert.Equal(t, "true", q.Body.(Input).Answer)
		assert.Empty(t, q.Problems)
	}
}

func TestParse_UnknownTypeFallsBackToInput(t *testing.T) {
	q := Parse([]byte(`{"type":"essay","text":"Write","answer":"x"}`))
	assert.Equal(t, KindInput, q.Kind())
	require.Len(t, q.Problems, 1)
	assert.Contains(t, q.Problems[0], "unknown question type")
}

func TestParse_Defaults(t *testing.T) {
	q := Parse([]byte(`{"answer":"4"}`))
	assert.Equal(t, PlaceholderText, q.Text)
	assert.Equal(t, 1.0, q.Points)
	assert.Empty(t, q.Hints)
	assert.False(t, q.Required)
	assert.Contains(t, q.Problems, "question has no text")

	q = Parse([]byte(`{"text":"q","answer":"4","hint":"count","points":3,"required":"yes","validation":{"fuzzy":1}}`))
	assert.Equal(t, []string{"count"}, q.Hints)
	assert.Equal(t, 3.0, q.Points)
	assert.True(t, q.Required)
	assert.True(t, q.Validation.Fuzzy)
	assert.False(t, q.Validation.Numeric)

	q = Parse([]byte(`{"text":"q","answer":"4","points":0}`))
	assert.Equal(t, 1.0, q.Points)
}

func TestParse_Malformed(t *testing.T) {
	q := Parse([]byte(`{"text":`))
	assert.Equal(t, KindInput, q.Kind())
	assert.NotEmpty(t, q.Problems)
	assert.False(t, IsAnswerCorrect(q, Response{Value: "anything"}, nil))

	q = Parse([]byte(`"just a string"`))
	assert.Equal(t, KindInput, q.Kind())
	assert.NotEmpty(t, q.Problems)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw      string
		fallback bool
		want     bool
	}{
		{`true`, false, true},
		{`false`, true, false},
		{`"true"`, false, true},
		{`"TRUE"`, false, true},
		{`"Yes"`, false, true},
		{`"y"`, false, true},
		{`"1"`, false, true},
		{`"no"`, true, false},
		{`"maybe"`, true, false},
		{`1`, false, true},
		{`2`, false, true},
		{`0`, true, false},
		{`null`, true, true},
		{``, true, true},
		{``, false, false},
	}
	for _, tc := range tests {
		got := ParseBool(gjson.Parse(tc.raw), tc.fallback)
		assert.Equal(t, tc.want, got, "raw %q fallback %v", tc.raw, tc.fallback)
	}
}

func TestExpected_ByKind(t *testing.T) {
	var got Answer = Expected(Parse([]byte(`{"text":"sort","items":["a","b"]}`)))
	assert.Equal(t, KindOrdering, got.Kind)
	assert.Equal(t, []string{"a", "b"}, got.List)
	assert.Equal(t, NoSelection, got.CorrectIndex)

	got = Expected(Parse([]byte(`{"type":"input","text":"q","answer":"  four  "}`)))
	assert.Equal(t, KindInput, got.Kind)
	assert.Equal(t, "four", got.Text)
	assert.Empty(t, got.List)
}

func TestExpected_MCQ(t *testing.T) {
	q := Parse([]byte(`{"text":"Capital?","choices":["Rome","Paris"],"solution":"  Paris "}`))
	assert.Equal(t, 1, Expected(q).CorrectIndex)
	assert.Empty(t, q.Problems)

	q = Parse([]byte(`{"text":"q","choices":["a","b"],"correctIndex":5,"solution":"a"}`))
	assert.Equal(t, 0, Expected(q).CorrectIndex)
	require.Len(t, q.Problems, 1)
	assert.Contains(t, q.Problems[0], "out of range")

	q = Parse([]byte(`{"text":"q","choices":["a","b"],"solution":"c"}`))
	assert.Equal(t, NoSelection, Expected(q).CorrectIndex)
	assert.Contains(t, q.Problems, "mcq question has no resolvable correct choice")

	q = Parse([]byte(`{"text":"q","choices":[{"text":"a"},{"text":"b","correct":true}]}`))
	assert.Equal(t, 1, Expected(q).CorrectIndex)
}

func TestExpected_ListsFromSolution(t *testing.T) {
	q := Parse([]byte(`{"type":"ordering","text":"q","solution":"a, b\nc،d"}`))
	assert.Equal(t, []string{"a", "b", "c", "d"}, Expected(q).List)

	q = Parse([]byte(`{"type":"fillblank","text":"x [[blank]] y [[blank]]","solution":"one، two"}`))
	assert.Equal(t, []string{"one", "two"}, Expected(q).List)
	assert.Empty(t, q.Problems)
}

func TestExpected_InputPrefersAnswer(t *testing.T) {
	q := Parse([]byte(`{"text":"q","answer":"  4 ","solution":"four"}`))
	assert.Equal(t, "4", Expected(q).Text)

	q = Parse([]byte(`{"text":"q","solution":"four"}`))
	assert.Equal(t, "four", Expected(q).Text)
}

func TestParse_PairShapes(t *testing.T) {
	want := []Pair{{Left: "cat", Right: "قط"}, {Left: "dog", Right: "كلب"}}
	raws := []string{
		`{"text":"q","pairs":[{"left":"cat","right":"قط"},{"left":"dog","right":"كلب"}]}`,
		`{"text":"q","pairs":[["cat","قط"],["dog","كلب"]]}`,
		`{"text":"q","pairs":{"cat":"قط","dog":"كلب"}}`,
		`{"type":"match","text":"q","solution":"[{\"left\":\"cat\",\"right\":\"قط\"},{\"left\":\"dog\",\"right\":\"كلب\"}]"}`,
		`{"type":"match","text":"q","solution":{"cat":"قط","dog":"كلب"}}`,
		`{"type":"match","text":"q","solution":"cat → قط، dog -> كلب"}`,
	}
	for _, raw := range raws {
		q := Parse([]byte(raw))
		assert.Equal(t, want, Expected(q).Pairs, raw)
	}
}

func TestSolutionPairs_Separators(t *testing.T) {
	got := SolutionPairs("a: 1\nb = 2\nc - 3\nd => 4\nbroken")
	assert.Equal(t, []Pair{
		{Left: "a", Right: "1"},
		{Left: "b", Right: "2"},
		{Left: "c", Right: "3"},
		{Left: "d", Right: "4"},
	}, got)
	assert.Nil(t, SolutionPairs("  "))
}

func TestSolutionText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"mcq", `{"text":"q","choices":["Rome","Paris"],"correctIndex":1}`, "Paris"},
		{"ordering", `{"text":"q","items":["a","b","c"]}`, "a، b، c"},
		{"matching", `{"text":"q","pairs":[["a","b"],["c","d"]]}`, "a → b، c → d"},
		{"input", `{"text":"q","answer":"42"}`, "42"},
		{"fallback", `{"text":"q","choices":["x"],"solution":"none of these"}`, "none of these"},
		{"nothing", `{"text":"q"}`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SolutionText(Parse([]byte(tc.raw))))
		})
	}
}

func TestParse_MarkerMismatch(t *testing.T) {
	q := Parse([]byte(`{"text":"a [[blank]] b [[blank]]","blanks":["x"]}`))
	assert.Equal(t, 2, q.Body.(FillBlank).Markers)
	require.Len(t, q.Problems, 1)
	assert.Contains(t, q.Problems[0], "2 markers but 1 answers")
}

func TestIsAnswerCorrect(t *testing.T) {
	input := Parse([]byte(`{"text":"2+2","answer":"4"}`))
	fuzzy := Parse([]byte(`{"text":"where","answer":"المدرسة","validation":{"fuzzy":true}}`))
	boolean := Parse([]byte(`{"type":"tf","text":"sky blue","answer":true}`))
	mcq := Parse([]byte(`{"text":"1+1","choices":["2","3"],"correctIndex":0}`))
	ordering := Parse([]byte(`{"text":"order","items":["a","b","c"]}`))
	matching := Parse([]byte(`{"text":"match","pairs":[["a","1"],["b","2"]]}`))
	blanks := Parse([]byte(`{"text":"[[blank]] + [[blank]]","blanks":["2","٣"]}`))

	tests := []struct {
		name string
		q    Question
		r    Response
		want bool
	}{
		{"input exact", input, Response{Value: " 4 "}, true},
		{"input eastern digit", input, Response{Value: "٤"}, true},
		{"input wrong", input, Response{Value: "5"}, false},
		{"input empty", input, Response{}, false},
		{"fuzzy article", fuzzy, Response{Value: "مدرسة"}, true},
		{"bool arabic", boolean, Response{Value: "صحيح"}, true},
		{"bool arabic false", boolean, Response{Value: "خطأ"}, false},
		{"bool english", boolean, Response{Value: "Yes"}, true},
		{"mcq right", mcq, Response{Selected: 0}, true},
		{"mcq wrong", mcq, Response{Selected: 1}, false},
		{"mcq unselected", mcq, EmptyResponse(), false},
		{"ordering right", ordering, Response{Order: []string{"a", " b", "c"}}, true},
		{"ordering wrong", ordering, Response{Order: []string{"b", "a", "c"}}, false},
		{"ordering unplaced", ordering, Response{Order: []string{"a", "", "c"}}, false},
		{"ordering short", ordering, Response{Order: []string{"a", "b"}}, false},
		{"matching right", matching, Response{Matches: []string{"1", "2"}}, true},
		{"matching wrong", matching, Response{Matches: []string{"2", "1"}}, false},
		{"matching missing", matching, Response{Matches: []string{"1"}}, false},
		{"blanks right", blanks, Response{Blanks: []string{"٢", "3"}}, true},
		{"blanks fewer", blanks, Response{Blanks: []string{"2"}}, false},
		{"blanks none", blanks, Response{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAnswerCorrect(tc.q, tc.r, nil))
		})
	}
}

func TestIsAnswerCorrect_CustomCompare(t *testing.T) {
	q := Parse([]byte(`{"text":"q","answer":"Paris"}`))
	assert.False(t, IsAnswerCorrect(q, Response{Value: "paris"}, nil))

	caseless := func(user, expected string) bool {
		return len(user) > 0 && len(user) == len(expected) && user[1:] == expected[1:]
	}
	assert.True(t, IsAnswerCorrect(q, Response{Value: "paris"}, caseless))
}

func TestStrictCompare_IgnoresFuzzy(t *testing.T) {
	q := Parse([]byte(`{"text":"q","answer":"المدرسة","validation":{"fuzzy":true}}`))
	assert.True(t, DefaultCompare(q)("مدرسة", "المدرسة"))
	assert.False(t, StrictCompare(q)("مدرسة", "المدرسة"))
}

func TestParse_InlineFlowItem(t *testing.T) {
	q := Parse([]byte(`{"type":"question","text":"1+1","choices":["2","3"],"correctIndex":0}`))
	assert.Equal(t, KindMCQ, q.Kind())
	assert.Empty(t, q.Problems)

	q = Parse([]byte(`{"type":"question","questionType":"tf","text":"ok?","answer":"yes"}`))
	assert.True(t, q.IsBoolean())
}

package card

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// ItemKind is the type tag of a flow item.
type ItemKind string

const (
	ItemGoal     ItemKind = "goal"
	ItemExplain  ItemKind = "explain"
	ItemExample  ItemKind = "example"
	ItemExample2 ItemKind = "example2"
	ItemMistake  ItemKind = "mistake"
	ItemNote     ItemKind = "note"
	ItemDetail   ItemKind = "detail"
	ItemVideo    ItemKind = "video"
	ItemQuestion ItemKind = "question"
)

var textKinds = map[ItemKind]bool{
	ItemGoal: true, ItemExplain: true, ItemExample: true, ItemExample2: true,
	ItemMistake: true, ItemNote: true, ItemDetail: true,
}

// legacyKeys is the synthesis order for concepts authored as flat keys.
var legacyKeys = []ItemKind{ItemGoal, ItemExplain, ItemExample, ItemExample2, ItemMistake, ItemNote, ItemQuestion}

// FlowItem is one step of a concept.
type FlowItem struct {
	Kind    ItemKind
	Text    string
	Details []string

	// Video fields.
	URL         string
	Title       string
	Description string

	// Question is the raw question payload of a question item and Path its
	// location in the card document, in gjson/sjson path syntax.
	Question string
	Path     string

	Problems []string
}

// IsQuestion reports whether the item is graded.
func (it FlowItem) IsQuestion() bool { return it.Kind == ItemQuestion }

// Concept is a titled group of flow items.
type Concept struct {
	Title string

	path string
	raw  gjson.Result
	once sync.Once
	flow []FlowItem
}

func newConcept(i int, r gjson.Result) *Concept {
	title := strings.TrimSpace(r.Get("title").String())
	if title == "" {
		title = fmt.Sprintf("Concept %d", i+1)
	}
	return &Concept{Title: title, path: fmt.Sprintf("concepts.%d", i), raw: r}
}

// IsLegacy reports whether the concept is authored as flat keys instead of a
// flow array.
func (c *Concept) IsLegacy() bool { return !c.raw.Get("flow").IsArray() }

// Flow returns the concept's items. Legacy concepts are synthesized on first
// access; every call returns the same slice.
func (c *Concept) Flow() []FlowItem {
	c.once.Do(func() {
		if f := c.raw.Get("flow"); f.IsArray() {
			for j, r := range f.Array() {
				c.flow = append(c.flow, parseItem(r, fmt.Sprintf("%s.flow.%d", c.path, j)))
			}
			return
		}
		c.flow = synthesize(c.raw, c.path)
	})
	return c.flow
}

// synthesize builds a flow from flat keys in the order goal, explain,
// example, example2, mistake, note, question.
func synthesize(r gjson.Result, path string) []FlowItem {
	var out []FlowItem
	for _, key := range legacyKeys {
		v := r.Get(string(key))
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		values := []gjson.Result{v}
		if v.IsArray() {
			values = v.Array()
		}
		for k, val := range values {
			switch {
			case key == ItemQuestion && val.IsObject():
				qpath := path + ".question"
				if v.IsArray() {
					qpath = fmt.Sprintf("%s.%d", qpath, k)
				}
				out = append(out, FlowItem{Kind: ItemQuestion, Question: val.Raw, Path: qpath})
			case val.Type == gjson.String:
				if s := strings.TrimSpace(val.Str); s != "" {
					kind := key
					if kind == ItemQuestion {
						kind = ItemNote
					}
					out = append(out, FlowItem{Kind: kind, Text: s})
				}
			}
		}
	}
	return out
}

// parseItem resolves a flow item. A nested "q" or "question" object wins;
// otherwise the item's own fields form the question.
func parseItem(r gjson.Result, path string) FlowItem {
	kind := ItemKind(strings.ToLower(strings.TrimSpace(r.Get("type").String())))
	if kind == "" {
		kind = inferItemKind(r)
	}

	switch {
	case kind == ItemQuestion:
		it := FlowItem{Kind: ItemQuestion, Question: r.Raw, Path: path}
		for _, key := range []string{"q", "question"} {
			if nested := r.Get(key); nested.IsObject() {
				it.Question = nested.Raw
				it.Path = path + "." + key
				break
			}
		}
		return it
	case kind == ItemVideo:
		return FlowItem{
			Kind:        ItemVideo,
			URL:         strings.TrimSpace(r.Get("url").String()),
			Title:       strings.TrimSpace(r.Get("title").String()),
			Description: strings.TrimSpace(r.Get("description").String()),
		}
	case textKinds[kind]:
		return FlowItem{Kind: kind, Text: strings.TrimSpace(r.Get("text").String()), Details: texts(r.Get("details"))}
	}
	return FlowItem{
		Kind:     ItemNote,
		Text:     strings.TrimSpace(r.Get("text").String()),
		Details:  texts(r.Get("details")),
		Problems: []string{fmt.Sprintf("unknown flow item type %q, shown as note", kind)},
	}
}

func inferItemKind(r gjson.Result) ItemKind {
	if r.Get("q").IsObject() || r.Get("question").IsObject() {
		return ItemQuestion
	}
	for _, key := range []string{"choices", "items", "pairs", "blanks", "answer"} {
		if r.Get(key).Exists() {
			return ItemQuestion
		}
	}
	if r.Get("url").Exists() {
		return ItemVideo
	}
	return ItemNote
}

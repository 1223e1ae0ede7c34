package validate

import (
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
)

// Ordering validates a sequence the learner builds by placing shuffled items
// into numbered slots.
type Ordering struct {
	base
	shuffled []string
	slots    []string
}

func newOrdering(b base, rng Shuffler) *Ordering {
	return &Ordering{
		base:     b,
		shuffled: shuffled(b.exp.List, rng),
		slots:    make([]string, len(b.exp.List)),
	}
}

// Shuffled returns the presentation order. It never equals the correct order
// when there are at least two distinct items.
func (v *Ordering) Shuffled() []string { return v.shuffled }

// Slots returns the placed items; "" marks an empty slot.
func (v *Ordering) Slots() []string { return v.slots }

// Available returns the shuffled items that are not placed yet.
func (v *Ordering) Available() []string {
	used := make(map[string]int, len(v.slots))
	for _, s := range v.slots {
		if s != "" {
			used[s]++
		}
	}
	var out []string
	for _, item := range v.shuffled {
		if used[item] > 0 {
			used[item]--
			continue
		}
		out = append(out, item)
	}
	return out
}

// Place puts item into slot, replacing what was there.
func (v *Ordering) Place(slot int, item string) {
	if slot < 0 || slot >= len(v.slots) {
		return
	}
	v.slots[slot] = item
}

// Append places item into the first empty slot. It reports false when every
// slot is taken.
func (v *Ordering) Append(item string) bool {
	for i, s := range v.slots {
		if s == "" {
			v.slots[i] = item
			return true
		}
	}
	return false
}

// Clear empties slot.
func (v *Ordering) Clear(slot int) {
	if slot >= 0 && slot < len(v.slots) {
		v.slots[slot] = ""
	}
}

// Undo empties the last filled slot.
func (v *Ordering) Undo() {
	for i := len(v.slots) - 1; i >= 0; i-- {
		if v.slots[i] != "" {
			v.slots[i] = ""
			return
		}
	}
}

func (v *Ordering) Response() question.Response {
	r := question.EmptyResponse()
	r.Order = append([]string(nil), v.slots...)
	return r
}

func (v *Ordering) Reset() {
	for i := range v.slots {
		v.slots[i] = ""
	}
}

func (v *Ordering) Check() Verdict {
	if len(v.exp.List) == 0 {
		return incorrect()
	}
	for _, s := range v.slots {
		if textmatch.NormalizeSpace(s) == "" {
			return incomplete("Place all items before checking.")
		}
	}
	for i, want := range v.exp.List {
		if !textmatch.ExactEqual(v.slots[i], want) {
			return incorrect()
		}
	}
	return correct(false)
}

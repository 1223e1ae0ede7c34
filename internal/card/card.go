// Package card models weekly lesson cards: goals, prerequisites, concepts
// made of flow items, and an optional final assessment.
package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidCard is returned for card definitions that fail validation.
	ErrInvalidCard = errors.New("invalid card")

	// ErrUnsupportedVersion is returned when schemaVersion has a major
	// version other than v1.
	ErrUnsupportedVersion = errors.New("unsupported card schema version")
)

// Card is one week's lesson unit.
type Card struct {
	ID            string
	Week          int
	Title         string
	Prereq        *int
	Goals         []string
	Prerequisites []string
	Concepts      []*Concept
	Assessment    *Assessment
	SchemaVersion string
}

// Assessment is the optional scored section at the end of a card. Questions
// hold raw question payloads; Paths[i] locates Questions[i] in the card
// document.
type Assessment struct {
	Title     string
	Questions []string
	Paths     []string
}

// Parse validates data against the card schema and decodes it.
func Parse(data []byte) (*Card, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	r := gjson.ParseBytes(data)

	c := &Card{
		ID:            strings.TrimSpace(r.Get("id").String()),
		Week:          int(r.Get("week").Int()),
		Title:         strings.TrimSpace(r.Get("title").String()),
		Goals:         texts(r.Get("goals")),
		Prerequisites: texts(r.Get("prerequisites")),
		SchemaVersion: r.Get("schemaVersion").String(),
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("week-%d", c.Week)
	}
	if c.Title == "" {
		c.Title = fmt.Sprintf("Week %d", c.Week)
	}
	if p := r.Get("prereq"); p.Type == gjson.Number {
		week := int(p.Int())
		if week == c.Week {
			return nil, fmt.Errorf("%w: week %d lists itself as prereq", ErrInvalidCard, c.Week)
		}
		c.Prereq = &week
	}

	for i, cr := range r.Get("concepts").Array() {
		c.Concepts = append(c.Concepts, newConcept(i, cr))
	}
	c.Assessment = parseAssessment(r.Get("assessment"))
	return c, nil
}

// parseAssessment accepts either an array of questions or an object with a
// questions array. An empty assessment is treated as absent.
func parseAssessment(r gjson.Result) *Assessment {
	a := &Assessment{}
	qs, prefix := r, "assessment"
	if r.IsObject() {
		a.Title = strings.TrimSpace(r.Get("title").String())
		qs, prefix = r.Get("questions"), "assessment.questions"
	}
	if !qs.IsArray() {
		return nil
	}
	for i, q := range qs.Array() {
		if q.IsObject() {
			a.Questions = append(a.Questions, q.Raw)
			a.Paths = append(a.Paths, fmt.Sprintf("%s.%d", prefix, i))
		}
	}
	if len(a.Questions) == 0 {
		return nil
	}
	if a.Title == "" {
		a.Title = "Final assessment"
	}
	return a
}

// texts reads a list of strings, taking "text" from object entries.
func texts(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		s := v.String()
		if v.IsObject() {
			s = v.Get("text").String()
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

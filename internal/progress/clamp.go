package progress

// Bounds describes the current shape of a card.
type Bounds struct {
	ItemCounts    []int // items per concept
	HasAssessment bool
}

func (b Bounds) lastItem() (concept, item int, ok bool) {
	for c := len(b.ItemCounts) - 1; c >= 0; c-- {
		if b.ItemCounts[c] > 0 {
			return c, b.ItemCounts[c] - 1, true
		}
	}
	return 0, 0, false
}

func (b Bounds) firstItemFrom(concept int) (int, bool) {
	for c := max(concept, 0); c < len(b.ItemCounts); c++ {
		if b.ItemCounts[c] > 0 {
			return c, true
		}
	}
	return 0, false
}

// Clamp maps rec onto a valid position of a card with bounds b. Positions
// past the end of a concept move to its last item, empty concepts move to
// the next concept with items, and stages the card can no longer reach fall
// back to the nearest reachable one. Records are never rejected.
func Clamp(rec Record, b Bounds) Record {
	out := rec
	if !out.Stage.Valid() {
		out.Stage = StageGoals
	}

	switch out.Stage {
	case StageGoals, StagePrereq:
		out.ConceptIndex, out.ItemIndex = 0, 0
		return out

	case StageAssessment:
		if b.HasAssessment {
			out.ConceptIndex, out.ItemIndex = 0, 0
			return out
		}
		c, i, ok := b.lastItem()
		if !ok {
			return Record{Stage: StagePrereq, UpdatedAt: rec.UpdatedAt}
		}
		out.Stage = StageConcept
		out.ConceptIndex, out.ItemIndex = c, i
		out.Assessment = AssessmentState{}
		return out
	}

	// StageConcept
	if out.ConceptIndex >= len(b.ItemCounts) {
		if b.HasAssessment {
			return Record{Stage: StageAssessment, UpdatedAt: rec.UpdatedAt}
		}
		c, i, ok := b.lastItem()
		if !ok {
			return Record{Stage: StagePrereq, UpdatedAt: rec.UpdatedAt}
		}
		out.ConceptIndex, out.ItemIndex = c, i
		return out
	}

	c, ok := b.firstItemFrom(out.ConceptIndex)
	if !ok {
		if b.HasAssessment {
			return Record{Stage: StageAssessment, UpdatedAt: rec.UpdatedAt}
		}
		lc, li, ok := b.lastItem()
		if !ok {
			return Record{Stage: StagePrereq, UpdatedAt: rec.UpdatedAt}
		}
		out.ConceptIndex, out.ItemIndex = lc, li
		return out
	}
	if c != out.ConceptIndex {
		out.ConceptIndex, out.ItemIndex = c, 0
		return out
	}
	out.ItemIndex = min(max(out.ItemIndex, 0), b.ItemCounts[c]-1)
	return out
}

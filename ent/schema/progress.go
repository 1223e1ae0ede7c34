package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Progress is the resume point and done flag of one student on one card.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("student_id").
			NotEmpty(),
		field.Int("week").
			Positive(),
		field.String("stage").
			Optional().
			Comment("goals, prereq, concept or assessment; NULL until a position is saved"),
		field.Int("concept_index").
			Default(0),
		field.Int("item_index").
			Default(0),
		field.Int("assessment_attempts").
			Default(0),
		field.Bool("assessment_completed").
			Default(false),
		field.Float("assessment_score").
			Default(0),
		field.Float("assessment_total").
			Default(0),
		field.Bool("done").
			Default(false).
			Comment("Monotonic; only an explicit reset clears it"),
		field.Time("updated_at").
			Default(time.Now),
	}
}

func (Progress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id", "week").Unique(),
	}
}

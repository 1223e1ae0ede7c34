package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records one graded answer.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}, LessonMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("item_id").
			Comment("Flow table id of the question"),
		field.String("kind").
			NotEmpty().
			Comment("input, mcq, ordering, matching or fillblank"),
		field.Int("attempt").
			Comment("1-based count of graded checks on this item"),
		field.Bool("correct"),
		field.Bool("assessment").
			Default(false).
			Comment("Graded as part of the final assessment"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("correct"),
	}
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// HintEvent records a hint shown after a wrong attempt.
type HintEvent struct {
	ent.Schema
}

func (HintEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}, LessonMixin{}}
}

func (HintEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int("item_id"),
		field.Int("attempt"),
		field.String("source").
			Comment("author, default or generic"),
		field.String("hint_text").
			NotEmpty(),
		field.Bool("solution_revealed").
			Default(false),
	}
}

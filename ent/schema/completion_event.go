package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// CompletionEvent records a finished card.
type CompletionEvent struct {
	ent.Schema
}

func (CompletionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}, LessonMixin{}}
}

func (CompletionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("card_title"),
		field.Bool("has_score").
			Default(false),
		field.Float("score").
			Default(0),
		field.Float("total").
			Default(0),
	}
}

package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin holds the ordering fields of every analytics event table.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global sequence shared by all event tables"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("UTC time the event was appended"),
	}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
	}
}

// LessonMixin identifies the student, card and session an event belongs to.
type LessonMixin struct {
	mixin.Schema
}

func (LessonMixin) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Engine session UUID"),
		field.String("student_id").
			NotEmpty(),
		field.Int("week").
			Positive().
			Comment("Card week"),
	}
}

func (LessonMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id", "week"),
		index.Fields("session_id"),
	}
}

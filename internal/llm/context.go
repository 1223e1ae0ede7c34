package llm

import "context"

// tags label a request in the event log. They travel in the context so the
// logging decorator sees them without widening Request.
type tags struct {
	purpose  string
	week     int
	question string
}

type tagsKey struct{}

func tagsFrom(ctx context.Context) tags {
	t, _ := ctx.Value(tagsKey{}).(tags)
	return t
}

func withTags(ctx context.Context, set func(*tags)) context.Context {
	t := tagsFrom(ctx)
	set(&t)
	return context.WithValue(ctx, tagsKey{}, t)
}

// WithPurpose attaches a purpose label, e.g. "hint-authoring".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return withTags(ctx, func(t *tags) { t.purpose = purpose })
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := tagsFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// WithWeek tags requests made under ctx with the card they serve.
func WithWeek(ctx context.Context, week int) context.Context {
	return withTags(ctx, func(t *tags) { t.week = week })
}

// WeekFrom returns the card week attached by WithWeek, or 0.
func WeekFrom(ctx context.Context) int {
	return tagsFrom(ctx).week
}

// WithQuestion tags requests with the document path of the question they
// are about.
func WithQuestion(ctx context.Context, path string) context.Context {
	return withTags(ctx, func(t *tags) { t.question = path })
}

// QuestionFrom returns the question path attached by WithQuestion.
func QuestionFrom(ctx context.Context) string {
	return tagsFrom(ctx).question
}

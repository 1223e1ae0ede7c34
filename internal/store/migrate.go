package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/weekcards/ent/schema"
)

const (
	progressTable   = "progress"
	attemptTable    = "attempt_events"
	hintTable       = "hint_events"
	completionTable = "completion_events"
	llmRequestTable = "llm_request_events"
)

// tableSchemas maps each table to the ent schema that declares its columns.
var tableSchemas = []struct {
	name   string
	schema ent.Interface
}{
	{progressTable, entschema.Progress{}},
	{attemptTable, entschema.AttemptEvent{}},
	{hintTable, entschema.HintEvent{}},
	{completionTable, entschema.CompletionEvent{}},
	{llmRequestTable, entschema.LLMRequestEvent{}},
}

// migrate creates or alters every table to match its schema declaration.
func migrate(ctx context.Context, drv dialect.Driver) error {
	tables := make([]*schema.Table, 0, len(tableSchemas))
	for _, ts := range tableSchemas {
		t, err := buildTable(ts.name, ts.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}

// buildTable turns an ent schema's field and index descriptors into a
// migration table with an auto-increment id primary key.
func buildTable(name string, s ent.Interface) (*schema.Table, error) {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := schema.NewTable(name).AddPrimary(id)

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		t.AddColumn(column(d))
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		idxName := name + "_" + strings.Join(d.Fields, "_")
		if d.Unique {
			idxName += "_key"
		}
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func column(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional || d.Nillable,
	}
	if d.StorageKey != "" {
		c.Name = d.StorageKey
	}
	// Function defaults such as time.Now are applied by the repositories.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}

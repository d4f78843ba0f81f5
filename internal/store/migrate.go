package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Both event tables share the sequence/timestamp pair so rows from either
// can be ordered against each other. global_sequence holds the counter.

var (
	generationLogsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "requester_id", Type: field.TypeString, Default: ""},
		{Name: "source", Type: field.TypeString},
		{Name: "media_type", Type: field.TypeString, Default: ""},
		{Name: "content_length", Type: field.TypeInt, Default: 0},
		{Name: "question_count", Type: field.TypeInt},
		{Name: "questions_generated", Type: field.TypeInt, Default: 0},
		{Name: "attempts", Type: field.TypeInt, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "tokens_used", Type: field.TypeInt, Default: 0},
		{Name: "elapsed_ms", Type: field.TypeInt64, Default: 0},
		{Name: "was_truncated", Type: field.TypeBool, Default: false},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
	}

	generationLogsTable = &schema.Table{
		Name:       "generation_logs",
		Columns:    generationLogsColumns,
		PrimaryKey: []*schema.Column{generationLogsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "generationlog_timestamp", Columns: []*schema.Column{generationLogsColumns[2]}},
			{Name: "generationlog_requester_id", Columns: []*schema.Column{generationLogsColumns[4]}},
			{Name: "generationlog_success", Columns: []*schema.Column{generationLogsColumns[11]}},
		},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "request_id", Type: field.TypeString, Default: ""},
		{Name: "requester_id", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}

	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmRequestEventsColumns[6]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[7]}},
		},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}

	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	tables = []*schema.Table{
		generationLogsTable,
		llmRequestEventsTable,
		globalSequenceTable,
	}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	profilesTable      = "profiles"
	activeProfileTable = "active_profile"
	llmEventsTable     = "llm_request_events"
)

var (
	profileColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "data", Type: field.TypeString, Size: 1 << 20},
		{Name: "updated_at", Type: field.TypeTime},
	}
	profiles = &schema.Table{
		Name:       profilesTable,
		Columns:    profileColumns,
		PrimaryKey: []*schema.Column{profileColumns[0]},
		Indexes: []*schema.Index{
			{Name: "profile_updated_at", Columns: []*schema.Column{profileColumns[2]}},
		},
	}

	// activeProfile holds at most one row, id 1.
	activeProfileColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "name", Type: field.TypeString},
	}
	activeProfile = &schema.Table{
		Name:       activeProfileTable,
		Columns:    activeProfileColumns,
		PrimaryKey: []*schema.Column{activeProfileColumns[0]},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true, Size: 1 << 16},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: 1 << 20},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: 1 << 20},
	}
	llmEvents = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[4]}},
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventColumns[1]}},
		},
	}

	tables = []*schema.Table{profiles, activeProfile, llmEvents}
)

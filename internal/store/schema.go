package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// Table names.
const (
	documentsTable   = "documents"
	generationsTable = "generations"
	llmEventsTable   = "llm_request_events"
)

// schemaDDL is applied in order on every Open. Statements must be idempotent.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		page_count INTEGER NOT NULL DEFAULT 0,
		char_count INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS documents_created_at ON documents (created_at)`,
	`CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
		question_count INTEGER NOT NULL,
		parsed_count INTEGER NOT NULL DEFAULT 0,
		model TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS generations_document_id ON generations (document_id)`,
	`CREATE INDEX IF NOT EXISTS generations_created_at ON generations (created_at)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_provider ON llm_request_events (provider)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose ON llm_request_events (purpose)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_success ON llm_request_events (success)`,
}

func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schemaDDL {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var generationColumns = []string{
	"id", "document_id", "question_count", "parsed_count", "model", "content",
	"input_tokens", "output_tokens", "created_at",
}

type generationRow struct {
	ID            string `sql:"id"`
	DocumentID    string `sql:"document_id"`
	QuestionCount int    `sql:"question_count"`
	ParsedCount   int    `sql:"parsed_count"`
	Model         string `sql:"model"`
	Content       string `sql:"content"`
	InputTokens   int    `sql:"input_tokens"`
	OutputTokens  int    `sql:"output_tokens"`
	CreatedAt     int64  `sql:"created_at"`
}

func (r generationRow) toGeneration() Generation {
	return Generation{
		ID:            r.ID,
		DocumentID:    r.DocumentID,
		QuestionCount: r.QuestionCount,
		ParsedCount:   r.ParsedCount,
		Model:         r.Model,
		Text:          r.Content,
		InputTokens:   r.InputTokens,
		OutputTokens:  r.OutputTokens,
		CreatedAt:     time.UnixMilli(r.CreatedAt).UTC(),
	}
}

type generationRepo struct {
	drv *entsql.Driver
}

func (r *generationRepo) Save(ctx context.Context, gen *Generation) error {
	if gen.ID == "" {
		gen.ID = uuid.NewString()
	}
	if gen.CreatedAt.IsZero() {
		gen.CreatedAt = time.Now().UTC()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(generationsTable).
		Columns(generationColumns...).
		Values(gen.ID, gen.DocumentID, gen.QuestionCount, gen.ParsedCount, gen.Model, gen.Text,
			gen.InputTokens, gen.OutputTokens, gen.CreatedAt.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

func (r *generationRepo) Get(ctx context.Context, id string) (*Generation, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(generationColumns...).
		From(b.Table(generationsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1)

	found, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("generation %s: %w", id, ErrNotFound)
	}
	return &found[0], nil
}

func (r *generationRepo) List(ctx context.Context, opts ListOpts) ([]Generation, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(generationColumns...).
		From(b.Table(generationsTable)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))

	if opts.DocumentID != "" {
		sel.Where(entsql.EQ("document_id", opts.DocumentID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			// SQLite requires LIMIT before OFFSET.
			sel.Limit(-1)
		}
		sel.Offset(opts.Offset)
	}

	return r.query(ctx, sel)
}

func (r *generationRepo) Delete(ctx context.Context, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(generationsTable).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete generation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete generation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("generation %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *generationRepo) query(ctx context.Context, sel *entsql.Selector) ([]Generation, error) {
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var found []generationRow
	if err := entsql.ScanSlice(rows, &found); err != nil {
		return nil, fmt.Errorf("scan generations: %w", err)
	}

	out := make([]Generation, len(found))
	for i, row := range found {
		out[i] = row.toGeneration()
	}
	return out, nil
}

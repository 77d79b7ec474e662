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

var documentColumns = []string{
	"id", "name", "size_bytes", "page_count", "char_count", "content", "created_at",
}

// documentRow mirrors the documents table for ScanSlice.
type documentRow struct {
	ID        string `sql:"id"`
	Name      string `sql:"name"`
	SizeBytes int64  `sql:"size_bytes"`
	PageCount int    `sql:"page_count"`
	CharCount int    `sql:"char_count"`
	Content   string `sql:"content"`
	CreatedAt int64  `sql:"created_at"`
}

func (r documentRow) toDocument() *Document {
	return &Document{
		ID:        r.ID,
		Name:      r.Name,
		SizeBytes: r.SizeBytes,
		PageCount: r.PageCount,
		CharCount: r.CharCount,
		Text:      r.Content,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

type documentRepo struct {
	drv *entsql.Driver
}

func (r *documentRepo) Save(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(documentsTable).
		Columns(documentColumns...).
		Values(doc.ID, doc.Name, doc.SizeBytes, doc.PageCount, doc.CharCount, doc.Text, doc.CreatedAt.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (r *documentRepo) Get(ctx context.Context, id string) (*Document, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(documentColumns...).
		From(b.Table(documentsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}
	defer rows.Close()

	var found []documentRow
	if err := entsql.ScanSlice(rows, &found); err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return found[0].toDocument(), nil
}

func (r *documentRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(documentsTable).
		Where(entsql.LT("created_at", cutoff.UnixMilli())).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("prune documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune documents: %w", err)
	}
	return n, nil
}

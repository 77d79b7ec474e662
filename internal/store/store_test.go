package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.DocumentRepo().Save(context.Background(), &Document{Name: "a.pdf", Text: "x"}))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	gens, err := s2.GenerationRepo().List(context.Background(), ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, gens)
}

func TestDocumentSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.DocumentRepo()
	ctx := context.Background()

	doc := &Document{
		Name:      "biology.pdf",
		SizeBytes: 2048,
		PageCount: 3,
		CharCount: 1500,
		Text:      "Cells are the basic unit of life.",
	}
	require.NoError(t, repo.Save(ctx, doc))
	require.NotEmpty(t, doc.ID)
	require.False(t, doc.CreatedAt.IsZero())

	got, err := repo.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.SizeBytes, got.SizeBytes)
	assert.Equal(t, doc.PageCount, got.PageCount)
	assert.Equal(t, doc.CharCount, got.CharCount)
	assert.Equal(t, doc.Text, got.Text)
	assert.Equal(t, doc.CreatedAt.UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestDocumentGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.DocumentRepo().Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestGenerationLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := &Document{Name: "notes.pdf", Text: "content"}
	require.NoError(t, s.DocumentRepo().Save(ctx, doc))

	repo := s.GenerationRepo()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		gen := &Generation{
			DocumentID:    doc.ID,
			QuestionCount: 5,
			ParsedCount:   5,
			Model:         "gemma2-9b-it",
			Text:          "Q1: ...",
			InputTokens:   100 + i,
			OutputTokens:  200,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Save(ctx, gen))
	}

	all, err := repo.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest first.
	assert.Equal(t, 102, all[0].InputTokens)
	assert.Equal(t, 100, all[2].InputTokens)

	page, err := repo.List(ctx, ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 101, page[0].InputTokens)

	skipped, err := repo.List(ctx, ListOpts{Offset: 2})
	require.NoError(t, err)
	require.Len(t, skipped, 1)

	byDoc, err := repo.List(ctx, ListOpts{DocumentID: "other"})
	require.NoError(t, err)
	assert.Empty(t, byDoc)

	got, err := repo.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "gemma2-9b-it", got.Model)
	assert.Equal(t, doc.ID, got.DocumentID)

	require.NoError(t, repo.Delete(ctx, got.ID))
	_, err = repo.Get(ctx, got.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, got.ID), ErrNotFound)
}

func TestGenerationSave_RequiresDocument(t *testing.T) {
	s := openTestStore(t)
	err := s.GenerationRepo().Save(context.Background(), &Generation{
		DocumentID:    "no-such-document",
		QuestionCount: 5,
		Text:          "Q1: ...",
	})
	assert.Error(t, err)
}

func TestDocumentPrune_CascadesToGenerations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	docs := s.DocumentRepo()
	gens := s.GenerationRepo()

	now := time.Now().UTC()
	old := &Document{Name: "old.pdf", Text: "old", CreatedAt: now.Add(-48 * time.Hour)}
	fresh := &Document{Name: "fresh.pdf", Text: "fresh", CreatedAt: now}
	require.NoError(t, docs.Save(ctx, old))
	require.NoError(t, docs.Save(ctx, fresh))
	require.NoError(t, gens.Save(ctx, &Generation{DocumentID: old.ID, QuestionCount: 1, Text: "a"}))
	require.NoError(t, gens.Save(ctx, &Generation{DocumentID: fresh.ID, QuestionCount: 1, Text: "b"}))

	n, err := docs.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = docs.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = docs.Get(ctx, fresh.ID)
	assert.NoError(t, err)

	remaining, err := gens.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].DocumentID)
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "groq", Model: "gemma2-9b-it", Purpose: "mcq-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "groq", Model: "gemma2-9b-it", Purpose: "mcq-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "mcq-structured", LatencyMs: 10, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Greater(t, all[0].Sequence, all[1].Sequence)
	assert.Equal(t, "boom", all[0].ErrorMessage)
	assert.False(t, all[0].Success)
	assert.True(t, all[1].Success)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2, Purpose: "mcq-gen"})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	for _, e := range limited {
		assert.Equal(t, "mcq-gen", e.Purpose)
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)

	one, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 100, one.InputTokens)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "groq", Model: "gemma2-9b-it", Purpose: "mcq-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 100, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "groq", Model: "gemma2-9b-it", Purpose: "mcq-gen", InputTokens: 200, OutputTokens: 70, LatencyMs: 300, Success: true}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "openai", Model: "gpt-4o-mini", Purpose: "mcq-structured", InputTokens: 10, OutputTokens: 5, LatencyMs: 50, Success: true}))

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, UsageStats{Purpose: "mcq-gen", Calls: 2, InputTokens: 300, OutputTokens: 120, AvgLatencyMs: 200}, byPurpose[0])
	assert.Equal(t, "mcq-structured", byPurpose[1].Purpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, ModelUsage{Model: "gemma2-9b-it", Calls: 2, InputTokens: 300, OutputTokens: 120}, byModel[0])
	assert.Equal(t, ModelUsage{Model: "gpt-4o-mini", Calls: 1, InputTokens: 10, OutputTokens: 5}, byModel[1])
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("MCQGEN_DB", filepath.Join(dir, "custom", "quiz.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "quiz.db"), p)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("MCQGEN_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mcqgen", "mcqgen.db"), p)
}

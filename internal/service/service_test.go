package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/llm"
	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

const reply = `Q1: What is the basic unit of life?
A. Atom
B. Cell
C. Organ
D. Tissue
Correct Answer: B
`

func lessonText() string {
	var sb strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&sb, "Paragraph %d: cells are the smallest units that carry out the functions of life.\n", i)
	}
	return sb.String()
}

func pdfOf(t *testing.T, text string) []byte {
	t.Helper()
	data, err := export.PDF(context.Background(), text)
	require.NoError(t, err)
	return data
}

type fixture struct {
	svc   *Service
	mock  *llm.MockProvider
	store *store.Store
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(responses...)
	svc := New(Options{
		Generator:   mcq.New(mock, mcq.DefaultConfig()),
		Documents:   st.DocumentRepo(),
		Generations: st.GenerationRepo(),
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &fixture{svc: svc, mock: mock, store: st}
}

func TestPrepare_StoresDocument(t *testing.T) {
	f := newFixture(t)
	data := pdfOf(t, lessonText())

	doc, err := f.svc.Prepare(context.Background(), "cells.pdf", data)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "cells.pdf", doc.Name)
	assert.Equal(t, int64(len(data)), doc.SizeBytes)
	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, pdftext.Length(doc.Text), doc.CharCount)
	assert.Contains(t, doc.Text, "Paragraph 6: cells are the smallest units")

	stored, err := f.svc.Document(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Text, stored.Text)
}

func TestPrepare_Gates(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Prepare(context.Background(), "short.pdf", pdfOf(t, "Too little text."))
	assert.ErrorIs(t, err, pdftext.ErrTooShort)
	assert.Equal(t, MsgTooShort, UserMessage(err))

	var long strings.Builder
	for range 100 {
		long.WriteString(strings.Repeat("lorem ipsum ", 8) + "\n")
	}
	_, err = f.svc.Prepare(context.Background(), "long.pdf", pdfOf(t, long.String()))
	assert.ErrorIs(t, err, pdftext.ErrTooLong)
	assert.Equal(t, MsgTooLong, UserMessage(err))

	_, err = f.svc.Prepare(context.Background(), "notes.txt", []byte("plain text"))
	assert.ErrorIs(t, err, pdftext.ErrNotPDF)

	assert.Equal(t, 0, f.mock.CallCount(), "rejected uploads never reach the model")
}

func TestPrepare_CustomLimits(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "limits.db"))
	require.NoError(t, err)
	defer st.Close()

	svc := New(Options{
		Documents:   st.DocumentRepo(),
		Generations: st.GenerationRepo(),
		Limits:      pdftext.Limits{MinChars: 5, MaxChars: 100},
	})
	assert.Equal(t, 100, svc.Limits().MaxChars)

	_, err = svc.Prepare(context.Background(), "tiny.pdf", pdfOf(t, "Short but enough."))
	assert.NoError(t, err)
}

func TestRun_GeneratesAndRecords(t *testing.T) {
	f := newFixture(t, llm.MockResponse{
		Content: []byte(reply),
		Usage:   llm.Usage{InputTokens: 400, OutputTokens: 60},
	})
	ctx := context.Background()

	out, err := f.svc.Run(ctx, "cells.pdf", pdfOf(t, lessonText()), 1)
	require.NoError(t, err)
	assert.Equal(t, reply, out.Result.Text)
	assert.Equal(t, reply, out.Generation.Text)
	assert.Equal(t, 1, out.Generation.QuestionCount)
	assert.Equal(t, 1, out.Generation.ParsedCount)
	assert.Equal(t, 400, out.Generation.InputTokens)
	assert.Equal(t, out.Document.ID, out.Generation.DocumentID)

	req, ok := f.mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, mcq.BuildPrompt(out.Document.Text, 1), req.Messages[0].Content)

	history, err := f.svc.History(ctx, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, out.Generation.ID, history[0].ID)
}

func TestExport_MatchesDisplayedText(t *testing.T) {
	f := newFixture(t, llm.TextResponse(reply))
	ctx := context.Background()

	out, err := f.svc.Run(ctx, "cells.pdf", pdfOf(t, lessonText()), 1)
	require.NoError(t, err)

	txt, err := f.svc.Export(ctx, out.Generation.ID, export.FormatTXT)
	require.NoError(t, err)
	assert.Equal(t, out.Result.Text, string(txt))

	pdf, err := f.svc.Export(ctx, out.Generation.ID, export.FormatPDF)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	extracted, err := pdftext.ExtractBytes(ctx, pdf)
	require.NoError(t, err)
	for _, line := range export.Lines(out.Result.Text) {
		if line != "" {
			assert.Contains(t, extracted.Text, line)
		}
	}

	_, err = f.svc.Export(ctx, "missing", export.FormatTXT)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGenerate_Failure(t *testing.T) {
	f := newFixture(t, llm.MockResponse{Err: errors.New("connection refused")})
	ctx := context.Background()

	out, err := f.svc.Run(ctx, "cells.pdf", pdfOf(t, lessonText()), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, mcq.ErrGenerationFailed)
	require.NotNil(t, out)
	assert.NotNil(t, out.Document, "the prepared document survives a failed generation")
	assert.Nil(t, out.Generation)
	assert.Equal(t, "An error occurred while generating MCQs: connection refused", UserMessage(err))

	history, err := f.svc.History(ctx, store.ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGenerate_InvalidCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.svc.Prepare(ctx, "cells.pdf", pdfOf(t, lessonText()))
	require.NoError(t, err)

	_, _, err = f.svc.Generate(ctx, doc.ID, 21)
	assert.ErrorIs(t, err, mcq.ErrInvalidCount)
	assert.Equal(t, "Choose between 1 and 20 MCQs.", UserMessage(err))

	_, _, err = f.svc.Generate(ctx, "unknown", 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, MsgNotFound, UserMessage(err))
}

func TestDeleteAndPrune(t *testing.T) {
	f := newFixture(t, llm.TextResponse(reply), llm.TextResponse(reply))
	ctx := context.Background()

	first, err := f.svc.Run(ctx, "a.pdf", pdfOf(t, lessonText()), 1)
	require.NoError(t, err)
	second, err := f.svc.Run(ctx, "b.pdf", pdfOf(t, lessonText()), 1)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteGeneration(ctx, first.Generation.ID))
	assert.ErrorIs(t, f.svc.DeleteGeneration(ctx, first.Generation.ID), store.ErrNotFound)

	n, err := f.svc.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.Prune(ctx, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = f.svc.Generation(ctx, second.Generation.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, MsgNotPDF, UserMessage(fmt.Errorf("upload: %w", pdftext.ErrNotPDF)))
	assert.Equal(t, MsgUnreadable, UserMessage(fmt.Errorf("%w: bad xref", pdftext.ErrUnreadable)))
	assert.Equal(t,
		"An error occurred while generating MCQs: LLM provider unavailable (status 401): bad key",
		UserMessage(&mcq.GenerationError{Err: &llm.ErrProviderUnavailable{StatusCode: 401, Err: errors.New("bad key")}}))
}

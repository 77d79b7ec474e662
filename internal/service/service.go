// Package service runs the upload, extract, gate, generate and export
// pipeline shared by the web server, the terminal UI and the CLI.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

// Options wires a Service.
type Options struct {
	Generator   mcq.Generator
	Documents   store.DocumentRepo
	Generations store.GenerationRepo

	// Limits defaults to pdftext.DefaultLimits when zero.
	Limits pdftext.Limits

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Service ties extraction, gating, generation and persistence together.
type Service struct {
	generator mcq.Generator
	docs      store.DocumentRepo
	gens      store.GenerationRepo
	limits    pdftext.Limits
	logger    *slog.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		generator: opts.Generator,
		docs:      opts.Documents,
		gens:      opts.Generations,
		limits:    opts.Limits,
		logger:    opts.Logger,
	}
	if s.limits == (pdftext.Limits{}) {
		s.limits = pdftext.DefaultLimits()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Limits returns the text length window uploads are checked against.
func (s *Service) Limits() pdftext.Limits {
	return s.limits
}

// Prepare extracts the text of an uploaded PDF, checks its length and
// stores it. Extraction and length errors are returned unwrapped so
// callers can match them with errors.Is.
func (s *Service) Prepare(ctx context.Context, name string, data []byte) (*store.Document, error) {
	extracted, err := pdftext.ExtractBytes(ctx, data)
	if err != nil {
		s.logger.Warn("pdf extraction failed", "name", name, "bytes", len(data), "error", err)
		return nil, err
	}

	chars := pdftext.Length(extracted.Text)
	if err := s.limits.Check(extracted.Text); err != nil {
		s.logger.Info("upload rejected", "name", name, "chars", chars, "reason", err)
		return nil, err
	}

	doc := &store.Document{
		Name:      name,
		SizeBytes: int64(len(data)),
		PageCount: extracted.PageCount,
		CharCount: chars,
		Text:      extracted.Text,
	}
	if err := s.docs.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	s.logger.Info("document uploaded",
		"id", doc.ID, "name", name, "bytes", doc.SizeBytes,
		"pages", doc.PageCount, "chars", chars)
	return doc, nil
}

// Document returns a stored upload.
func (s *Service) Document(ctx context.Context, id string) (*store.Document, error) {
	return s.docs.Get(ctx, id)
}

// Generate asks for count questions about a stored document and records
// the result.
func (s *Service) Generate(ctx context.Context, documentID string, count int) (*store.Generation, *mcq.Result, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	s.logger.Info("generating mcqs", "document", doc.ID, "count", count)

	res, err := s.generator.Generate(ctx, mcq.GenerateInput{Text: doc.Text, Count: count})
	if err != nil {
		s.logger.Error("mcq generation failed", "document", doc.ID, "count", count, "error", err)
		return nil, nil, err
	}

	gen := &store.Generation{
		DocumentID:    doc.ID,
		QuestionCount: count,
		ParsedCount:   len(res.Questions),
		Model:         res.Model,
		Text:          res.Text,
		InputTokens:   res.Usage.InputTokens,
		OutputTokens:  res.Usage.OutputTokens,
	}
	if err := s.gens.Save(ctx, gen); err != nil {
		return nil, nil, fmt.Errorf("save generation: %w", err)
	}

	s.logger.Info("mcqs generated",
		"generation", gen.ID, "document", doc.ID, "model", res.Model,
		"questions", gen.ParsedCount, "input_tokens", gen.InputTokens,
		"output_tokens", gen.OutputTokens, "latency", time.Since(start),
		"warnings", len(res.Warnings))
	for _, w := range res.Warnings {
		s.logger.Warn("mcq format issue", "generation", gen.ID, "issue", w)
	}
	return gen, res, nil
}

// Outcome is everything Run produced.
type Outcome struct {
	Document   *store.Document
	Generation *store.Generation
	Result     *mcq.Result
}

// Run is Prepare followed by Generate. On a generation failure the
// prepared document is still returned.
func (s *Service) Run(ctx context.Context, name string, data []byte, count int) (*Outcome, error) {
	doc, err := s.Prepare(ctx, name, data)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Document: doc}
	out.Generation, out.Result, err = s.Generate(ctx, doc.ID, count)
	if err != nil {
		return out, err
	}
	return out, nil
}

// Generation returns a stored result.
func (s *Service) Generation(ctx context.Context, id string) (*store.Generation, error) {
	return s.gens.Get(ctx, id)
}

// History lists stored results, newest first.
func (s *Service) History(ctx context.Context, opts store.ListOpts) ([]store.Generation, error) {
	return s.gens.List(ctx, opts)
}

// DeleteGeneration removes a stored result.
func (s *Service) DeleteGeneration(ctx context.Context, id string) error {
	if err := s.gens.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("generation deleted", "generation", id)
	return nil
}

// Export renders a stored result in the given format.
func (s *Service) Export(ctx context.Context, id string, f export.Format) ([]byte, error) {
	gen, err := s.gens.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := export.Render(ctx, f, gen.Text)
	if err != nil {
		s.logger.Error("export failed", "generation", id, "format", f, "error", err)
		return nil, fmt.Errorf("export %s: %w", f, err)
	}
	return data, nil
}

// Prune deletes uploads, and their results, older than maxAge.
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	n, err := s.docs.Prune(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("prune documents: %w", err)
	}
	if n > 0 {
		s.logger.Info("retention sweep", "deleted_documents", n, "max_age", maxAge)
	}
	return n, nil
}

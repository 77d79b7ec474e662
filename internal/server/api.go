package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

const (
	mimeMsgpack  = "application/msgpack"
	defaultLimit = 20
	maxLimit     = 200
)

type documentResponse struct {
	ID        string    `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	SizeBytes int64     `json:"size_bytes" msgpack:"size_bytes"`
	Pages     int       `json:"pages" msgpack:"pages"`
	Chars     int       `json:"chars" msgpack:"chars"`
	Text      string    `json:"text" msgpack:"text"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

func newDocumentResponse(d *store.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Name:      d.Name,
		SizeBytes: d.SizeBytes,
		Pages:     d.PageCount,
		Chars:     d.CharCount,
		Text:      d.Text,
		CreatedAt: d.CreatedAt,
	}
}

type questionResponse struct {
	Number   int       `json:"number" msgpack:"number"`
	Question string    `json:"question" msgpack:"question"`
	Options  [4]string `json:"options" msgpack:"options"`
	Answer   string    `json:"answer,omitempty" msgpack:"answer,omitempty"`
}

type generationResponse struct {
	ID           string             `json:"id" msgpack:"id"`
	DocumentID   string             `json:"document_id" msgpack:"document_id"`
	Requested    int                `json:"requested" msgpack:"requested"`
	Parsed       int                `json:"parsed" msgpack:"parsed"`
	Model        string             `json:"model" msgpack:"model"`
	Text         string             `json:"text" msgpack:"text"`
	Questions    []questionResponse `json:"questions" msgpack:"questions"`
	Warnings     []string           `json:"warnings,omitempty" msgpack:"warnings,omitempty"`
	InputTokens  int                `json:"input_tokens" msgpack:"input_tokens"`
	OutputTokens int                `json:"output_tokens" msgpack:"output_tokens"`
	CreatedAt    time.Time          `json:"created_at" msgpack:"created_at"`
}

// newGenerationResponse describes gen. Questions come from res when the
// generation just ran and are re-parsed from the stored text otherwise.
func newGenerationResponse(gen *store.Generation, res *mcq.Result) generationResponse {
	var questions []mcq.Question
	var warnings []string
	if res != nil {
		questions, warnings = res.Questions, res.Warnings
	} else {
		questions = mcq.Parse(gen.Text)
	}

	out := generationResponse{
		ID:           gen.ID,
		DocumentID:   gen.DocumentID,
		Requested:    gen.QuestionCount,
		Parsed:       gen.ParsedCount,
		Model:        gen.Model,
		Text:         gen.Text,
		Questions:    make([]questionResponse, 0, len(questions)),
		Warnings:     warnings,
		InputTokens:  gen.InputTokens,
		OutputTokens: gen.OutputTokens,
		CreatedAt:    gen.CreatedAt,
	}
	for _, q := range questions {
		out.Questions = append(out.Questions, questionResponse{
			Number:   q.Number,
			Question: q.Text,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	return out
}

// generationSummary is a list row; it omits the text.
type generationSummary struct {
	ID         string    `json:"id" msgpack:"id"`
	DocumentID string    `json:"document_id" msgpack:"document_id"`
	Requested  int       `json:"requested" msgpack:"requested"`
	Parsed     int       `json:"parsed" msgpack:"parsed"`
	Model      string    `json:"model" msgpack:"model"`
	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
}

type createGenerationRequest struct {
	Count *int `json:"count"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"model":   s.model,
	})
}

func (s *Server) handleCreateDocument(c echo.Context) error {
	name, data, err := readUpload(c)
	if err != nil {
		return err
	}
	doc, err := s.svc.Prepare(c.Request().Context(), name, data)
	if err != nil {
		return pipelineError(err, "document", name)
	}
	return c.JSON(http.StatusCreated, newDocumentResponse(doc))
}

func (s *Server) handleGetDocument(c echo.Context) error {
	id := c.Param("id")
	doc, err := s.svc.Document(c.Request().Context(), id)
	if err != nil {
		return pipelineError(err, "document", id)
	}
	return respond(c, http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleCreateGeneration(c echo.Context) error {
	id := c.Param("id")

	var req createGenerationRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid request body", err)
		}
	}
	count := s.cfg.Limits.DefaultQuestions
	if req.Count != nil {
		count = *req.Count
	}

	gen, res, err := s.svc.Generate(c.Request().Context(), id, count)
	if err != nil {
		return pipelineError(err, "document", id)
	}
	return respond(c, http.StatusCreated, newGenerationResponse(gen, res))
}

func (s *Server) handleListGenerations(c echo.Context) error {
	limit, err := queryInt(c, "limit", defaultLimit)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	gens, err := s.svc.History(c.Request().Context(), store.ListOpts{
		Limit:      limit,
		Offset:     offset,
		DocumentID: c.QueryParam("document_id"),
	})
	if err != nil {
		return NewInternalError("failed to list generations", err)
	}

	out := make([]generationSummary, 0, len(gens))
	for _, g := range gens {
		out = append(out, generationSummary{
			ID:         g.ID,
			DocumentID: g.DocumentID,
			Requested:  g.QuestionCount,
			Parsed:     g.ParsedCount,
			Model:      g.Model,
			CreatedAt:  g.CreatedAt,
		})
	}
	return respond(c, http.StatusOK, out)
}

func (s *Server) handleGetGeneration(c echo.Context) error {
	id := c.Param("id")
	gen, err := s.svc.Generation(c.Request().Context(), id)
	if err != nil {
		return pipelineError(err, "generation", id)
	}
	return respond(c, http.StatusOK, newGenerationResponse(gen, nil))
}

func (s *Server) handleDeleteGeneration(c echo.Context) error {
	id := c.Param("id")
	if err := s.svc.DeleteGeneration(c.Request().Context(), id); err != nil {
		return pipelineError(err, "generation", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleExport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "pdf"
	}
	return s.sendExport(c, format)
}

// respond encodes v as msgpack when the client asks for it and as JSON
// otherwise.
func respond(c echo.Context, status int, v any) error {
	if c.Request().Header.Get(echo.HeaderAccept) != mimeMsgpack {
		return c.JSON(status, v)
	}
	data, err := msgpack.Marshal(v)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(status, mimeMsgpack, data)
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, NewValidationError(name)
	}
	return n, nil
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

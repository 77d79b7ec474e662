package mcq

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ali-gai/MCQs-Generator/internal/llm"
)

const sourceText = "The cell is the basic structural and functional unit of all living organisms."

func TestGenerate_PlainReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(sampleReply),
		Usage:   llm.Usage{InputTokens: 120, OutputTokens: 80},
	})
	gen := New(mock, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != sampleReply {
		t.Errorf("Text must be the reply unchanged, got %q", res.Text)
	}
	if len(res.Questions) != 2 {
		t.Errorf("expected 2 parsed questions, got %d", len(res.Questions))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.Usage.InputTokens != 120 || res.Model != llm.ProviderMock {
		t.Errorf("unexpected metadata: %+v %q", res.Usage, res.Model)
	}

	req, ok := mock.LastCall()
	if !ok {
		t.Fatal("provider was not called")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	if req.Messages[0].Content != BuildPrompt(sourceText, 2) {
		t.Errorf("unexpected prompt:\n%s", req.Messages[0].Content)
	}
	if req.Schema != nil {
		t.Error("plain mode must not send a schema")
	}
	if req.System != "" {
		t.Errorf("unexpected system prompt %q", req.System)
	}
}

func TestGenerate_WarningsForShortReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("Q1: Only one?\nA. a\nB. b\nC. c\nCorrect Answer: E"))
	gen := New(mock, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(res.Warnings, "\n")
	for _, want := range []string{"option D is missing", "no correct answer marked", "expected 3 questions, found 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings %q missing %q", joined, want)
		}
	}
}

func TestGenerate_StrictFailsOnIssue(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(sampleReply))
	cfg := DefaultConfig()
	cfg.Strict = true
	gen := New(mock, cfg)

	_, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 5})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "count" {
		t.Errorf("expected count validation error, got %v", err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{StatusCode: 401, Err: errors.New("invalid api key")},
	})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 5})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	var unavailable *llm.ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Errorf("provider error should be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
}

func TestGenerate_EmptyReply(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("  \n"))
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 1})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig())

	for _, n := range []int{0, -1, 21} {
		_, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: n})
		if !errors.Is(err, ErrInvalidCount) {
			t.Errorf("count %d: expected ErrInvalidCount, got %v", n, err)
		}
	}
	if _, err := gen.Generate(context.Background(), GenerateInput{Text: "   ", Count: 5}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestGenerate_CountBoundsAccepted(t *testing.T) {
	for _, n := range []int{1, 20} {
		mock := llm.NewMockProvider(llm.TextResponse(sampleReply))
		gen := New(mock, DefaultConfig())
		if _, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: n}); err != nil {
			t.Errorf("count %d: unexpected error %v", n, err)
		}
	}
}

func TestGenerate_Structured(t *testing.T) {
	reply := `{"questions":[
		{"question":"What is the basic unit of life?","options":["Atom","Cell","Organ","Tissue"],"answer":"B"},
		{"question":"Which organelle produces most of a cell's ATP?","options":["Nucleus","Ribosome","Mitochondrion","Vacuole"],"answer":"C"}
	]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(reply)})
	cfg := DefaultConfig()
	cfg.Structured = true
	gen := New(mock, cfg)

	res, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != Format(Parse(sampleReply)) {
		t.Errorf("structured text mismatch:\n%s", res.Text)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}

	req, _ := mock.LastCall()
	if req.Schema != QuizSchema {
		t.Error("structured mode must send QuizSchema")
	}
}

func TestGenerate_StructuredSchemaViolation(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"questions":[{"question":"x","options":["a","b"],"answer":"Z"}]}`),
	})
	cfg := DefaultConfig()
	cfg.Structured = true
	gen := New(mock, cfg)

	_, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 1})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := New(llm.NewMockProvider(llm.TextResponse(sampleReply)), DefaultConfig())

	_, err := gen.Generate(ctx, GenerateInput{Text: sourceText, Count: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGenerate_TruncatedReply(t *testing.T) {
	truncated := llm.MockResponse{Content: json.RawMessage(sampleReply), StopReason: llm.StopMaxTokens}

	gen := New(llm.NewMockProvider(truncated), DefaultConfig())
	res, err := gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != ErrTruncated.Error() {
		t.Errorf("warnings = %v, want the truncation warning", res.Warnings)
	}

	cfg := DefaultConfig()
	cfg.Strict = true
	gen = New(llm.NewMockProvider(truncated), cfg)
	_, err = gen.Generate(context.Background(), GenerateInput{Text: sourceText, Count: 2})
	if !errors.Is(err, ErrTruncated) || !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("strict mode should fail with ErrTruncated, got %v", err)
	}
}

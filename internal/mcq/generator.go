// Package mcq turns document text into multiple-choice questions using an
// LLM provider.
package mcq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ali-gai/MCQs-Generator/internal/llm"
)

// Generator produces a set of questions for a document.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*Result, error)
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// ModelID reports the model the provider is configured for.
func (g *LLMGenerator) ModelID() string {
	return g.provider.ModelID()
}

// Generate asks the model for input.Count questions about input.Text.
// Provider failures, empty replies and, in strict mode, validator issues
// are returned as *GenerationError.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	if err := g.checkInput(input); err != nil {
		return nil, err
	}

	req := llm.Request{
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	purpose := llm.PurposeMCQ
	if g.config.Structured {
		purpose = llm.PurposeMCQStructured
		req.Schema = QuizSchema
		req.Messages = llm.UserMessage(buildStructuredPrompt(input.Text, input.Count))
	} else {
		req.Messages = llm.UserMessage(BuildPrompt(input.Text, input.Count))
	}

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		return nil, &GenerationError{Err: err}
	}

	res := &Result{Model: resp.Model, Usage: resp.Usage}
	if g.config.Structured {
		var out quizOutput
		if err := json.Unmarshal(llm.StripCodeFence(resp.Content), &out); err != nil {
			return nil, &GenerationError{Err: fmt.Errorf("decode structured reply: %w", err)}
		}
		res.Questions = out.toQuestions()
		res.Text = Format(res.Questions)
	} else {
		res.Text = resp.Text()
		res.Questions = Parse(res.Text)
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, &GenerationError{Err: errors.New("the model returned an empty reply")}
	}

	// Structured replies that hit the limit already failed in the provider.
	if resp.StopReason == llm.StopMaxTokens {
		if g.config.Strict {
			return nil, &GenerationError{Err: ErrTruncated}
		}
		res.Warnings = append(res.Warnings, ErrTruncated.Error())
	}

	for _, v := range g.config.Validators {
		for _, verr := range v.Validate(res.Questions, input) {
			if g.config.Strict {
				return nil, &GenerationError{Err: verr}
			}
			res.Warnings = append(res.Warnings, verr.Error())
		}
	}

	return res, nil
}

func (g *LLMGenerator) checkInput(input GenerateInput) error {
	min, max := g.config.MinQuestions, g.config.MaxQuestions
	if min <= 0 {
		min = 1
	}
	if max <= 0 {
		max = 20
	}
	if input.Count < min || input.Count > max {
		return &CountError{Count: input.Count, Min: min, Max: max}
	}
	if strings.TrimSpace(input.Text) == "" {
		return ErrEmptyText
	}
	return nil
}

package mcq

import (
	"errors"
	"fmt"

	"github.com/ali-gai/MCQs-Generator/internal/llm"
)

// Letters labels the four options in order.
var Letters = [4]string{"A", "B", "C", "D"}

// Question is one parsed multiple-choice question.
type Question struct {
	// Number is the question number as written by the model, from 1.
	Number int

	// Text is the question stem without its "Q1:" prefix.
	Text string

	// Options holds the A to D option texts. Missing options are empty.
	Options [4]string

	// Answer is the correct option letter, "A" to "D", or empty when the
	// model did not mark one.
	Answer string
}

// AnswerIndex returns the position of Answer in Options, or -1.
func (q Question) AnswerIndex() int {
	for i, l := range Letters {
		if l == q.Answer {
			return i
		}
	}
	return -1
}

// GenerateInput holds everything needed for one generation.
type GenerateInput struct {
	// Text is the extracted document text placed in the prompt.
	Text string

	// Count is the number of questions to ask for.
	Count int
}

// Result is the outcome of a successful generation.
type Result struct {
	// Text is what every surface displays and exports. In plain mode it is
	// the model's reply unchanged; in structured mode it is Format of the
	// decoded questions.
	Text string

	// Questions is the best-effort parse of Text.
	Questions []Question

	// Warnings lists validator findings that did not fail the generation.
	Warnings []string

	Model string
	Usage llm.Usage
}

var (
	// ErrInvalidCount is returned when the question count is out of range.
	ErrInvalidCount = errors.New("invalid question count")

	// ErrEmptyText is returned when there is no content to ask about.
	ErrEmptyText = errors.New("no text to generate questions from")

	// ErrTruncated reports a reply cut off at the token limit.
	ErrTruncated = errors.New("the reply hit the token limit, the last question may be incomplete")

	// ErrGenerationFailed matches every *GenerationError.
	ErrGenerationFailed = errors.New("generation failed")
)

// GenerationError wraps a failure of the model call or of its reply.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is reports true for ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// CountError reports a question count outside Min..Max.
type CountError struct {
	Count, Min, Max int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%v: %d is not between %d and %d", ErrInvalidCount, e.Count, e.Min, e.Max)
}

// Is reports true for ErrInvalidCount.
func (e *CountError) Is(target error) bool {
	return target == ErrInvalidCount
}

package mcq

import "fmt"

// Validator checks generated questions.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in messages, e.g. "structural".
	Name() string

	// Validate returns every issue found, or nil.
	Validate(questions []Question, input GenerateInput) []*ValidationError
}

// ValidationError describes one issue with the generated questions.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Question  int    // Question number, 0 for issues with the whole set
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Question > 0 {
		return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Question, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that each question has a stem, four options
// and an answer letter.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(questions []Question, _ GenerateInput) []*ValidationError {
	var errs []*ValidationError
	issue := func(q Question, msg string) {
		errs = append(errs, &ValidationError{Validator: v.Name(), Question: q.Number, Message: msg})
	}
	for _, q := range questions {
		if q.Text == "" {
			issue(q, "question text is empty")
		}
		for i, opt := range q.Options {
			if opt == "" {
				issue(q, fmt.Sprintf("option %s is missing", Letters[i]))
			}
		}
		if q.Answer == "" {
			issue(q, "no correct answer marked")
		} else if q.AnswerIndex() < 0 {
			issue(q, fmt.Sprintf("answer %q is not one of A to D", q.Answer))
		}
	}
	return errs
}

// CountValidator checks that the reply holds the requested number of
// questions.
type CountValidator struct{}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(questions []Question, input GenerateInput) []*ValidationError {
	if len(questions) == input.Count {
		return nil
	}
	return []*ValidationError{{
		Validator: v.Name(),
		Message:   fmt.Sprintf("expected %d questions, found %d", input.Count, len(questions)),
	}}
}

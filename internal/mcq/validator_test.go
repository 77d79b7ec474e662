package mcq

import "testing"

func validQuestion() Question {
	return Question{Number: 1, Text: "2 + 2?", Options: [4]string{"1", "2", "3", "4"}, Answer: "D"}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Validator: "structural", Question: 2, Message: "option B is missing"}
	if got, want := err.Error(), `validator "structural": question 2: option B is missing`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	err = &ValidationError{Validator: "count", Message: "expected 5 questions, found 4"}
	if got, want := err.Error(), `validator "count": expected 5 questions, found 4`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStructuralValidator(t *testing.T) {
	v := &StructuralValidator{}
	if errs := v.Validate([]Question{validQuestion()}, GenerateInput{Count: 1}); len(errs) != 0 {
		t.Fatalf("valid question flagged: %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(*Question)
		want   int
	}{
		{"empty stem", func(q *Question) { q.Text = "" }, 1},
		{"two missing options", func(q *Question) { q.Options[1], q.Options[3] = "", "" }, 2},
		{"no answer", func(q *Question) { q.Answer = "" }, 1},
		{"bad answer", func(q *Question) { q.Answer = "E" }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			errs := v.Validate([]Question{q}, GenerateInput{Count: 1})
			if len(errs) != tt.want {
				t.Fatalf("expected %d issues, got %v", tt.want, errs)
			}
			if errs[0].Question != 1 || errs[0].Validator != "structural" {
				t.Errorf("unexpected error %+v", errs[0])
			}
		})
	}
}

func TestCountValidator(t *testing.T) {
	v := &CountValidator{}
	qs := []Question{validQuestion(), validQuestion()}
	if errs := v.Validate(qs, GenerateInput{Count: 2}); errs != nil {
		t.Errorf("unexpected issues: %v", errs)
	}
	errs := v.Validate(qs, GenerateInput{Count: 5})
	if len(errs) != 1 || errs[0].Message != "expected 5 questions, found 2" {
		t.Errorf("unexpected issues: %v", errs)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "count"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
	if cfg.MinQuestions != 1 || cfg.MaxQuestions != 20 {
		t.Errorf("unexpected bounds %d..%d", cfg.MinQuestions, cfg.MaxQuestions)
	}
}

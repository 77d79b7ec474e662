package mcq

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every reply.
	Validators []Validator

	// Strict fails the generation on the first validator issue instead of
	// reporting it as a warning.
	Strict bool

	// Structured requests JSON matching QuizSchema and renders it with
	// Format.
	Structured bool

	// MinQuestions and MaxQuestions bound GenerateInput.Count.
	MinQuestions int
	MaxQuestions int

	// MaxTokens is the token budget for the reply.
	MaxTokens int

	// Temperature controls randomness. Zero keeps the provider default.
	Temperature float64
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&CountValidator{},
		},
		MinQuestions: 1,
		MaxQuestions: 20,
		MaxTokens:    4096,
	}
}

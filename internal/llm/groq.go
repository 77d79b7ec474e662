package llm

import "fmt"

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "gemma2-9b-it"
)

// groqModels maps friendly names to Groq model IDs.
var groqModels = map[string]string{
	"gemma2":      defaultGroqModel,
	"llama-8b":    "llama-3.1-8b-instant",
	"llama-70b":   "llama-3.3-70b-versatile",
	"mixtral":     "mixtral-8x7b-32768",
	"qwen-32b":    "qwen/qwen3-32b",
	"gpt-oss-20b": "openai/gpt-oss-20b",
}

// GroqProvider talks to Groq's OpenAI-compatible chat completions API.
type GroqProvider struct {
	*OpenAIProvider
}

// NewGroqProvider creates a provider targeting the Groq API.
func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGroqModel
	}

	inner := newOpenAICompatible(ProviderGroq, cfg.APIKey, baseURL, resolveModel(model, groqModels))
	return &GroqProvider{OpenAIProvider: inner}, nil
}

package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGroqProvider_Generate(t *testing.T) {
	var captured map[string]any
	var path, auth string
	handler := chatHandler(t, sampleQuizText, "stop", &captured)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", BaseURL: server.URL + "/openai/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages:  UserMessage("Generate 1 question."),
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != sampleQuizText {
		t.Fatalf("unexpected text: %q", resp.Text())
	}
	if path != "/openai/v1/chat/completions" {
		t.Fatalf("unexpected path %q", path)
	}
	if auth != "Bearer gsk-test" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	if captured["model"] != "gemma2-9b-it" {
		t.Fatalf("expected default model gemma2-9b-it, got %v", captured["model"])
	}
	if captured["max_tokens"] != float64(512) {
		t.Fatalf("expected max_tokens 512, got %v", captured["max_tokens"])
	}
}

func TestGroqProvider_JSONObjectForSchema(t *testing.T) {
	var captured map[string]any
	content := `{"question":"2+2?","options":["1","2","3","4"],"answer":"D"}`
	server := httptest.NewServer(chatHandler(t, content, "stop", &captured))
	t.Cleanup(server.Close)

	p, err := NewGroqProvider(GroqConfig{APIKey: "gsk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Messages: UserMessage("q"), Schema: testSchema()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	format, _ := captured["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", format["type"])
	}
}

func TestNewGroqProvider(t *testing.T) {
	if _, err := NewGroqProvider(GroqConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}

	tests := []struct {
		model, want string
	}{
		{"", "gemma2-9b-it"},
		{"llama-70b", "llama-3.3-70b-versatile"},
		{"deepseek-r1-distill-llama-70b", "deepseek-r1-distill-llama-70b"}, // Pass-through
	}
	for _, tt := range tests {
		p, err := NewGroqProvider(GroqConfig{APIKey: "gsk", Model: tt.model})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != tt.want {
			t.Errorf("model %q resolved to %q, want %q", tt.model, p.ModelID(), tt.want)
		}
		if p.Name() != ProviderGroq {
			t.Errorf("expected name groq, got %q", p.Name())
		}
	}
}

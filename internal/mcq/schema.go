package mcq

import "github.com/ali-gai/MCQs-Generator/internal/llm"

// QuizSchema is the JSON shape requested in structured mode.
var QuizSchema = &llm.Schema{
	Name:        "mcq-quiz",
	Description: "A list of multiple-choice questions about the supplied content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question stem, without a number prefix",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 option texts in A to D order, without letter prefixes",
						},
						"answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "Letter of the correct option",
						},
					},
					"required":             []any{"question", "options", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// quizOutput is the decoded structured reply.
type quizOutput struct {
	Questions []struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Answer   string   `json:"answer"`
	} `json:"questions"`
}

func (o quizOutput) toQuestions() []Question {
	out := make([]Question, 0, len(o.Questions))
	for i, raw := range o.Questions {
		q := Question{Number: i + 1, Text: raw.Question, Answer: raw.Answer}
		copy(q.Options[:], raw.Options)
		out = append(out, q)
	}
	return out
}

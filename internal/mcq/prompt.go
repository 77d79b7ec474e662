package mcq

import (
	"strconv"
	"strings"
)

const promptTemplate = `You are an expert teacher. Based on the following content, generate {num_mcqs} multiple-choice questions (MCQs).
Each question must have:
- A clear question
- 4 options (A to D)
- One correct answer marked clearly
- Format the output like:
Q1: ...
A. ...
B. ...
C. ...
D. ...
Correct Answer: B

Here is the content:
-------------------
{input_text}
-------------------
`

// BuildPrompt fills the question template. Placeholders inside text are
// left alone.
func BuildPrompt(text string, count int) string {
	r := strings.NewReplacer(
		"{num_mcqs}", strconv.Itoa(count),
		"{input_text}", text,
	)
	return r.Replace(promptTemplate)
}

const structuredInstruction = `
Return the questions as a JSON object with a "questions" array. Each item has
"question" (the stem), "options" (exactly 4 option texts, A to D, without the
letter prefix) and "answer" (the letter of the correct option).`

// buildStructuredPrompt is BuildPrompt plus the JSON output instruction.
func buildStructuredPrompt(text string, count int) string {
	return BuildPrompt(text, count) + structuredInstruction
}

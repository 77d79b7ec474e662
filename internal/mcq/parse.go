package mcq

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// "Q1: ...", "Q1. ...", "Question 1: ...", "1. ...", "1) ..."
	questionLine = regexp.MustCompile(`^(?i:q(?:uestion)?\s*)?(\d{1,3})\s*[:.)]\s*(.*)$`)
	// "A. ...", "A) ...", "(A) ...", "A: ...", "a. ..."
	optionLine = regexp.MustCompile(`^\(?([A-Da-d])[.):]\s*(.*)$`)
	// "Correct Answer: B", "Answer: (B)", "Correct answer - B. Mitochondria"
	answerLine = regexp.MustCompile(`^(?i:(?:correct\s+)?answer)\s*[:\-]?\s*\(?([A-Da-d])\b`)
)

// Parse reads questions from a reply in the prompt's format. It is
// forgiving about markdown emphasis, numbering style and option
// punctuation; anything it cannot place is attached to the preceding stem
// or option.
func Parse(text string) []Question {
	var (
		out     []Question
		cur     *Question
		lastOpt = -1
	)
	flush := func() {
		if cur != nil {
			cur.Text = strings.TrimSpace(cur.Text)
			out = append(out, *cur)
		}
		cur = nil
		lastOpt = -1
	}

	for _, raw := range strings.Split(text, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}

		if m := answerLine.FindStringSubmatch(line); m != nil && cur != nil {
			cur.Answer = strings.ToUpper(m[1])
			lastOpt = -1
			continue
		}
		if m := optionLine.FindStringSubmatch(line); m != nil && cur != nil {
			idx := int(strings.ToUpper(m[1])[0] - 'A')
			cur.Options[idx] = strings.TrimSpace(m[2])
			lastOpt = idx
			continue
		}
		if m := questionLine.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			cur = &Question{Number: n, Text: m[2]}
			continue
		}

		if cur == nil {
			continue
		}
		switch {
		case lastOpt >= 0:
			cur.Options[lastOpt] = strings.TrimSpace(cur.Options[lastOpt] + " " + line)
		case cur.Answer == "":
			cur.Text = strings.TrimSpace(cur.Text + " " + line)
		}
	}
	flush()
	return out
}

// cleanLine trims whitespace, list bullets and markdown emphasis.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#>-* ")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

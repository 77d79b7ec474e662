package mcq

import (
	"fmt"
	"strings"
)

// Format renders questions in the same layout the prompt asks the model
// for, numbering them from 1. Parse(Format(qs)) recovers qs.
func Format(questions []Question) string {
	var b strings.Builder
	for i, q := range questions {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, strings.TrimSpace(q.Text))
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "%s. %s\n", Letters[j], strings.TrimSpace(opt))
		}
		fmt.Fprintf(&b, "Correct Answer: %s\n", q.Answer)
	}
	return b.String()
}

package mcq

import (
	"reflect"
	"testing"
)

const sampleReply = `Here are 2 multiple-choice questions based on the content:

Q1: What is the basic unit of life?
A. Atom
B. Cell
C. Organ
D. Tissue
Correct Answer: B

Q2: Which organelle produces most of a cell's ATP?
A. Nucleus
B. Ribosome
C. Mitochondrion
D. Vacuole
Correct Answer: C
`

func TestParse_PromptFormat(t *testing.T) {
	got := Parse(sampleReply)
	want := []Question{
		{Number: 1, Text: "What is the basic unit of life?", Options: [4]string{"Atom", "Cell", "Organ", "Tissue"}, Answer: "B"},
		{Number: 2, Text: "Which organelle produces most of a cell's ATP?", Options: [4]string{"Nucleus", "Ribosome", "Mitochondrion", "Vacuole"}, Answer: "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse mismatch.\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestParse_Variants(t *testing.T) {
	reply := `**Q1:** What colour is chlorophyll?
a) Red
b) Green
c) Blue
d) Yellow
**Correct Answer:** B. Green

1. Where does photosynthesis
happen?
(A) Roots
(B) Stem
(C) Leaves
(D) Flowers
Answer: (C)

Question 3. Plants release which gas?
A: Oxygen
B: Argon
C: Neon
D: Xenon
Correct answer - A`

	got := Parse(reply)
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %d: %+v", len(got), got)
	}
	if got[0].Text != "What colour is chlorophyll?" || got[0].Answer != "B" || got[0].Options[1] != "Green" {
		t.Errorf("q1 = %+v", got[0])
	}
	if got[1].Number != 1 || got[1].Text != "Where does photosynthesis happen?" || got[1].Answer != "C" {
		t.Errorf("q2 = %+v", got[1])
	}
	if got[1].Options != [4]string{"Roots", "Stem", "Leaves", "Flowers"} {
		t.Errorf("q2 options = %q", got[1].Options)
	}
	if got[2].Number != 3 || got[2].Answer != "A" || got[2].Options[3] != "Xenon" {
		t.Errorf("q3 = %+v", got[2])
	}
}

func TestParse_MissingParts(t *testing.T) {
	got := Parse("Q1: Incomplete question\nA. one\nB. two\n")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	q := got[0]
	if q.Options[2] != "" || q.Options[3] != "" || q.Answer != "" {
		t.Errorf("unexpected fields filled: %+v", q)
	}
	if q.AnswerIndex() != -1 {
		t.Errorf("AnswerIndex = %d, want -1", q.AnswerIndex())
	}
}

func TestParse_NoQuestions(t *testing.T) {
	if got := Parse("I'm sorry, I cannot help with that."); len(got) != 0 {
		t.Errorf("expected no questions, got %+v", got)
	}
	if got := Parse(""); len(got) != 0 {
		t.Errorf("expected no questions for empty input, got %+v", got)
	}
}

func TestParse_OptionContinuation(t *testing.T) {
	got := Parse("Q1: Pick one\nA. a long option\nthat wraps\nB. b\nC. c\nD. d\nCorrect Answer: A")
	if len(got) != 1 {
		t.Fatalf("expected 1 question, got %d", len(got))
	}
	if got[0].Options[0] != "a long option that wraps" {
		t.Errorf("option A = %q", got[0].Options[0])
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	qs := Parse(sampleReply)
	text := Format(qs)

	if got := Parse(text); !reflect.DeepEqual(got, qs) {
		t.Errorf("Parse(Format(qs)) mismatch.\ngot:  %+v\nwant: %+v", got, qs)
	}

	wantPrefix := "Q1: What is the basic unit of life?\nA. Atom\nB. Cell\nC. Organ\nD. Tissue\nCorrect Answer: B\n\nQ2:"
	if len(text) < len(wantPrefix) || text[:len(wantPrefix)] != wantPrefix {
		t.Errorf("Format output:\n%s", text)
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
}

package pdftext

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/writer"

	"github.com/ali-gai/MCQs-Generator/internal/export"
)

func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	data, err := export.PDF(context.Background(), text)
	if err != nil {
		t.Fatalf("build fixture pdf: %v", err)
	}
	return data
}

// buildPages writes one line of text per page.
func buildPages(t *testing.T, pages ...string) []byte {
	t.Helper()
	b := builder.NewBuilder()
	for _, text := range pages {
		p := b.NewPage(595.28, 841.89)
		p.DrawText(text, 36, 800, builder.TextOptions{FontSize: 4})
		p.Finish()
	}
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build fixture pdf: %v", err)
	}
	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if err := w.Write(context.Background(), doc, &buf, writer.Config{Deterministic: true}); err != nil {
		t.Fatalf("write fixture pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractBytes(t *testing.T) {
	data := buildPDF(t, "Photosynthesis converts light energy.\nChlorophyll absorbs red and blue light.")

	doc, err := ExtractBytes(context.Background(), data)
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if doc.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", doc.PageCount)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Number != 1 {
		t.Errorf("Pages = %+v, want a single page numbered 1", doc.Pages)
	}
	for _, want := range []string{"Photosynthesis converts light energy.", "Chlorophyll absorbs red and blue light."} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("Text = %q, missing %q", doc.Text, want)
		}
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, buildPDF(t, "Mitochondria produce ATP."), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ExtractFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !strings.Contains(doc.Text, "Mitochondria produce ATP.") {
		t.Errorf("Text = %q", doc.Text)
	}

	if _, err := ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtract_NotPDF(t *testing.T) {
	for _, in := range []string{"", "hello world", "%PD"} {
		_, err := ExtractBytes(context.Background(), []byte(in))
		if !errors.Is(err, ErrNotPDF) {
			t.Errorf("ExtractBytes(%q) error = %v, want ErrNotPDF", in, err)
		}
	}
}

func TestExtract_Unreadable(t *testing.T) {
	_, err := ExtractBytes(context.Background(), []byte("%PDF-1.7\nthis is not really a pdf"))
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("error = %v, want ErrUnreadable", err)
	}
}

func TestExtract_PageBoundaries(t *testing.T) {
	first, second := strings.Repeat("a", 100), strings.Repeat("b", 99)
	doc, err := ExtractBytes(context.Background(), buildPages(t, first, second))
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if doc.PageCount != 2 || len(doc.Pages) != 2 {
		t.Fatalf("PageCount = %d, Pages = %d, want 2 and 2", doc.PageCount, len(doc.Pages))
	}
	if doc.Text != doc.Pages[0].Text+doc.Pages[1].Text {
		t.Errorf("Text = %q, want the page texts back to back", doc.Text)
	}
	if !strings.Contains(doc.Text, "a"+"b") {
		t.Errorf("Text = %q, pages should meet without a separator", doc.Text)
	}

	// 199 characters across two pages is one short of the minimum.
	if n := Length(doc.Text); n != 199 {
		t.Errorf("Length = %d, want 199", n)
	}
	if err := DefaultLimits().Check(doc.Text); !errors.Is(err, ErrTooShort) {
		t.Errorf("Check = %v, want ErrTooShort", err)
	}
}

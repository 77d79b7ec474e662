// Package pdftext pulls plain text out of uploaded PDF files and gates it
// by length before it is sent to a model.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wudi/pdfkit/extractor"
	"github.com/wudi/pdfkit/ir"
)

var (
	// ErrNotPDF is returned when the input lacks the %PDF- header.
	ErrNotPDF = errors.New("not a PDF file")
	// ErrUnreadable wraps parser and extractor failures.
	ErrUnreadable = errors.New("unreadable PDF")
)

var pdfMagic = []byte("%PDF-")

// Page is the text of one page, numbered from 1.
type Page struct {
	Number int
	Text   string
}

// Document is the extracted text of a PDF.
type Document struct {
	// Text is every page concatenated in page order, with nothing added
	// at the page boundaries.
	Text      string
	PageCount int
	// Pages holds only the pages that produced text.
	Pages []Page
}

// Extract parses the PDF read from r and returns its text.
func Extract(ctx context.Context, r io.ReaderAt) (*Document, error) {
	header := make([]byte, len(pdfMagic))
	if _, err := r.ReadAt(header, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header, pdfMagic) {
		return nil, ErrNotPDF
	}

	sem, err := ir.NewDefault().Parse(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	ext, err := extractor.New(sem.Decoded())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	pages, err := ext.ExtractText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	doc := &Document{PageCount: ext.ExtractMetadata().PageCount}
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		if p.Content == "" {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Number: p.Page + 1, Text: p.Content})
		texts = append(texts, p.Content)
	}
	doc.Text = strings.Join(texts, "")
	return doc, nil
}

// ExtractBytes is Extract over an in-memory upload.
func ExtractBytes(ctx context.Context, data []byte) (*Document, error) {
	return Extract(ctx, bytes.NewReader(data))
}

// ExtractFile opens path and extracts its text.
func ExtractFile(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Extract(ctx, f)
}

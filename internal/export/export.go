// Package export renders generated questions as downloadable files.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a download format.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatTXT Format = "txt"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatPDF, FormatTXT}

// ParseFormat accepts "pdf" or "txt" (also "text"), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "txt", "text":
		return FormatTXT, nil
	}
	return "", fmt.Errorf("unknown export format %q (want pdf or txt)", s)
}

// FileName is the attachment name offered for downloads.
func (f Format) FileName() string {
	return "generated_mcqs." + string(f)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain"
}

// Label is the button text shown for this format.
func (f Format) Label() string {
	if f == FormatPDF {
		return "Download as PDF"
	}
	return "Download as TXT"
}

// Text returns the UTF-8 bytes of text unchanged.
func Text(text string) []byte {
	return []byte(text)
}

// Render produces the file body for f.
func Render(ctx context.Context, f Format, text string) ([]byte, error) {
	switch f {
	case FormatPDF:
		return PDF(ctx, text)
	case FormatTXT:
		return Text(text), nil
	}
	return nil, fmt.Errorf("unknown export format %q", string(f))
}

// WriteFile renders text as f into dir under f.FileName, replacing any
// earlier export, and returns the written path.
func WriteFile(ctx context.Context, dir string, f Format, text string) (string, error) {
	data, err := Render(ctx, f, text)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, f.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/wudi/pdfkit/builder"
	"github.com/wudi/pdfkit/ir/semantic"
	"github.com/wudi/pdfkit/writer"
	"golang.org/x/text/unicode/norm"
)

// A4 in points.
const (
	pageWidth  = 595.28
	pageHeight = 841.89
)

const (
	margin    = 72.0
	fontSize  = 10.0
	leading   = 12.0
	spacer    = 6.0
	textWidth = pageWidth - 2*margin
)

// PDF lays text out one paragraph per line, each followed by a small
// spacer, wrapping long lines and starting new pages as needed.
func PDF(ctx context.Context, text string) ([]byte, error) {
	b := builder.NewBuilder().SetInfo(&semantic.DocumentInfo{
		Title:    "Generated MCQs",
		Creator:  "mcqgen",
		Producer: "mcqgen",
	})

	var page builder.PageBuilder
	y := 0.0
	newPage := func() {
		if page != nil {
			page.Finish()
		}
		page = b.NewPage(pageWidth, pageHeight)
		y = pageHeight - margin
	}
	newPage()

	for _, paragraph := range Lines(text) {
		for _, line := range wrap(foldASCII(paragraph), textWidth, fontSize) {
			if y-leading < margin {
				newPage()
			}
			y -= leading
			if line != "" {
				page.DrawText(line, margin, y, builder.TextOptions{FontSize: fontSize})
			}
		}
		y -= spacer
	}
	page.Finish()

	doc, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	var buf bytes.Buffer
	w := (&writer.WriterBuilder{}).Build()
	if err := w.Write(ctx, doc, &buf, writer.Config{Deterministic: true}); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Lines splits the trimmed text into the paragraphs PDF renders.
func Lines(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(trimmed, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

// wrap breaks line into pieces no wider than width at the given size.
// A single word wider than width is split by character.
func wrap(line string, width, size float64) []string {
	if line == "" {
		return []string{""}
	}
	var (
		out []string
		cur strings.Builder
		w   float64
	)
	space := charWidth(' ', size)
	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
		w = 0
	}
	for _, word := range strings.Fields(line) {
		ww := stringWidth(word, size)
		if cur.Len() > 0 && w+space+ww > width {
			flush()
		}
		if ww > width {
			for _, r := range word {
				cw := charWidth(r, size)
				if cur.Len() > 0 && w+cw > width {
					flush()
				}
				cur.WriteRune(r)
				w += cw
			}
			continue
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
			w += space
		}
		cur.WriteString(word)
		w += ww
	}
	if cur.Len() > 0 {
		flush()
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// foldASCII maps text onto the printable ASCII the standard font can show.
// Typographic punctuation, symbols and Greek letters come from asciiFold.
// Accented letters lose their marks. Anything left becomes '?'.
func foldASCII(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString("    ")
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			if rep, ok := asciiFold[r]; ok {
				b.WriteString(rep)
			} else if base, ok := stripMarks(r); ok {
				b.WriteString(base)
			} else {
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}

// stripMarks decomposes r and drops its combining marks. It reports false
// unless what remains is printable ASCII.
func stripMarks(r rune) (string, bool) {
	var b strings.Builder
	for _, c := range norm.NFD.String(string(r)) {
		if unicode.Is(unicode.Mn, c) {
			continue
		}
		if c < 0x20 || c >= 0x7f {
			return "", false
		}
		b.WriteRune(c)
	}
	return b.String(), b.Len() > 0
}

var asciiFold = map[rune]string{
	'\u00a0': " ",
	'‘':      "'",
	'’':      "'",
	'‚':      ",",
	'“':      `"`,
	'”':      `"`,
	'„':      `"`,
	'«':      "<<",
	'»':      ">>",
	'–':      "-",
	'—':      "-",
	'−':      "-",
	'•':      "*",
	'·':      "*",
	'…':      "...",
	'°':      " deg",
	'×':      "x",
	'÷':      "/",
	'±':      "+/-",
	'≤':      "<=",
	'≥':      ">=",
	'≠':      "!=",
	'≈':      "~",
	'→':      "->",
	'←':      "<-",
	'²':      "^2",
	'³':      "^3",
	'½':      "1/2",
	'¼':      "1/4",
	'¾':      "3/4",
	'©':      "(c)",
	'®':      "(R)",
	'™':      "(TM)",
	'€':      "EUR",
	'£':      "GBP",
	'ß':      "ss",
	'æ':      "ae",
	'Æ':      "AE",
	'œ':      "oe",
	'Œ':      "OE",
	'ø':      "o",
	'Ø':      "O",
	'ł':      "l",
	'Ł':      "L",
	'đ':      "d",
	'Đ':      "D",
	'ð':      "d",
	'Ð':      "D",
	'þ':      "th",
	'Þ':      "Th",
	'ı':      "i",
	'α':      "alpha",
	'β':      "beta",
	'γ':      "gamma",
	'δ':      "delta",
	'ε':      "epsilon",
	'ζ':      "zeta",
	'η':      "eta",
	'θ':      "theta",
	'κ':      "kappa",
	'λ':      "lambda",
	'μ':      "mu",
	'µ':      "mu",
	'ν':      "nu",
	'ξ':      "xi",
	'π':      "pi",
	'ρ':      "rho",
	'σ':      "sigma",
	'ς':      "sigma",
	'τ':      "tau",
	'φ':      "phi",
	'χ':      "chi",
	'ψ':      "psi",
	'ω':      "omega",
	'Γ':      "Gamma",
	'Δ':      "Delta",
	'Θ':      "Theta",
	'Λ':      "Lambda",
	'Π':      "Pi",
	'Σ':      "Sigma",
	'Φ':      "Phi",
	'Ψ':      "Psi",
	'Ω':      "Omega",
}

func stringWidth(s string, size float64) float64 {
	var w float64
	for _, r := range s {
		w += charWidth(r, size)
	}
	return w
}

func charWidth(r rune, size float64) float64 {
	if r >= 32 && r <= 126 {
		return float64(helveticaWidths[r-32]) * size / 1000
	}
	return 556 * size / 1000
}

// Helvetica advance widths for ' ' through '~', in 1/1000 em.
var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
}

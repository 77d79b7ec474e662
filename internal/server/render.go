package server

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html
var templateFiles embed.FS

type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	md := goldmark.New()
	funcs := template.FuncMap{
		"markdown": func(src string) template.HTML { return renderMarkdown(md, src) },
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// renderMarkdown converts extracted text to HTML. Raw HTML in the source is
// dropped by goldmark's default renderer; on failure the text is escaped.
func renderMarkdown(md goldmark.Markdown, src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

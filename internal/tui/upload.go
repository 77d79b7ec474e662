package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ali-gai/MCQs-Generator/internal/config"
	"github.com/ali-gai/MCQs-Generator/internal/service"
)

// Pipeline runs one upload through extraction and generation.
type Pipeline interface {
	Run(ctx context.Context, name string, data []byte, count int) (*service.Outcome, error)
}

type field int

const (
	fieldPath field = iota
	fieldCount
	fieldGenerate
	numFields
)

const msgNoPath = "Enter the path of a PDF file."

// generatedMsg carries the outcome of a Run started from the upload screen.
type generatedMsg struct {
	path    string
	outcome *service.Outcome
	err     error
	readErr error
}

// UploadScreen asks for a PDF path and a question count.
type UploadScreen struct {
	ctx      context.Context
	pipeline Pipeline
	outDir   string

	path    textinput.Model
	count   Slider
	focus   field
	spinner spinner.Model
	busy    bool
	errMsg  string
}

var _ Screen = (*UploadScreen)(nil)
var _ KeyHintProvider = (*UploadScreen)(nil)

// NewUploadScreen creates the first screen of the app.
func NewUploadScreen(ctx context.Context, pipeline Pipeline, limits config.Limits, outDir string) *UploadScreen {
	ti := textinput.New()
	ti.Placeholder = "path/to/document.pdf"
	ti.Prompt = "> "
	ti.Focus()

	return &UploadScreen{
		ctx:      ctx,
		pipeline: pipeline,
		outDir:   outDir,
		path:     ti,
		count: NewSlider("Select number of MCQs to generate",
			limits.MinQuestions, limits.MaxQuestions, limits.DefaultQuestions, 30),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleInfo)),
	}
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.path.Focus()
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) KeyHints() []KeyHint {
	if s.busy {
		return []KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Adjust count"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *UploadScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case generatedMsg:
		return s.handleGenerated(msg)

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.focus == fieldPath && !s.busy {
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *UploadScreen) handleKey(msg tea.KeyPressMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		return s, s.start()
	}

	switch s.focus {
	case fieldPath:
		var cmd tea.Cmd
		s.path, cmd = s.path.Update(msg)
		s.errMsg = ""
		return s, cmd
	case fieldCount:
		s.count = s.count.Update(msg)
	}
	return s, nil
}

func (s *UploadScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	if f == fieldPath {
		return s.path.Focus()
	}
	s.path.Blur()
	return nil
}

// start validates the form and kicks off generation.
func (s *UploadScreen) start() tea.Cmd {
	path := cleanPath(s.path.Value())
	if path == "" {
		s.errMsg = msgNoPath
		return nil
	}
	s.busy = true
	s.errMsg = ""
	return tea.Batch(s.spinner.Tick, s.generate(path, s.count.Value))
}

func (s *UploadScreen) generate(path string, count int) tea.Cmd {
	ctx := s.ctx
	pipeline := s.pipeline
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return generatedMsg{path: path, readErr: err}
		}
		out, err := pipeline.Run(ctx, filepath.Base(path), data, count)
		return generatedMsg{path: path, outcome: out, err: err}
	}
}

func (s *UploadScreen) handleGenerated(msg generatedMsg) (Screen, tea.Cmd) {
	s.busy = false
	switch {
	case msg.readErr != nil:
		s.errMsg = fmt.Sprintf("Could not read %s: %v", msg.path, msg.readErr)
		return s, nil
	case msg.err != nil:
		s.errMsg = service.UserMessage(msg.err)
		return s, nil
	}
	return s, push(NewResultScreen(s.ctx, msg.outcome, s.outDir))
}

func (s *UploadScreen) View(width, height int) string {
	cardWidth := min(width-4, 76)
	s.path.SetWidth(cardWidth - 8)

	var b strings.Builder
	b.WriteString(styleTitle.Render("Generate multiple-choice questions from a PDF"))
	b.WriteString("\n\n")
	if cleanPath(s.path.Value()) == "" {
		b.WriteString(styleInfo.Render(service.MsgGetStarted))
		b.WriteString("\n\n")
	}

	label := styleLabel.Render("PDF file")
	if s.focus == fieldPath {
		label = styleFocused.Render("PDF file")
	}
	b.WriteString(label + "\n" + s.path.View() + "\n\n")
	b.WriteString(s.count.View(s.focus == fieldCount))
	b.WriteString("\n\n")

	button := styleButtonInactive.Render("  Generate MCQs")
	if s.focus == fieldGenerate {
		button = styleButtonActive.Render("▸ Generate MCQs")
	}
	b.WriteString(button)

	switch {
	case s.busy:
		b.WriteString("\n\n" + s.spinner.View() + " " + styleBody.Render(service.MsgThinking))
	case s.errMsg != "":
		b.WriteString("\n\n" + styleError.Width(cardWidth-4).Render(s.errMsg))
	}

	card := styleCard.Width(cardWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// cleanPath trims whitespace and the quotes terminals add to dropped files.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}

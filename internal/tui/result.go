package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/service"
)

// savedMsg reports a finished export.
type savedMsg struct {
	format export.Format
	path   string
	err    error
}

type toggleSourceMsg struct{}

const (
	itemSavePDF = iota
	itemSaveTXT
	itemSource
	itemBack
)

// ResultScreen shows the generated questions and saves them to disk.
type ResultScreen struct {
	ctx     context.Context
	outcome *service.Outcome
	outDir  string

	viewport   viewport.Model
	menu       Menu
	showSource bool

	status    string
	statusErr bool
}

var _ Screen = (*ResultScreen)(nil)
var _ KeyHintProvider = (*ResultScreen)(nil)

// NewResultScreen displays out. Saved files go to outDir.
func NewResultScreen(ctx context.Context, out *service.Outcome, outDir string) *ResultScreen {
	s := &ResultScreen{
		ctx:      ctx,
		outcome:  out,
		outDir:   outDir,
		viewport: viewport.New(),
	}
	s.viewport.SoftWrap = true
	s.viewport.SetContent(out.Result.Text)

	s.menu = NewMenu([]MenuItem{
		itemSavePDF: {Label: "Save as PDF", Action: func() tea.Cmd { return s.save(export.FormatPDF) }},
		itemSaveTXT: {Label: "Save as TXT", Action: func() tea.Cmd { return s.save(export.FormatTXT) }},
		itemSource:  {Label: "Show extracted text", Action: func() tea.Cmd { return toggleSource }},
		itemBack:    {Label: "Back", Action: func() tea.Cmd { return pop }},
	})
	return s
}

func toggleSource() tea.Msg { return toggleSourceMsg{} }

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Generated MCQs"
}

func (s *ResultScreen) KeyHints() []KeyHint {
	return []KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

// save writes the displayed questions, not the extracted text.
func (s *ResultScreen) save(f export.Format) tea.Cmd {
	ctx, dir, text := s.ctx, s.outDir, s.outcome.Result.Text
	return func() tea.Msg {
		path, err := export.WriteFile(ctx, dir, f, text)
		return savedMsg{format: f, path: path, err: err}
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			s.status, s.statusErr = fmt.Sprintf("Could not save %s: %v", msg.format.FileName(), msg.err), true
		} else {
			s.status, s.statusErr = "Saved to "+msg.path, false
		}
		return s, nil

	case toggleSourceMsg:
		s.showSource = !s.showSource
		if s.showSource {
			s.viewport.SetContent(s.outcome.Document.Text)
			s.menu.Items[itemSource].Label = "Show MCQs"
		} else {
			s.viewport.SetContent(s.outcome.Result.Text)
			s.menu.Items[itemSource].Label = "Show extracted text"
		}
		s.viewport.GotoTop()
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.viewport.ScrollUp(1)
		case "down", "j":
			s.viewport.ScrollDown(1)
		case "pgup":
			s.viewport.PageUp()
		case "pgdown":
			s.viewport.PageDown()
		default:
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		return s, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	var top strings.Builder
	top.WriteString(styleSuccess.Render(service.MsgGenerated))
	top.WriteString("\n")

	doc, res := s.outcome.Document, s.outcome.Result
	info := fmt.Sprintf("%s · %d page(s) · %d characters · %d of %d questions · %s",
		doc.Name, doc.PageCount, doc.CharCount, len(res.Questions), s.requested(), res.Model)
	top.WriteString(styleHint.Render(info))
	if n := len(res.Warnings); n > 0 {
		top.WriteString("\n" + styleWarn.Render(fmt.Sprintf("%d formatting issue(s) in the reply", n)))
	}

	bottom := s.menu.View()
	if s.status != "" {
		style := styleSuccess
		if s.statusErr {
			style = styleError
		}
		bottom += "\n" + style.Render(s.status)
	}

	topText, bottomText := top.String(), bottom
	used := strings.Count(topText, "\n") + 1 + strings.Count(bottomText, "\n") + 1 + 4
	s.viewport.SetWidth(max(width-4, 10))
	s.viewport.SetHeight(max(height-used, 3))

	body := styleCard.Render(s.viewport.View())
	return topText + "\n" + body + "\n" + bottomText
}

func (s *ResultScreen) requested() int {
	if s.outcome.Generation != nil {
		return s.outcome.Generation.QuestionCount
	}
	return len(s.outcome.Result.Questions)
}

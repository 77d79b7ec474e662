// Package tui is the terminal front end: pick a PDF, choose how many
// questions to ask for, read the result and save it.
package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ali-gai/MCQs-Generator/internal/config"
)

// Options wires the terminal UI.
type Options struct {
	Pipeline Pipeline
	Limits   config.Limits

	// OutDir receives saved exports. Empty means the working directory.
	OutDir string

	// Model is shown in the header.
	Model string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *Router
	model  string
	width  int
	height int
}

// NewApp creates the root model with the upload screen.
func NewApp(ctx context.Context, opts Options) AppModel {
	return AppModel{
		router: NewRouter(NewUploadScreen(ctx, opts.Pipeline, opts.Limits, opts.OutDir)),
		model:  opts.Model,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if IsTooSmall(m.width, m.height) {
		v.SetContent(renderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	hints := []KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active := m.router.Active(); active != nil {
		title = active.Title()
		if p, ok := active.(KeyHintProvider); ok {
			hints = p.KeyHints()
		}
	}

	header := renderHeader(title, m.model, m.width)
	footer := renderFooter(hints, m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(renderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewApp(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

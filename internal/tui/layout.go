package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	MinWidth  = 60
	MinHeight = 18

	appName = "MCQ Generator"
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func renderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(colorText).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// renderHeader draws the app name, the screen title and the model.
func renderHeader(title, model string, width int) string {
	left := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render("  " + appName)
	center := lipgloss.NewStyle().Foreground(colorText).Render(title)
	right := lipgloss.NewStyle().Foreground(colorAccent).Render(model)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)
	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return lipgloss.NewStyle().
		Width(width).
		Background(colorCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Render(content)
}

func renderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(colorText).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(colorDim).Render(h.Description))
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(colorCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Render("  " + strings.Join(parts, "   "))
}

func renderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

package tui

import (
	"charm.land/lipgloss/v2"
)

// Palette.
var (
	colorPrimary = lipgloss.Color("#2D6CDF") // blue
	colorAccent  = lipgloss.Color("#F59E0B") // amber
	colorSuccess = lipgloss.Color("#22C55E")
	colorError   = lipgloss.Color("#F43F5E")
	colorText    = lipgloss.Color("#F8FAFC")
	colorDim     = lipgloss.Color("#94A3B8")
	colorCard    = lipgloss.Color("#1E293B")
	colorBorder  = lipgloss.Color("#334155")
)

// Text.
var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleBody    = lipgloss.NewStyle().Foreground(colorText)
	styleHint    = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	styleLabel   = lipgloss.NewStyle().Foreground(colorDim)
	styleFocused = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(colorPrimary)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleWarn    = lipgloss.NewStyle().Foreground(colorAccent)
)

// Components.
var (
	styleCard           = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	styleButtonActive   = lipgloss.NewStyle().Background(colorPrimary).Foreground(colorText).Bold(true).Padding(0, 2)
	styleButtonInactive = lipgloss.NewStyle().Background(colorCard).Foreground(colorDim).Padding(0, 2)
	styleSliderFilled   = lipgloss.NewStyle().Background(colorPrimary)
	styleSliderEmpty    = lipgloss.NewStyle().Background(colorBorder)
)

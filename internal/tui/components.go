package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// MenuItem is one button in a Menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a row of buttons. Left/right or tab move the selection and
// enter runs the selected action.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "left", "h", "shift+tab":
		m.move(-1)
	case "right", "l", "tab":
		m.move(1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

func (m *Menu) move(step int) {
	for i := m.Selected + step; i >= 0 && i < len(m.Items); i += step {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) View() string {
	buttons := make([]string, 0, len(m.Items))
	for i, item := range m.Items {
		if i == m.Selected {
			buttons = append(buttons, styleButtonActive.Render("▸ "+item.Label))
		} else {
			buttons = append(buttons, styleButtonInactive.Render("  "+item.Label))
		}
	}
	return strings.Join(buttons, "  ")
}

// Slider picks an integer between Min and Max with the arrow keys.
type Slider struct {
	Label string
	Min   int
	Max   int
	Value int
	Width int
}

// NewSlider clamps value into lo..hi.
func NewSlider(label string, lo, hi, value, width int) Slider {
	s := Slider{Label: label, Min: lo, Max: hi, Width: width}
	s.Set(value)
	return s
}

// Set moves the slider to v, clamped.
func (s *Slider) Set(v int) {
	s.Value = min(max(v, s.Min), s.Max)
}

func (s Slider) Update(msg tea.Msg) Slider {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s
	}
	switch kmsg.String() {
	case "left", "h", "-":
		s.Set(s.Value - 1)
	case "right", "l", "+":
		s.Set(s.Value + 1)
	case "home":
		s.Set(s.Min)
	case "end":
		s.Set(s.Max)
	}
	return s
}

// View renders the label, the bar and the value.
func (s Slider) View(focused bool) string {
	label := styleLabel.Render(s.Label)
	if focused {
		label = styleFocused.Render(s.Label)
	}

	barWidth := max(s.Width, 4)
	filled := barWidth
	if span := s.Max - s.Min; span > 0 {
		filled = barWidth * (s.Value - s.Min + 1) / (span + 1)
	}
	bar := styleSliderFilled.Render(strings.Repeat(" ", filled)) +
		styleSliderEmpty.Render(strings.Repeat(" ", barWidth-filled))

	value := lipgloss.NewStyle().Foreground(colorText).Bold(true).
		Render(fmt.Sprintf("%d", s.Value))
	return label + "\n" + bar + "  " + value + styleHint.Render(fmt.Sprintf("  (%d-%d)", s.Min, s.Max))
}

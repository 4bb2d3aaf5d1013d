package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Grayed out
	ButtonFocused                     // Highlighted
)

// Button is one entry in a ButtonBar.
type Button struct {
	Label string
	State ButtonState
}

func buttonStyle(state ButtonState) lipgloss.Style {
	t := theme.Current()
	base := lipgloss.NewStyle().Padding(0, 2).Margin(0, 1)
	switch state {
	case ButtonDisabled:
		return base.Foreground(lipgloss.Color(t.FgMuted)).Background(lipgloss.Color(t.BgMantle))
	case ButtonFocused:
		return base.Foreground(lipgloss.Color(t.BgBase)).Background(lipgloss.Color(t.Primary)).Bold(true)
	}
	return base.Foreground(lipgloss.Color(t.FgBase)).Background(lipgloss.Color(t.BgSurface0))
}

// ButtonBar renders a centered row of buttons.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a button bar.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

// SetWidth sets the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render draws the buttons.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		rendered = append(rendered, buttonStyle(btn.State).Render(btn.Label))
	}
	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, strings.Join(rendered, ""))
}

// navButtons builds the Back/Next pair for a card. Next becomes Save on
// the last card and is shown disabled while the card is invalid.
func navButtons(first, last, valid bool) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if first {
		back.Label = "Cancel"
	}

	next := Button{Label: "Next →", State: ButtonFocused}
	if last {
		next.Label = "Save"
	}
	if !valid {
		next.State = ButtonDisabled
	}
	return []Button{back, next}
}

package card

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Widget is a Card that can be hosted in the terminal UI.
type Widget interface {
	Card
	Heading() string
	Help() string
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Color palette (Catppuccin Mocha)
var (
	colorPrimary  = lipgloss.Color("#cba6f7") // Mauve
	colorText     = lipgloss.Color("#cdd6f4") // Text
	colorSubtext0 = lipgloss.Color("#a6adc8") // Subtext0
	colorSurface2 = lipgloss.Color("#585b70") // Surface2
	colorGreen    = lipgloss.Color("#a6e3a1") // Green
)

var (
	styleLabel = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	styleLabelFocused = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleOn = lipgloss.NewStyle().
		Foreground(colorGreen).
		Bold(true)

	styleOff = lipgloss.NewStyle().
			Foreground(colorSurface2)
)

// base carries the visibility and validation state every card shares.
type base struct {
	name     Name
	heading  string
	help     string
	visible  bool
	validate Validation
}

func (b *base) Name() Name                  { return b.name }
func (b *base) Heading() string             { return b.heading }
func (b *base) Help() string                { return b.help }
func (b *base) Show()                       { b.visible = true }
func (b *base) Hide()                       { b.visible = false }
func (b *base) Visible() bool               { return b.visible }
func (b *base) SetValidation(fn Validation) { b.validate = fn }
func (b *base) Validation() Validation      { return b.validate }

// newInput builds a textinput with the shared card styling.
func newInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "› "
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorText),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtext0),
			Prompt:      lipgloss.NewStyle().Foreground(colorPrimary),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorSubtext0),
			Placeholder: lipgloss.NewStyle().Foreground(colorSurface2),
			Prompt:      lipgloss.NewStyle().Foreground(colorSurface2),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(50)
	return input
}

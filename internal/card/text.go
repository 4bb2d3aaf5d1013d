package card

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextCard is a single-line text card.
type TextCard struct {
	base
	input     textinput.Model
	editorApp string // non-empty enables ctrl+e to open $EDITOR
}

// NewTextCard creates a text card.
func NewTextCard(name Name, heading, help, placeholder string) *TextCard {
	return &TextCard{
		base:  base{name: name, heading: heading, help: help},
		input: newInput(placeholder),
	}
}

// EnableEditor lets the card open the user's $EDITOR on ctrl+e.
func (c *TextCard) EnableEditor(app string) {
	c.editorApp = app
}

// Value returns the current text.
func (c *TextCard) Value() any {
	return c.input.Value()
}

// SetValue sets the text. Numbers are formatted in base 10 and nil clears
// the card.
func (c *TextCard) SetValue(v any) {
	c.input.SetValue(formatValue(v))
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// Focus focuses the input.
func (c *TextCard) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes focus from the input.
func (c *TextCard) Blur() {
	c.input.Blur()
}

// Update forwards key input to the text field.
func (c *TextCard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case EditedMsg:
		if msg.Card == c.name {
			c.input.SetValue(strings.TrimRight(msg.Content, "\n"))
		}
		return nil
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+e" && c.editorApp != "" {
			return OpenEditor(c.editorApp, c.name, c.input.Value())
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the text field.
func (c *TextCard) View() string {
	return c.input.View()
}

package card

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ConditionalCard holds an optional row filter. While unchecked the
// filter is ignored.
type ConditionalCard struct {
	*TextCard
	enabled bool
}

// NewConditionalCard creates the conditional card, unchecked.
func NewConditionalCard(heading, help string) *ConditionalCard {
	return &ConditionalCard{
		TextCard: NewTextCard(Conditional, heading, help, "<<Column>> == value"),
	}
}

// Check enables the condition.
func (c *ConditionalCard) Check() { c.enabled = true }

// Uncheck disables the condition.
func (c *ConditionalCard) Uncheck() { c.enabled = false }

// Enabled reports whether the condition is on.
func (c *ConditionalCard) Enabled() bool { return c.enabled }

// Update toggles on ctrl+t and otherwise edits the text while enabled.
func (c *ConditionalCard) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "ctrl+t" {
		c.enabled = !c.enabled
		return nil
	}
	if !c.enabled {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			return nil
		}
	}
	return c.TextCard.Update(msg)
}

// View renders the toggle and, when enabled, the condition field.
func (c *ConditionalCard) View() string {
	var b strings.Builder
	if c.enabled {
		b.WriteString(styleOn.Render("[x] only send when"))
		b.WriteString("\n")
		b.WriteString(c.TextCard.View())
	} else {
		b.WriteString(styleOff.Render("[ ] send to every row"))
	}
	return b.String()
}

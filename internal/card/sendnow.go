package card

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// SendNowCard is the final card. Its value reports whether the merge should
// run as soon as the template is saved.
type SendNowCard struct {
	base
	sendNow bool
	summary string
}

// NewSendNowCard creates the send-now card.
func NewSendNowCard(heading, help string) *SendNowCard {
	return &SendNowCard{
		base: base{name: SendNow, heading: heading, help: help},
	}
}

// Value returns a bool.
func (c *SendNowCard) Value() any {
	return c.sendNow
}

// SetValue accepts a bool. Anything else resets the card to false.
func (c *SendNowCard) SetValue(v any) {
	b, _ := v.(bool)
	c.sendNow = b
}

// SetSummary sets the text shown above the toggle, usually a diff of the
// pending changes.
func (c *SendNowCard) SetSummary(s string) {
	c.summary = s
}

// Focus is a no-op; the card has no text field.
func (c *SendNowCard) Focus() tea.Cmd { return nil }

// Blur is a no-op.
func (c *SendNowCard) Blur() {}

// Update flips the toggle on space or the arrow keys.
func (c *SendNowCard) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "space", " ", "left", "right", "h", "l":
			c.sendNow = !c.sendNow
		}
	}
	return nil
}

// View renders the summary and the toggle.
func (c *SendNowCard) View() string {
	var b strings.Builder
	if c.summary != "" {
		b.WriteString(c.summary)
		b.WriteString("\n\n")
	}
	if c.sendNow {
		b.WriteString(styleOn.Render("[x] send now"))
	} else {
		b.WriteString(styleOff.Render("[ ] save only"))
	}
	return b.String()
}

package card

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

var recipientLabels = [3]string{"To", "CC", "BCC"}

// RecipientsCard collects the to, cc and bcc columns.
type RecipientsCard struct {
	base
	inputs [3]textinput.Model
	focus  int
}

// NewRecipientsCard creates the recipients card.
func NewRecipientsCard(heading, help string) *RecipientsCard {
	c := &RecipientsCard{
		base: base{name: To, heading: heading, help: help},
	}
	c.inputs[0] = newInput("<<Email Address>>")
	c.inputs[1] = newInput("optional")
	c.inputs[2] = newInput("optional")
	return c
}

// Value returns the recipients as a Recipients value.
func (c *RecipientsCard) Value() any {
	return Recipients{
		To:  c.inputs[0].Value(),
		CC:  c.inputs[1].Value(),
		BCC: c.inputs[2].Value(),
	}
}

// SetValue accepts a Recipients or *Recipients. Anything else clears the card.
func (c *RecipientsCard) SetValue(v any) {
	var r Recipients
	switch val := v.(type) {
	case Recipients:
		r = val
	case *Recipients:
		if val != nil {
			r = *val
		}
	}
	c.inputs[0].SetValue(r.To)
	c.inputs[1].SetValue(r.CC)
	c.inputs[2].SetValue(r.BCC)
}

// Focus focuses the first field.
func (c *RecipientsCard) Focus() tea.Cmd {
	c.focus = 0
	return c.focusCurrent()
}

// Blur blurs every field.
func (c *RecipientsCard) Blur() {
	for i := range c.inputs {
		c.inputs[i].Blur()
	}
}

func (c *RecipientsCard) focusCurrent() tea.Cmd {
	c.Blur()
	return c.inputs[c.focus].Focus()
}

// Update moves between fields on tab/shift+tab and forwards other input.
func (c *RecipientsCard) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down":
			c.focus = (c.focus + 1) % len(c.inputs)
			return c.focusCurrent()
		case "shift+tab", "up":
			c.focus = (c.focus + len(c.inputs) - 1) % len(c.inputs)
			return c.focusCurrent()
		}
	}

	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

// View renders the three fields with labels.
func (c *RecipientsCard) View() string {
	var b strings.Builder
	for i, input := range c.inputs {
		label := styleLabel
		if i == c.focus {
			label = styleLabelFocused
		}
		b.WriteString(label.Render(recipientLabels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		if i < len(c.inputs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

package card

import (
	"regexp"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

var documentURL = regexp.MustCompile(`/document/d/([A-Za-z0-9_-]+)`)

// ParseDocumentID extracts a document ID from a pasted document URL. Input
// that is not a URL is returned trimmed.
func ParseDocumentID(s string) string {
	s = strings.TrimSpace(s)
	if m := documentURL.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// DocumentCard selects the document merged for each row.
type DocumentCard struct {
	base
	input textinput.Model
}

// NewDocumentCard creates the document selector card.
func NewDocumentCard(heading, help string) *DocumentCard {
	return &DocumentCard{
		base:  base{name: DocumentSelector, heading: heading, help: help},
		input: newInput("document ID or URL"),
	}
}

// Value returns a DocumentRef.
func (c *DocumentCard) Value() any {
	return DocumentRef{ID: ParseDocumentID(c.input.Value())}
}

// SetValue accepts a DocumentRef, *DocumentRef or a raw ID string.
func (c *DocumentCard) SetValue(v any) {
	switch val := v.(type) {
	case DocumentRef:
		c.input.SetValue(val.ID)
	case *DocumentRef:
		if val != nil {
			c.input.SetValue(val.ID)
			return
		}
		c.input.SetValue("")
	default:
		c.input.SetValue(formatValue(v))
	}
}

// Focus focuses the input.
func (c *DocumentCard) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes focus from the input.
func (c *DocumentCard) Blur() {
	c.input.Blur()
}

// Update forwards input to the field.
func (c *DocumentCard) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the field and the resolved ID when it differs from the input.
func (c *DocumentCard) View() string {
	view := c.input.View()
	raw := strings.TrimSpace(c.input.Value())
	if id := ParseDocumentID(raw); id != raw {
		view += "\n" + styleLabel.Render("id: "+id)
	}
	return view
}

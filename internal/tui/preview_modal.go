package tui

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/preview"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// PreviewModal shows the rendered markdown summary of a template.
type PreviewModal struct {
	viewport viewport.Model
	title    string
	visible  bool
}

// NewPreviewModal creates a hidden preview modal.
func NewPreviewModal() *PreviewModal {
	return &PreviewModal{
		viewport: viewport.New(
			viewport.WithWidth(80),
			viewport.WithHeight(20),
		),
	}
}

// Open renders t into the modal and shows it.
func (p *PreviewModal) Open(t *mergetemplate.Template, width, height int) {
	w := min(max(width-8, 40), 100)
	h := max(height-8, 5)
	p.viewport.SetWidth(w)
	p.viewport.SetHeight(h)
	p.viewport.SetContent(preview.Render(t, w))
	p.viewport.GotoTop()
	p.title = t.Title()
	p.visible = true
}

// IsVisible returns whether the modal is showing.
func (p *PreviewModal) IsVisible() bool {
	return p.visible
}

// Update scrolls the preview; esc or q closes it.
func (p *PreviewModal) Update(msg tea.Msg) tea.Cmd {
	if !p.visible {
		return nil
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q", "p":
			p.visible = false
			return nil
		}
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// Render draws the modal box.
func (p *PreviewModal) Render() string {
	s := theme.Current().S()
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.ModalTitle.Render("Preview · "+p.title),
		"",
		p.viewport.View(),
		"",
		RenderHintBar(KeyUpDown, "scroll", KeyEsc, "close"),
	)
	return s.Panel.Render(content)
}

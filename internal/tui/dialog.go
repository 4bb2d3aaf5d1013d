package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// ConfirmDialog is a yes/no modal. It implements listview.Dialog: the
// confirm callback runs only when the user accepts.
type ConfirmDialog struct {
	title   string
	prompt  string
	visible bool
	confirm func()
}

// NewConfirmDialog creates a dialog with the given title.
func NewConfirmDialog(title string) *ConfirmDialog {
	return &ConfirmDialog{title: title}
}

// Confirm shows the dialog with prompt.
func (d *ConfirmDialog) Confirm(prompt string, confirm func()) {
	d.prompt = prompt
	d.confirm = confirm
	d.visible = true
}

// IsVisible returns whether the dialog is visible
func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

// Prompt returns the question being asked.
func (d *ConfirmDialog) Prompt() string {
	return d.prompt
}

func (d *ConfirmDialog) close() {
	d.visible = false
	d.confirm = nil
}

// Update handles y/enter to accept and n/esc to decline. It reports
// whether the key was consumed.
func (d *ConfirmDialog) Update(msg tea.Msg) bool {
	if !d.visible {
		return false
	}

	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return false
	}

	switch key.String() {
	case "y", "enter":
		confirm := d.confirm
		d.close()
		if confirm != nil {
			confirm()
		}
	case "n", "esc":
		d.close()
	}
	return true
}

// Render draws the dialog box.
func (d *ConfirmDialog) Render() string {
	s := theme.Current().S()

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Button.Render("y  yes"), "  ", s.Button.Render("n  no"))

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.ModalTitle.Render(d.title),
		"",
		s.ModalBody.Render(d.prompt),
		"",
		buttons,
	)
	return s.Panel.Render(content)
}

// Draw renders the dialog centered on screen
func (d *ConfirmDialog) Draw(scr uv.Screen, area uv.Rectangle) {
	if !d.visible {
		return
	}
	DrawCentered(scr, area, d.Render())
}

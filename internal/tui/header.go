package tui

import (
	"fmt"
	"strings"
	"sync/atomic"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// Header renders the top bar. It is the list view's action bar: the
// branding shows while the list has templates.
type Header struct {
	branding atomic.Bool
	count    atomic.Int32
	owner    string
}

// NewHeader creates a new Header component.
func NewHeader(owner string) *Header {
	return &Header{owner: owner}
}

// ShowBranding implements listview.ActionBar.
func (h *Header) ShowBranding() { h.branding.Store(true) }

// HideBranding implements listview.ActionBar.
func (h *Header) HideBranding() { h.branding.Store(false) }

// Branding reports whether the branding is shown.
func (h *Header) Branding() bool { return h.branding.Load() }

// SetCount sets the number of templates shown on the right.
func (h *Header) SetCount(n int) { h.count.Store(int32(n)) }

// Render builds the header line for the given width.
func (h *Header) Render(width int) string {
	t := theme.Current()
	s := t.S()

	left := s.HeaderTitle.Render("mailman")
	if h.Branding() {
		left = theme.Gradient("✉ mailman · mail merge", t.Primary, t.Secondary)
	}

	var info []string
	if h.owner != "" {
		info = append(info, h.owner)
	}
	info = append(info, fmt.Sprintf("%d templates", h.count.Load()))
	right := s.HeaderInfo.Render(strings.Join(info, " | "))

	pad := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return " " + left + strings.Repeat(" ", pad) + right + " "
}

// Draw renders the header to the screen at the given area.
func (h *Header) Draw(scr uv.Screen, area uv.Rectangle) {
	if area.Dy() < 1 {
		return
	}
	DrawText(scr, area, h.Render(area.Dx()))
}

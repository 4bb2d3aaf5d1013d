package tui

import (
	"strings"

	"github.com/mark3labs/mailman/internal/listview"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// listHost is the mount point of the template list view.
type listHost struct {
	mounted []listview.Renderer
}

// Append implements listview.Host.
func (h *listHost) Append(r listview.Renderer) {
	h.mounted = append(h.mounted, r)
}

func (h *listHost) Render(width int) string {
	parts := make([]string, 0, len(h.mounted))
	for _, r := range h.mounted {
		if out := r.Render(width); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

// itemActions are the user actions of a list row.
type itemActions interface {
	Edit()
	Preview()
	Delete()
	Run()
	ToggleRepeat()
}

// renderList draws the items with the row at cursor highlighted. While the
// list is empty the mounted view is drawn instead, which shows the empty
// state.
func renderList(host *listHost, items []listview.Item, cursor, width int) string {
	if len(items) == 0 {
		return host.Render(width)
	}

	s := theme.Current().S()
	rows := make([]string, 0, len(items))
	for i, item := range items {
		style := s.Unselected
		if i == cursor {
			style = s.Selected
		}
		rows = append(rows, style.Render(item.Render(width-3)))
	}
	return strings.Join(rows, "\n\n")
}

// clampCursor keeps cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

package tui

import (
	"strings"

	"github.com/mark3labs/mailman/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown = "↑/↓"
	KeyEnter  = "enter"
	KeyEsc    = "esc"
)

// RenderHint renders a single key-description pair.
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders key-description pairs separated by " • ".
// An odd number of arguments renders nothing.
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, RenderHint(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, s.HintDesc.Render(" • "))
}

func listHints() string {
	return RenderHintBar(
		KeyUpDown, "move",
		"n/d", "new",
		KeyEnter, "edit",
		"p", "preview",
		"r", "run",
		"t", "repeat",
		"x", "delete",
		"s", "settings",
		"q", "quit",
	)
}

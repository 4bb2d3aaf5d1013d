package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// modalStyles are derived from the active theme on each render so a theme
// switch takes effect on the next frame.
type modalStyles struct {
	container    lipgloss.Style
	title        lipgloss.Style
	heading      lipgloss.Style
	help         lipgloss.Style
	err          lipgloss.Style
	progressDone lipgloss.Style
	progressTodo lipgloss.Style
	separator    lipgloss.Style
}

func stylesFor(t *theme.Theme) modalStyles {
	return modalStyles{
		container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Tertiary)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		title:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true),
		heading:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)).Bold(true),
		help:         lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Italic(true),
		err:          lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		progressDone: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)),
		progressTodo: lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)),
		separator:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)),
	}
}

// renderHintBar renders key/description pairs as "enter next • esc back".
// An odd number of arguments renders nothing.
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	sep := " " + stylesFor(theme.Current()).separator.Render("•") + " "
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		parts = append(parts, s.HintKey.Render(pairs[i])+" "+s.HintDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, sep)
}

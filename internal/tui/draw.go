package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// DrawText renders plain text at a position
func DrawText(scr uv.Screen, area uv.Rectangle, text string) {
	uv.NewStyledString(text).Draw(scr, area)
}

// DrawCentered draws content in a box centered in area, leaving the rest
// of area untouched.
func DrawCentered(scr uv.Screen, area uv.Rectangle, content string) {
	w := min(lipgloss.Width(content), area.Dx())
	h := min(lipgloss.Height(content), area.Dy())
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2

	uv.NewStyledString(content).Draw(scr, uv.Rectangle{
		Min: uv.Position{X: x, Y: y},
		Max: uv.Position{X: x + w, Y: y + h},
	})
}

// DrawPanel renders a "Title ────" header and returns the area below it.
func DrawPanel(scr uv.Screen, area uv.Rectangle, title string) uv.Rectangle {
	if title == "" || area.Dy() < 1 {
		return area
	}

	t := theme.Current()
	styledTitle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true).Render(title)
	ruleWidth := max(area.Dx()-lipgloss.Width(styledTitle)-1, 0)
	rule := lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)).Render(strings.Repeat("─", ruleWidth))

	titleArea := uv.Rectangle{
		Min: area.Min,
		Max: uv.Position{X: area.Max.X, Y: area.Min.Y + 1},
	}
	uv.NewStyledString(styledTitle + " " + rule).Draw(scr, titleArea)

	return uv.Rectangle{
		Min: uv.Position{X: area.Min.X, Y: area.Min.Y + 1},
		Max: area.Max,
	}
}

// splitRows carves a header row and a footer row off area.
func splitRows(area uv.Rectangle) (header, body, footer uv.Rectangle) {
	header = uv.Rectangle{Min: area.Min, Max: uv.Position{X: area.Max.X, Y: area.Min.Y + 1}}
	footer = uv.Rectangle{Min: uv.Position{X: area.Min.X, Y: area.Max.Y - 1}, Max: area.Max}
	body = uv.Rectangle{
		Min: uv.Position{X: area.Min.X, Y: area.Min.Y + 1},
		Max: uv.Position{X: area.Max.X, Y: area.Max.Y - 1},
	}
	return header, body, footer
}

package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// toastDuration is how long a toast stays up.
const toastDuration = 3 * time.Second

// ToastDismissMsg is sent when the toast should be dismissed.
type ToastDismissMsg struct {
	gen int
}

// Toast shows a one-line notification in the footer until it times out.
type Toast struct {
	message string
	isError bool
	gen     int
}

// NewToast creates a new Toast component.
func NewToast() *Toast {
	return &Toast{}
}

// Info shows a notification.
func (t *Toast) Info(msg string) tea.Cmd {
	return t.show(msg, false)
}

// Error shows an error notification.
func (t *Toast) Error(msg string) tea.Cmd {
	return t.show(msg, true)
}

func (t *Toast) show(msg string, isError bool) tea.Cmd {
	t.message = msg
	t.isError = isError
	t.gen++
	gen := t.gen
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{gen: gen}
	})
}

// Update dismisses the toast when its own timer fires. Timers from earlier
// toasts are ignored.
func (t *Toast) Update(msg tea.Msg) {
	if m, ok := msg.(ToastDismissMsg); ok && m.gen == t.gen {
		t.message = ""
	}
}

// Visible returns whether a toast is showing.
func (t *Toast) Visible() bool {
	return t.message != ""
}

// View renders the toast, or "" when none is showing.
func (t *Toast) View() string {
	if t.message == "" {
		return ""
	}
	s := theme.Current().S()
	style := s.StatusInfo
	if t.isError {
		style = s.StatusError
	}
	return style.Render(t.message)
}

// Width is the rendered width of the toast.
func (t *Toast) Width() int {
	return lipgloss.Width(t.View())
}

// Package loading is the splash shown while templates load. Once shown it
// stays up for a minimum time; a Hide that arrives earlier is retried
// every second until that time has passed.
package loading

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Defaults used by New.
const (
	DefaultMinDisplay = 5 * time.Second
	RetryInterval     = time.Second
)

// retryHideMsg asks the screen to try hiding again.
type retryHideMsg struct{ gen int }

// HiddenMsg is emitted when the screen actually hides.
type HiddenMsg struct{}

// Screen is the loading splash.
type Screen struct {
	spinner    spinner.Model
	label      string
	minDisplay time.Duration
	now        func() time.Time

	visible bool
	shownAt time.Time
	gen     int
}

// Option configures a Screen.
type Option func(*Screen)

// WithMinDisplay overrides the minimum display time.
func WithMinDisplay(d time.Duration) Option {
	return func(s *Screen) { s.minDisplay = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// New creates a hidden loading screen.
func New(label string, opts ...Option) *Screen {
	s := &Screen{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7"))),
		),
		label:      label,
		minDisplay: DefaultMinDisplay,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Show displays the screen and starts the minimum display window.
func (s *Screen) Show() tea.Cmd {
	s.visible = true
	s.shownAt = s.now()
	s.gen++
	return s.spinner.Tick
}

// Elapsed reports whether the minimum display window has passed.
func (s *Screen) Elapsed() bool {
	return s.now().Sub(s.shownAt) >= s.minDisplay
}

// Hide hides the screen if the minimum display time has passed. Otherwise
// it schedules another attempt in RetryInterval.
func (s *Screen) Hide() tea.Cmd {
	if !s.visible {
		return nil
	}
	if s.Elapsed() {
		s.visible = false
		return func() tea.Msg { return HiddenMsg{} }
	}
	gen := s.gen
	return tea.Tick(RetryInterval, func(time.Time) tea.Msg {
		return retryHideMsg{gen: gen}
	})
}

// Visible reports whether the screen is shown.
func (s *Screen) Visible() bool {
	return s.visible
}

// Update handles spinner ticks and hide retries.
func (s *Screen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case retryHideMsg:
		if msg.gen != s.gen {
			return nil
		}
		return s.Hide()
	case spinner.TickMsg:
		if !s.visible {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

// View renders the spinner and label centered in width x height.
func (s *Screen) View(width, height int) string {
	if !s.visible {
		return ""
	}
	content := s.spinner.View() + " " + lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Render(s.label)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

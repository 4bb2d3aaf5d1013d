package tui

import (
	"strings"
	"sync"

	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// SettingRow is one read-only line of the settings view.
type SettingRow struct {
	Label string
	Value string
}

// Settings is the sibling of the template list. The two never show at the
// same time: closing settings announces it on the bus, and settings hides
// itself once the list says it is showing.
type Settings struct {
	bus  *events.Bus
	rows []SettingRow

	mu       sync.Mutex
	visible  bool
	sub      *events.Subscription
	onChange func()
}

// NewSettings creates a hidden settings view listening on bus.
func NewSettings(bus *events.Bus, rows []SettingRow) (*Settings, error) {
	s := &Settings{bus: bus, rows: rows}
	sub, err := bus.Subscribe(events.RulesListShow, s.hide)
	if err != nil {
		return nil, err
	}
	s.sub = sub
	return s, nil
}

// OnChange registers fn to run after the view hides itself.
func (s *Settings) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Open shows the settings view.
func (s *Settings) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// Close asks the list to come back. The view stays up until the list
// confirms.
func (s *Settings) Close() error {
	logger.Debug("Closing settings view")
	return s.bus.Publish(events.SettingsViewHide)
}

func (s *Settings) hide() {
	s.mu.Lock()
	if !s.visible {
		s.mu.Unlock()
		return
	}
	s.visible = false
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Visible reports whether the view is showing.
func (s *Settings) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Stop unsubscribes from the bus.
func (s *Settings) Stop() error {
	return s.sub.Unsubscribe()
}

// Render draws the settings rows.
func (s *Settings) Render(width int) string {
	st := theme.Current().S()
	lines := make([]string, 0, len(s.rows))
	for _, row := range s.rows {
		value := row.Value
		if value == "" {
			value = "—"
		}
		lines = append(lines, st.Label.Render(row.Label)+st.Value.Render(value))
	}
	return st.Panel.Width(min(width, 80)).Render(strings.Join(lines, "\n"))
}

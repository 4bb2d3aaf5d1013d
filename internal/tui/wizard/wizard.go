// Package wizard hosts the card flow in the terminal: one card per screen,
// Next gated on the card's validation, Save on the last card.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/mailman/internal/card"
	"github.com/mark3labs/mailman/internal/cardflow"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metrics"
	"github.com/mark3labs/mailman/internal/preview"
	"github.com/mark3labs/mailman/internal/tui/theme"
)

// ErrCancelled is returned by RunWizard when the user backs out.
var ErrCancelled = errors.New("wizard cancelled by user")

// DoneMsg is emitted when the user saves the last card.
type DoneMsg struct {
	Template *mergetemplate.Template
	// Original is the template the wizard was opened with, nil for a new one.
	Original *mergetemplate.Template
	SendNow  bool
}

// CancelledMsg is emitted when the user leaves the wizard without saving.
type CancelledMsg struct{}

// Options configures a Model.
type Options struct {
	// EditorApp enables ctrl+e on text cards when set.
	EditorApp string
	Metrics   *metrics.Metrics
}

// Model is the bubbletea model of the card wizard.
type Model struct {
	controller *cardflow.Controller
	widgets    map[card.Name]card.Widget
	original   *mergetemplate.Template

	width, height int
	showInvalid   bool

	// standalone is set by RunWizard; the model then quits on finish.
	standalone bool
	result     *DoneMsg
	cancelled  bool
}

// New creates a wizard for t, or for a new template when t is nil.
func New(t *mergetemplate.Template, opts Options) (*Model, error) {
	widgets := card.Widgets(opts.EditorApp)
	ctrl, err := cardflow.New(card.NewDocumentRegistry(widgets), cardflow.WithMetrics(opts.Metrics))
	if err != nil {
		return nil, fmt.Errorf("building card flow: %w", err)
	}

	if t != nil {
		ctrl.SetMergeTemplate(t)
	} else {
		ctrl.SetMergeTemplate(mergetemplate.New(mergetemplate.Config{
			MergeData: mergetemplate.MergeData{HeaderRow: "1", Type: mergetemplate.TypeDocument},
		}))
	}

	return &Model{
		controller: ctrl,
		widgets:    widgets,
		original:   t,
		width:      100,
		height:     30,
	}, nil
}

// RunWizard runs the wizard as its own program and returns what the user
// saved.
func RunWizard(t *mergetemplate.Template, opts Options) (*DoneMsg, error) {
	m, err := New(t, opts)
	if err != nil {
		return nil, err
	}
	m.standalone = true

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := final.(*Model)
	if !ok {
		return nil, errors.New("unexpected model type")
	}
	if wm.cancelled || wm.result == nil {
		return nil, ErrCancelled
	}
	return wm.result, nil
}

// Controller exposes the card flow.
func (m *Model) Controller() *cardflow.Controller {
	return m.controller
}

func (m *Model) active() card.Widget {
	return m.widgets[m.controller.Active().Name]
}

// Init focuses the first card.
func (m *Model) Init() tea.Cmd {
	return m.active().Focus()
}

// SetSize sets the area the wizard is drawn in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles navigation keys and forwards the rest to the active card.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case DoneMsg:
		if m.standalone {
			m.result = &msg
			return m, tea.Quit
		}
		return m, nil

	case CancelledMsg:
		if m.standalone {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, cancel
		case "esc", "ctrl+p":
			return m, m.back()
		case "enter", "ctrl+n":
			return m, m.next()
		}
	}

	cmd := m.active().Update(msg)
	if m.controller.ValidateState() {
		m.showInvalid = false
	}
	return m, cmd
}

func cancel() tea.Msg { return CancelledMsg{} }

// next advances when the active card is valid, or finishes on the last card.
func (m *Model) next() tea.Cmd {
	if !m.controller.ValidateState() {
		m.showInvalid = true
		logger.Debug("Card %s is invalid, staying", m.controller.Active().Name)
		return nil
	}
	m.showInvalid = false

	if m.controller.IsLast() {
		done := DoneMsg{
			Template: m.controller.MergeTemplate(),
			Original: m.original,
			SendNow:  m.controller.SendNow(),
		}
		return func() tea.Msg { return done }
	}

	m.active().Blur()
	node, _ := m.controller.Next()
	if node.Name == card.SendNow {
		m.refreshSummary()
	}
	return m.active().Focus()
}

func (m *Model) back() tea.Cmd {
	if m.controller.IsFirst() {
		return cancel
	}
	m.showInvalid = false
	m.active().Blur()
	m.controller.Back()
	return m.active().Focus()
}

// refreshSummary shows the pending changes on the send-now card.
func (m *Model) refreshSummary() {
	sn, ok := m.widgets[card.SendNow].(*card.SendNowCard)
	if !ok {
		return
	}

	diff, err := preview.Diff(m.original, m.controller.MergeTemplate())
	switch {
	case err != nil:
		logger.Warn("Failed to diff template: %v", err)
		sn.SetSummary("")
	case diff == "":
		sn.SetSummary(stylesFor(theme.Current()).help.Render("No changes."))
	default:
		sn.SetSummary(preview.HighlightDiff(diff))
	}
}

// Render draws the wizard as a modal sized to the current area.
func (m *Model) Render() string {
	node := m.controller.Active()
	w := m.active()
	total := m.controller.Sequence().Len()
	st := stylesFor(theme.Current())

	verb := "New merge"
	if m.original != nil {
		verb = "Edit merge"
	}

	var sections []string
	sections = append(sections, st.title.Render(fmt.Sprintf("%s · Step %d of %d", verb, node.Index+1, total)))
	sections = append(sections, renderProgress(st, node.Index, total))
	sections = append(sections, "")
	sections = append(sections, st.heading.Render(w.Heading()))
	if help := w.Help(); help != "" {
		sections = append(sections, st.help.Render(help))
	}
	sections = append(sections, "")
	sections = append(sections, w.View())
	if m.showInvalid {
		sections = append(sections, "", st.err.Render("This card needs a value before you can continue."))
	}

	modalWidth := m.width - 10
	if modalWidth < 60 {
		modalWidth = 60
	}
	if modalWidth > 100 {
		modalWidth = 100
	}

	bar := NewButtonBar(navButtons(m.controller.IsFirst(), m.controller.IsLast(), m.controller.ValidateState()))
	bar.SetWidth(modalWidth - 6)
	sections = append(sections, "", bar.Render(), "")
	sections = append(sections, renderHintBar("enter", "next", "esc", "back", "ctrl+c", "cancel"))

	return st.container.Width(modalWidth).Render(strings.Join(sections, "\n"))
}

func renderProgress(st modalStyles, index, total int) string {
	var b strings.Builder
	for i := 0; i < total; i++ {
		if i <= index {
			b.WriteString(st.progressDone.Render("●"))
		} else {
			b.WriteString(st.progressTodo.Render("○"))
		}
	}
	return b.String()
}

// View renders the wizard full screen.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.Render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

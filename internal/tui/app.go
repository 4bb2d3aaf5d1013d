// Package tui is the terminal front end: the template list, its settings
// sibling, the card wizard and the modals on top of them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/hooks"
	"github.com/mark3labs/mailman/internal/listview"
	"github.com/mark3labs/mailman/internal/loading"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/metrics"
	"github.com/mark3labs/mailman/internal/state"
	"github.com/mark3labs/mailman/internal/store"
	"github.com/mark3labs/mailman/internal/tui/theme"
	"github.com/mark3labs/mailman/internal/tui/wizard"
)

// opTimeout bounds store and metadata calls made from key handlers.
const opTimeout = 5 * time.Second

// Templates is the template store the app edits.
type Templates interface {
	Collection() *store.Collection
	Add(ctx context.Context, cfg mergetemplate.Config) (*mergetemplate.Template, error)
	Update(ctx context.Context, t *mergetemplate.Template) (*mergetemplate.Template, error)
	Delete(ctx context.Context, id string) error
	SetRepeating(ctx context.Context, id string, repeating bool) error
	Load(ctx context.Context) error
}

// Runs records and forgets run metadata.
type Runs interface {
	metadata.Service
	RecordRun(ctx context.Context, templateID string) (metadata.Info, error)
	Delete(ctx context.Context, templateID string) error
}

// Options configures an App.
type Options struct {
	Store   Templates
	Runs    Runs
	Bus     *events.Bus
	Metrics *metrics.Metrics

	DataDir    string
	Owner      string
	EditorApp  string
	MinLoading time.Duration
	Settings   []SettingRow

	// Hooks run from HooksDir after saves and runs. Nil runs none.
	Hooks    *hooks.Config
	HooksDir string
}

// App is the main Bubbletea model that manages the TUI application.
type App struct {
	ctx  context.Context
	opts Options

	header   *Header
	host     *listHost
	list     *listview.View
	settings *Settings
	loading  *loading.Screen
	preview  *PreviewModal
	toast    *Toast
	wizard   *wizard.Model

	deleteDialog *ConfirmDialog
	runDialog    *ConfirmDialog
	repeatDialog *ConfirmDialog

	uiState  *state.UIState
	cursor   int
	width    int
	height   int
	quitting bool

	// pending collects commands produced by list handlers, which cannot
	// return commands themselves.
	pending []tea.Cmd
	send    func(tea.Msg)
}

// NewApp wires the list view, its handlers and the settings view.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil || opts.Runs == nil || opts.Bus == nil {
		return nil, errors.New("tui: store, runs and bus are required")
	}

	a := &App{
		ctx:          ctx,
		opts:         opts,
		header:       NewHeader(opts.Owner),
		host:         &listHost{},
		loading:      loading.New("Loading templates", loading.WithMinDisplay(opts.MinLoading)),
		preview:      NewPreviewModal(),
		toast:        NewToast(),
		deleteDialog: NewConfirmDialog("Delete template"),
		runDialog:    NewConfirmDialog("Run merge"),
		repeatDialog: NewConfirmDialog("Repeat merge"),
		uiState:      state.Load(opts.DataDir),
		width:        100,
		height:       30,
	}

	list, err := listview.New(a.host, opts.Runs, opts.Bus,
		listview.WithActionBar(a.header),
		listview.WithMetrics(opts.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("creating list view: %w", err)
	}
	a.list = list

	settings, err := NewSettings(opts.Bus, opts.Settings)
	if err != nil {
		list.Close()
		return nil, fmt.Errorf("creating settings view: %w", err)
	}
	a.settings = settings

	a.wireList()
	list.OnChange(a.notify)
	settings.OnChange(a.notify)
	return a, nil
}

// SetSender sets how bus goroutines reach the program, normally
// (*tea.Program).Send. It must be called before the program starts.
func (a *App) SetSender(send func(tea.Msg)) {
	a.send = send
}

// notify may run inside Update (SetContainer rebuilds synchronously), so
// it must not block on the program's message loop.
func (a *App) notify() {
	if a.send != nil {
		go a.send(listChangedMsg{})
	}
}

// wireList installs the handlers and dialogs. Items only pick these up
// when they are created, so this runs before the container is set.
func (a *App) wireList() {
	a.list.SetDeleteDialog(a.deleteDialog)
	a.list.SetRunDialog(a.runDialog)
	a.list.SetRepeatDialog(a.repeatDialog)

	a.list.SetEditHandler(a.openWizard)
	a.list.SetPreviewHandler(func(t *mergetemplate.Template) {
		a.preview.Open(t, a.width, a.height)
	})
	a.list.SetDeleteHandler(a.deleteTemplate)
	a.list.SetRunHandler(a.runTemplate)
	a.list.SetRepeatHandlers(
		func(t *mergetemplate.Template) { a.setRepeating(t, true) },
		func(t *mergetemplate.Template) { a.setRepeating(t, false) },
	)
	a.list.SetEmailHandler(func() { a.openWizard(nil) })
	a.list.SetDocumentHandler(func() { a.openWizard(nil) })
}

func (a *App) openWizard(t *mergetemplate.Template) {
	w, err := wizard.New(t, wizard.Options{EditorApp: a.opts.EditorApp, Metrics: a.opts.Metrics})
	if err != nil {
		a.queue(a.toast.Error(err.Error()))
		return
	}
	w.SetSize(a.width, a.height)
	a.wizard = w
	a.queue(w.Init())
}

func (a *App) deleteTemplate(t *mergetemplate.Template) {
	ctx, cancel := context.WithTimeout(a.ctx, opTimeout)
	defer cancel()

	if err := a.opts.Store.Delete(ctx, t.ID()); err != nil {
		logger.Error("Failed to delete template %s: %v", t.ID(), err)
		a.queue(a.toast.Error("Delete failed: " + err.Error()))
		return
	}
	if err := a.opts.Runs.Delete(ctx, t.ID()); err != nil {
		logger.Warn("Failed to delete run metadata for %s: %v", t.ID(), err)
	}
	a.queue(a.toast.Info(fmt.Sprintf("Deleted %q", t.Title())))
}

func (a *App) runTemplate(t *mergetemplate.Template) {
	ctx, cancel := context.WithTimeout(a.ctx, opTimeout)
	defer cancel()

	info, err := a.opts.Runs.RecordRun(ctx, t.ID())
	if err != nil {
		logger.Error("Failed to record run of %s: %v", t.ID(), err)
		a.queue(a.toast.Error("Run failed: " + err.Error()))
		return
	}
	// Run info lives outside the store, so nudge the list to re-read it.
	if err := a.opts.Bus.Publish(events.RulesRepeater); err != nil {
		logger.Warn("Failed to publish run of %s: %v", t.ID(), err)
	}
	a.queue(a.toast.Info(fmt.Sprintf("Queued %q (run %d)", t.Title(), info.RunCount)))
	a.queue(a.runHooks(hooks.PostRun, t))
}

func (a *App) runHooks(e hooks.Event, t *mergetemplate.Template) tea.Cmd {
	list := a.opts.Hooks.For(e)
	if len(list) == 0 {
		return nil
	}
	vars := hooks.VariablesFor(t)
	return func() tea.Msg {
		res, err := hooks.ExecuteAll(a.ctx, list, a.opts.HooksDir, vars)
		return hookRanMsg{event: e, title: vars.Title, result: res, err: err}
	}
}

func (a *App) setRepeating(t *mergetemplate.Template, on bool) {
	ctx, cancel := context.WithTimeout(a.ctx, opTimeout)
	defer cancel()

	if err := a.opts.Store.SetRepeating(ctx, t.ID(), on); err != nil {
		logger.Error("Failed to set repeating on %s: %v", t.ID(), err)
		a.queue(a.toast.Error(err.Error()))
	}
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.pending = append(a.pending, cmd)
	}
}

func (a *App) drain() tea.Cmd {
	cmds := a.pending
	a.pending = nil
	return tea.Batch(cmds...)
}

// Init initializes the application and returns any initial commands.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loading.Show(), a.load)
}

func (a *App) load() tea.Msg {
	return loadedMsg{err: a.opts.Store.Load(a.ctx)}
}

// save stores a wizard result. A template with an original is an update.
func (a *App) save(done wizard.DoneMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(a.ctx, opTimeout)
		defer cancel()

		var (
			saved *mergetemplate.Template
			err   error
		)
		if done.Original == nil {
			saved, err = a.opts.Store.Add(ctx, done.Template.ToConfig())
		} else {
			saved, err = a.opts.Store.Update(ctx, done.Template)
		}
		if err != nil {
			return savedMsg{err: err}
		}

		if done.SendNow {
			if _, err := a.opts.Runs.RecordRun(ctx, saved.ID()); err != nil {
				return savedMsg{template: saved, err: fmt.Errorf("saved, but sending failed: %w", err)}
			}
		}
		return savedMsg{template: saved, sendNow: done.SendNow}
	}
}

// Update handles all incoming messages and returns the updated model and commands.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.wizard != nil {
			a.wizard.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case listChangedMsg:
		a.syncList()
		return a, nil

	case loadedMsg:
		if msg.err != nil {
			logger.Error("Failed to load templates: %v", msg.err)
			cmds = append(cmds, a.toast.Error("Loading failed: "+msg.err.Error()))
		}
		a.list.SetContainer(a.opts.Store.Collection())
		a.cursor = a.uiState.List.Resolve(a.itemIDs())
		a.syncList()
		cmds = append(cmds, a.loading.Hide())
		return a, tea.Batch(cmds...)

	case ToastDismissMsg:
		a.toast.Update(msg)
		return a, nil

	case wizard.DoneMsg:
		a.wizard = nil
		return a, a.save(msg)

	case wizard.CancelledMsg:
		a.wizard = nil
		return a, nil

	case savedMsg:
		a.syncList()
		switch {
		case msg.err != nil:
			logger.Error("Failed to save template: %v", msg.err)
			return a, a.toast.Error(msg.err.Error())
		case msg.sendNow:
			return a, tea.Batch(
				a.toast.Info(fmt.Sprintf("Saved and sent %q", msg.template.Title())),
				a.runHooks(hooks.PostSave, msg.template),
				a.runHooks(hooks.PostRun, msg.template),
			)
		default:
			a.selectID(msg.template.ID())
			return a, tea.Batch(
				a.toast.Info(fmt.Sprintf("Saved %q", msg.template.Title())),
				a.runHooks(hooks.PostSave, msg.template),
			)
		}

	case hookRanMsg:
		switch {
		case msg.err != nil:
			logger.Warn("%s hooks for %q interrupted: %v", msg.event, msg.title, msg.err)
			return a, nil
		case msg.result.Failed:
			logger.Warn("%s hooks for %q failed: %s", msg.event, msg.title, msg.result.Output)
			return a, a.toast.Error(fmt.Sprintf("%s hook failed for %q", msg.event, msg.title))
		}
		logger.Debug("%s hooks for %q: %s", msg.event, msg.title, msg.result.Output)
		return a, nil

	case tea.KeyPressMsg:
		cmd := a.handleKey(msg)
		return a, tea.Batch(cmd, a.drain())
	}

	if a.wizard != nil {
		_, cmd := a.wizard.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, a.preview.Update(msg), a.loading.Update(msg))
	return a, tea.Batch(cmds...)
}

// handleKey routes a key press to the topmost surface.
func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	for _, d := range []*ConfirmDialog{a.deleteDialog, a.runDialog, a.repeatDialog} {
		if d.Update(msg) {
			return nil
		}
	}

	if a.wizard != nil {
		_, cmd := a.wizard.Update(msg)
		return cmd
	}

	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	if a.preview.IsVisible() {
		return a.preview.Update(msg)
	}

	if a.loading.Visible() {
		if msg.String() == "q" {
			return a.quit()
		}
		return nil
	}

	if a.settings.Visible() {
		switch msg.String() {
		case "esc", "s", "q":
			if err := a.settings.Close(); err != nil {
				logger.Error("Failed to close settings: %v", err)
				return a.toast.Error(err.Error())
			}
		}
		return nil
	}

	return a.handleListKey(msg)
}

func (a *App) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	items := a.list.Items()

	switch msg.String() {
	case "q":
		return a.quit()
	case "up", "k":
		a.cursor = clampCursor(a.cursor-1, len(items))
		return nil
	case "down", "j":
		a.cursor = clampCursor(a.cursor+1, len(items))
		return nil
	case "n":
		a.list.PressCreate()
		return nil
	case "d":
		a.list.PressDocument()
		return nil
	case "s":
		a.list.Hide()
		a.settings.Open()
		return nil
	}

	if len(items) == 0 {
		return nil
	}
	actions, ok := items[clampCursor(a.cursor, len(items))].(itemActions)
	if !ok {
		return nil
	}

	switch msg.String() {
	case "enter", "e":
		actions.Edit()
	case "p":
		actions.Preview()
	case "r":
		actions.Run()
	case "t":
		actions.ToggleRepeat()
	case "x", "delete":
		actions.Delete()
	}
	return nil
}

// syncList refreshes everything derived from the list after a rebuild.
func (a *App) syncList() {
	a.cursor = clampCursor(a.cursor, a.list.Len())
	a.header.SetCount(a.list.Len())
}

func (a *App) itemIDs() []string {
	items := a.list.Items()
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.Template().ID()
	}
	return ids
}

func (a *App) selectID(id string) {
	for i, itemID := range a.itemIDs() {
		if itemID == id {
			a.cursor = i
			return
		}
	}
}

// quit remembers the list cursor and stops the program.
func (a *App) quit() tea.Cmd {
	a.quitting = true

	st := &state.UIState{List: state.ListState{SelectedRow: a.cursor}}
	if ids := a.itemIDs(); a.cursor < len(ids) {
		st.List.SelectedID = ids[a.cursor]
	}
	if err := state.Save(a.opts.DataDir, st); err != nil {
		logger.Warn("Failed to save UI state: %v", err)
	}
	return tea.Quit
}

// Close detaches the views from the bus.
func (a *App) Close() error {
	a.list.Close()
	return a.settings.Stop()
}

// View renders the application.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if a.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())
	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = lipgloss.Color(theme.Current().BgBase)
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) {
	if a.wizard != nil {
		DrawCentered(scr, area, a.wizard.Render())
		return
	}

	if a.loading.Visible() {
		DrawText(scr, area, a.loading.View(area.Dx(), area.Dy()))
		return
	}

	headerArea, body, footer := splitRows(area)
	a.header.Draw(scr, headerArea)

	if a.settings.Visible() {
		inner := DrawPanel(scr, body, "Settings")
		DrawText(scr, inner, a.settings.Render(inner.Dx()))
		DrawText(scr, footer, RenderHintBar(KeyEsc, "back"))
	} else {
		inner := DrawPanel(scr, body, "Merge templates")
		DrawText(scr, inner, renderList(a.host, a.list.Items(), a.cursor, inner.Dx()))
		DrawText(scr, footer, listHints())
	}

	if a.toast.Visible() {
		w := a.toast.Width()
		DrawText(scr, uv.Rectangle{
			Min: uv.Position{X: max(footer.Max.X-w-1, footer.Min.X), Y: footer.Min.Y},
			Max: footer.Max,
		}, a.toast.View())
	}

	if a.preview.IsVisible() {
		DrawCentered(scr, area, a.preview.Render())
	}
	for _, d := range []*ConfirmDialog{a.deleteDialog, a.runDialog, a.repeatDialog} {
		d.Draw(scr, area)
	}
}

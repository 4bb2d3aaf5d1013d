// Package listview keeps a list of template items in step with a template
// collection. Any change notification rebuilds the whole list: every item
// is cleaned up and recreated from the collection in order.
package listview

import (
	"errors"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
	"github.com/mark3labs/mailman/internal/metrics"
)

var (
	// ErrNilHost is returned when New is called without a host.
	ErrNilHost = errors.New("host cannot be nil")
	// ErrNilMetadata is returned when New is called without a metadata service.
	ErrNilMetadata = errors.New("metadata service cannot be nil")
	// ErrNilBus is returned when New is called without an event bus.
	ErrNilBus = errors.New("event bus cannot be nil")
)

// rebuildTopics trigger a full rebuild.
var rebuildTopics = []events.Topic{
	events.RulesDelete,
	events.RulesAdd,
	events.RulesUpdate,
	events.RulesRepeater,
}

// Container is the read-only view of a template collection.
type Container interface {
	Len() int
	Get(i int) *mergetemplate.Template
}

// ActionBar shows product branding while the list has content.
type ActionBar interface {
	ShowBranding()
	HideBranding()
}

// Option configures a View.
type Option func(*View)

// WithItemFactory replaces the default item implementation.
func WithItemFactory(f ItemFactory) Option {
	return func(v *View) { v.newItem = f }
}

// WithActionBar sets the action bar toggled with the empty state.
func WithActionBar(a ActionBar) Option {
	return func(v *View) { v.actionBar = a }
}

// WithMetrics records rebuilds on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *View) { v.metrics = m }
}

// View lists the templates of a Container. Notifications arrive on bus
// goroutines, so all state is guarded by mu.
type View struct {
	meta      metadata.Service
	bus       *events.Bus
	newItem   ItemFactory
	actionBar ActionBar
	metrics   *metrics.Metrics

	mu        sync.Mutex
	base      Region
	list      Region
	empty     Region
	items     []Item
	container Container
	subs      []*events.Subscription
	onChange  func()

	onDelete, onEdit, onPreview, onRun Handler
	onRepeat, onUnrepeat               Handler
	onEmail, onDocument                func()
	repeatDialog, runDialog            Dialog
	deleteDialog                       Dialog
}

// New mounts the view in host and subscribes it to the change topics.
func New(host Host, meta metadata.Service, bus *events.Bus, opts ...Option) (*View, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if meta == nil {
		return nil, ErrNilMetadata
	}
	if bus == nil {
		return nil, ErrNilBus
	}

	v := &View{meta: meta, bus: bus, newItem: NewTemplateItem}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.init(host); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func (v *View) init(host Host) error {
	v.empty.Append(emptyState{})
	v.base.Append(&v.list)
	v.base.Append(&v.empty)
	host.Append(v)

	for _, topic := range rebuildTopics {
		sub, err := v.bus.Subscribe(topic, v.rebuild)
		if err != nil {
			return err
		}
		v.subs = append(v.subs, sub)
	}

	sub, err := v.bus.Subscribe(events.SettingsViewHide, v.Show)
	if err != nil {
		return err
	}
	v.subs = append(v.subs, sub)
	return nil
}

// Close unsubscribes the view from the bus.
func (v *View) Close() {
	v.mu.Lock()
	subs := v.subs
	v.subs = nil
	v.mu.Unlock()

	for _, s := range subs {
		if err := s.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe list view: %v", err)
		}
	}
}

// OnChange registers fn to run after every rebuild, show or hide. fn runs
// without the view lock held.
func (v *View) OnChange(fn func()) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

func (v *View) changed() {
	v.mu.Lock()
	fn := v.onChange
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetContainer sets the backing collection and rebuilds.
func (v *View) SetContainer(c Container) {
	v.mu.Lock()
	v.container = c
	v.mu.Unlock()
	v.rebuild()
}

// Add creates an item for t wired to the current handlers and dialogs.
// It does not rebuild.
func (v *View) Add(t *mergetemplate.Template) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.addLocked(t)
}

func (v *View) addLocked(t *mergetemplate.Template) {
	item := v.newItem(&v.list, t, v.meta)
	item.SetDeleteHandler(v.onDelete)
	item.SetEditHandler(v.onEdit)
	item.SetPreviewHandler(v.onPreview)
	item.SetRunHandler(v.onRun)
	item.SetRepeatHandlers(v.onRepeat, v.onUnrepeat)
	item.SetRepeatDialog(v.repeatDialog)
	item.SetRunDialog(v.runDialog)
	item.SetDeleteDialog(v.deleteDialog)
	v.items = append(v.items, item)
}

func (v *View) rebuild() {
	start := time.Now()

	v.mu.Lock()
	for _, item := range v.items {
		item.Cleanup()
	}
	v.items = nil

	if v.container != nil {
		for i := 0; i < v.container.Len(); i++ {
			if t := v.container.Get(i); t != nil {
				v.addLocked(t)
			}
		}
	}
	v.setEmptyDisplayLocked()
	n := len(v.items)
	v.mu.Unlock()

	v.metrics.Rebuilt(time.Since(start))
	logger.Debug("Template list rebuilt with %d items", n)
	v.changed()
}

func (v *View) setEmptyDisplayLocked() {
	empty := len(v.items) == 0
	v.list.SetHidden(empty)
	v.empty.SetHidden(!empty)
	if v.actionBar == nil {
		return
	}
	if empty {
		v.actionBar.HideBranding()
	} else {
		v.actionBar.ShowBranding()
	}
}

// Hide hides the view.
func (v *View) Hide() {
	v.mu.Lock()
	v.base.SetHidden(true)
	if v.actionBar != nil {
		v.actionBar.ShowBranding()
	}
	v.mu.Unlock()
	v.changed()
}

// Show recomputes the empty state, shows the view and announces it so
// sibling views can hide.
func (v *View) Show() {
	v.mu.Lock()
	v.setEmptyDisplayLocked()
	v.base.SetHidden(false)
	v.mu.Unlock()

	if err := v.bus.Publish(events.RulesListShow); err != nil {
		logger.Warn("Failed to announce list view: %v", err)
	}
	v.changed()
}

// Visible reports whether the view is shown.
func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.base.Hidden()
}

// EmptyStateVisible reports whether the empty-state region is shown in
// place of the list.
func (v *View) EmptyStateVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.empty.Hidden() && v.list.Hidden()
}

// Items returns the current items in collection order.
func (v *View) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Item, len(v.items))
	copy(out, v.items)
	return out
}

// Len returns the number of items.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// PressCreate fires the new-template handler.
func (v *View) PressCreate() {
	v.mu.Lock()
	fn := v.onEmail
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// PressDocument fires the new-document-template handler.
func (v *View) PressDocument() {
	v.mu.Lock()
	fn := v.onDocument
	v.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Render draws the view.
func (v *View) Render(width int) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.base.Render(width)
}

// The setters below only affect items created by later calls to Add.

func (v *View) SetDeleteHandler(h Handler)   { v.set(func() { v.onDelete = h }) }
func (v *View) SetEditHandler(h Handler)     { v.set(func() { v.onEdit = h }) }
func (v *View) SetPreviewHandler(h Handler)  { v.set(func() { v.onPreview = h }) }
func (v *View) SetRunHandler(h Handler)      { v.set(func() { v.onRun = h }) }
func (v *View) SetEmailHandler(fn func())    { v.set(func() { v.onEmail = fn }) }
func (v *View) SetDocumentHandler(fn func()) { v.set(func() { v.onDocument = fn }) }
func (v *View) SetRepeatDialog(d Dialog)     { v.set(func() { v.repeatDialog = d }) }
func (v *View) SetRunDialog(d Dialog)        { v.set(func() { v.runDialog = d }) }
func (v *View) SetDeleteDialog(d Dialog)     { v.set(func() { v.deleteDialog = d }) }

// SetRepeatHandlers sets the handlers for switching repetition on and off.
func (v *View) SetRepeatHandlers(on, off Handler) {
	v.set(func() {
		v.onRepeat = on
		v.onUnrepeat = off
	})
}

func (v *View) set(fn func()) {
	v.mu.Lock()
	fn()
	v.mu.Unlock()
}

type emptyState struct{}

func (emptyState) Render(width int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		Width(width).
		Align(lipgloss.Center).
		Render("No merges yet.\nPress n to create one.")
}

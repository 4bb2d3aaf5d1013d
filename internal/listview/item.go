package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metadata"
)

// Handler reacts to an action on a template.
type Handler func(t *mergetemplate.Template)

// Dialog asks the user to confirm an action. confirm runs only when the
// user accepts.
type Dialog interface {
	Confirm(prompt string, confirm func())
}

// Item is one list entry bound to a template.
type Item interface {
	Renderer
	Template() *mergetemplate.Template
	SetDeleteHandler(h Handler)
	SetEditHandler(h Handler)
	SetPreviewHandler(h Handler)
	SetRunHandler(h Handler)
	SetRepeatHandlers(on, off Handler)
	SetRepeatDialog(d Dialog)
	SetRunDialog(d Dialog)
	SetDeleteDialog(d Dialog)
	Cleanup()
}

// ItemFactory creates an item inside region.
type ItemFactory func(region *Region, t *mergetemplate.Template, meta metadata.Service) Item

var (
	styleTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")).Bold(true)
	styleDetail   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	styleRepeat   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	styleNoRepeat = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
)

// metadataTimeout bounds the lookup done when an item is created.
const metadataTimeout = time.Second

// TemplateItem is the default Item. Actions arrive on the UI goroutine
// while rebuilds clean items up from bus goroutines, so the handlers and
// dialogs are guarded by mu and read as a snapshot before firing.
type TemplateItem struct {
	region   *Region
	template *mergetemplate.Template
	info     metadata.Info

	mu                                 sync.Mutex
	onDelete, onEdit, onPreview, onRun Handler
	onRepeat, onUnrepeat               Handler
	repeatDialog, runDialog            Dialog
	deleteDialog                       Dialog

	cleaned atomic.Int32
}

// NewTemplateItem creates an item for t and appends it to region.
func NewTemplateItem(region *Region, t *mergetemplate.Template, meta metadata.Service) Item {
	item := &TemplateItem{region: region, template: t}

	if meta != nil {
		ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
		info, err := meta.Lookup(ctx, t.ID())
		cancel()
		if err != nil {
			logger.Warn("Metadata lookup failed for %s: %v", t.ID(), err)
		}
		item.info = info
	}

	region.Append(item)
	return item
}

// Template returns the bound template.
func (i *TemplateItem) Template() *mergetemplate.Template { return i.template }

// Info returns the metadata read when the item was created.
func (i *TemplateItem) Info() metadata.Info { return i.info }

func (i *TemplateItem) SetDeleteHandler(h Handler)  { i.set(func() { i.onDelete = h }) }
func (i *TemplateItem) SetEditHandler(h Handler)    { i.set(func() { i.onEdit = h }) }
func (i *TemplateItem) SetPreviewHandler(h Handler) { i.set(func() { i.onPreview = h }) }
func (i *TemplateItem) SetRunHandler(h Handler)     { i.set(func() { i.onRun = h }) }
func (i *TemplateItem) SetRepeatDialog(d Dialog)    { i.set(func() { i.repeatDialog = d }) }
func (i *TemplateItem) SetRunDialog(d Dialog)       { i.set(func() { i.runDialog = d }) }
func (i *TemplateItem) SetDeleteDialog(d Dialog)    { i.set(func() { i.deleteDialog = d }) }

// SetRepeatHandlers sets the handlers for switching repetition on and off.
func (i *TemplateItem) SetRepeatHandlers(on, off Handler) {
	i.set(func() {
		i.onRepeat = on
		i.onUnrepeat = off
	})
}

func (i *TemplateItem) set(fn func()) {
	i.mu.Lock()
	fn()
	i.mu.Unlock()
}

// snapshot returns the handler and dialog picked by pick, read under mu.
func (i *TemplateItem) snapshot(pick func() (Handler, Dialog)) (Handler, Dialog) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return pick()
}

// Edit fires the edit handler.
func (i *TemplateItem) Edit() {
	h, _ := i.snapshot(func() (Handler, Dialog) { return i.onEdit, nil })
	i.fire(h)
}

// Preview fires the preview handler.
func (i *TemplateItem) Preview() {
	h, _ := i.snapshot(func() (Handler, Dialog) { return i.onPreview, nil })
	i.fire(h)
}

// Delete asks the delete dialog, if any, then fires the delete handler.
func (i *TemplateItem) Delete() {
	h, d := i.snapshot(func() (Handler, Dialog) { return i.onDelete, i.deleteDialog })
	i.confirm(d, fmt.Sprintf("Delete %q?", i.template.Title()), h)
}

// Run asks the run dialog, if any, then fires the run handler.
func (i *TemplateItem) Run() {
	h, d := i.snapshot(func() (Handler, Dialog) { return i.onRun, i.runDialog })
	i.confirm(d, fmt.Sprintf("Run %q now?", i.template.Title()), h)
}

// ToggleRepeat switches repetition. Turning it on goes through the repeat
// dialog; turning it off does not.
func (i *TemplateItem) ToggleRepeat() {
	if i.template.Repeating() {
		h, _ := i.snapshot(func() (Handler, Dialog) { return i.onUnrepeat, nil })
		i.fire(h)
		return
	}
	h, d := i.snapshot(func() (Handler, Dialog) { return i.onRepeat, i.repeatDialog })
	i.confirm(d, fmt.Sprintf("Repeat %q every hour?", i.template.Title()), h)
}

func (i *TemplateItem) confirm(d Dialog, prompt string, h Handler) {
	if h == nil {
		return
	}
	if d == nil {
		i.fire(h)
		return
	}
	d.Confirm(prompt, func() { i.fire(h) })
}

func (i *TemplateItem) fire(h Handler) {
	if h != nil {
		h(i.template)
	}
}

// Cleanup detaches the item from its region and drops its handlers.
func (i *TemplateItem) Cleanup() {
	i.cleaned.Add(1)
	i.region.Remove(i)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.onDelete, i.onEdit, i.onPreview, i.onRun = nil, nil, nil, nil
	i.onRepeat, i.onUnrepeat = nil, nil
	i.repeatDialog, i.runDialog, i.deleteDialog = nil, nil, nil
}

// Cleaned returns how many times Cleanup was called.
func (i *TemplateItem) Cleaned() int { return int(i.cleaned.Load()) }

// Render draws the item as a title line and a detail line.
func (i *TemplateItem) Render(width int) string {
	repeat := styleNoRepeat.Render("○ once")
	if i.template.Repeating() {
		repeat = styleRepeat.Render("↻ repeating")
	}

	cfg := i.template.ToConfig()
	details := []string{cfg.MergeData.Type, "to " + cfg.MergeData.Data.To}
	if i.info.RunCount > 0 {
		details = append(details, fmt.Sprintf("ran %d× last %s", i.info.RunCount, i.info.LastRun.Local().Format("Jan 2 15:04")))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, styleTitle.Render(i.template.Title()), "  ", repeat)
	detail := styleDetail.Render(strings.Join(details, " · "))
	return lipgloss.NewStyle().MaxWidth(width).Render(line + "\n" + detail)
}

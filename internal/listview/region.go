package listview

import "strings"

// Renderer draws itself into a block of text at the given width.
type Renderer interface {
	Render(width int) string
}

// Host is where the view mounts its base region.
type Host interface {
	Append(r Renderer)
}

// Region is a hideable block of child renderers. Items append themselves
// to the list region on creation and remove themselves on cleanup.
// A Region is not safe for concurrent use; the View serializes access.
type Region struct {
	hidden   bool
	children []Renderer
}

// Append adds r at the end of the region.
func (r *Region) Append(child Renderer) {
	r.children = append(r.children, child)
}

// Remove detaches child. Removing a child that is not present is a no-op.
func (r *Region) Remove(child Renderer) {
	for i, c := range r.children {
		if c == child {
			r.children = append(r.children[:i], r.children[i+1:]...)
			return
		}
	}
}

// Len returns the number of children.
func (r *Region) Len() int { return len(r.children) }

// SetHidden shows or hides the region.
func (r *Region) SetHidden(hidden bool) { r.hidden = hidden }

// Hidden reports whether the region is hidden.
func (r *Region) Hidden() bool { return r.hidden }

// Render joins the children, or returns "" while hidden.
func (r *Region) Render(width int) string {
	if r.hidden {
		return ""
	}
	parts := make([]string, 0, len(r.children))
	for _, c := range r.children {
		parts = append(parts, c.Render(width))
	}
	return strings.Join(parts, "\n")
}

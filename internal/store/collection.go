package store

import (
	"sync"

	"github.com/mark3labs/mailman/internal/mergetemplate"
)

// Collection is the ordered set of templates, in creation order. It is
// safe for concurrent use: views read it from notification goroutines.
type Collection struct {
	mu        sync.RWMutex
	templates []*mergetemplate.Template
}

// Len returns the number of templates.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Get returns the template at index i, or nil when i is out of range.
// The collection may shrink between Len and Get.
func (c *Collection) Get(i int) *mergetemplate.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.templates) {
		return nil
	}
	return c.templates[i]
}

// Find returns the template with the given ID.
func (c *Collection) Find(id string) (*mergetemplate.Template, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(id); i >= 0 {
		return c.templates[i], true
	}
	return nil, false
}

// All returns a snapshot of the templates.
func (c *Collection) All() []*mergetemplate.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*mergetemplate.Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Collection) index(id string) int {
	for i, t := range c.templates {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection) put(t *mergetemplate.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.index(t.ID()); i >= 0 {
		c.templates[i] = t
		return
	}
	c.templates = append(c.templates, t)
}

func (c *Collection) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.templates = append(c.templates[:i], c.templates[i+1:]...)
	return true
}

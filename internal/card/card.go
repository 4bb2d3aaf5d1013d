// Package card defines the input cards a merge template is assembled from.
//
// A Card is the capability set the card flow drives: visibility, a value
// and an optional validation predicate. Toggle cards can additionally be
// switched on and off. Concrete cards in this package are bubbletea
// widgets; the flow itself only ever sees the Card interface.
package card

import (
	"errors"
	"fmt"
	"sort"
)

// Name identifies a card within a flow.
type Name string

// Card names used by the document flow.
const (
	Title            Name = "title"
	Sheet            Name = "sheet"
	Row              Name = "row"
	To               Name = "to"
	Subject          Name = "subject"
	DocumentSelector Name = "documentSelector"
	Conditional      Name = "conditional"
	SendNow          Name = "sendNow"
)

// ErrNotFound is returned when a registry has no card for a name.
var ErrNotFound = errors.New("card not found")

// Validation reports whether a card's current value is acceptable.
// A nil Validation means the card is always valid.
type Validation func() bool

// Card is the capability set shared by every card.
type Card interface {
	Name() Name
	Show()
	Hide()
	Visible() bool
	Value() any
	SetValue(v any)
	SetValidation(fn Validation)
	Validation() Validation
}

// Toggle is a card that can be enabled and disabled.
type Toggle interface {
	Card
	Check()
	Uncheck()
	Enabled() bool
}

// Recipients is the composite value of the recipients card.
type Recipients struct {
	To  string
	CC  string
	BCC string
}

// DocumentRef is the composite value of the document selector card.
type DocumentRef struct {
	ID string
}

// IsValid evaluates a card's validation, treating a missing one as valid.
func IsValid(c Card) bool {
	if fn := c.Validation(); fn != nil {
		return fn()
	}
	return true
}

// NotEmpty returns a validation that fails while c holds an empty value.
func NotEmpty(c Card) Validation {
	return func() bool {
		return !IsEmpty(c.Value())
	}
}

// IsEmpty reports whether a card value counts as empty. Only the empty
// string is empty; whitespace is a value.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case DocumentRef:
		return val.ID == ""
	case Recipients:
		return val.To == ""
	default:
		return false
	}
}

// Registry maps card names to cards.
type Registry map[Name]Card

// Lookup returns the card registered under name.
func (r Registry) Lookup(name Name) (Card, error) {
	c, ok := r[name]
	if !ok || c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return c, nil
}

// HideAll hides every registered card.
func (r Registry) HideAll() {
	for _, c := range r {
		c.Hide()
	}
}

// Visible returns the names of the cards currently shown, sorted.
func (r Registry) Visible() []Name {
	var names []Name
	for name, c := range r {
		if c.Visible() {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

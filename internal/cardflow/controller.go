// Package cardflow drives a wizard over an ordered set of cards: one card
// is visible at a time, navigation is strictly sequential and the cards'
// values are translated to and from a merge template configuration.
package cardflow

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mailman/internal/card"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metrics"
)

var (
	// ErrNilRegistry is returned when the controller is built without cards.
	ErrNilRegistry = errors.New("card registry is nil")
	// ErrMissingCard is returned when the registry lacks a card the flow uses.
	ErrMissingCard = errors.New("card missing from registry")
	// ErrNotToggle is returned when the conditional card cannot be toggled.
	ErrNotToggle = errors.New("conditional card is not a toggle")
)

// DocumentFlow is the fixed card order of the document merge flow.
var DocumentFlow = []card.Name{
	card.Title,
	card.Sheet,
	card.Row,
	card.To,
	card.Subject,
	card.DocumentSelector,
	card.Conditional,
	card.SendNow,
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records navigation counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// Controller owns the sequence, the cards and the active cursor.
// It is not safe for concurrent use.
type Controller struct {
	cards    card.Registry
	sequence *Sequence
	cursor   Node
	stored   mergetemplate.Config
	metrics  *metrics.Metrics
}

// New builds the document flow over cards. Validation is installed on the
// cards, all cards are hidden and the first card is shown.
func New(cards card.Registry, opts ...Option) (*Controller, error) {
	if cards == nil {
		return nil, ErrNilRegistry
	}
	for _, name := range DocumentFlow {
		if _, err := cards.Lookup(name); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingCard, name)
		}
	}
	if _, ok := cards[card.Conditional].(card.Toggle); !ok {
		return nil, ErrNotToggle
	}

	c := &Controller{cards: cards}
	for _, opt := range opts {
		opt(c)
	}
	c.init()
	return c, nil
}

func (c *Controller) init() {
	for _, name := range []card.Name{card.Title, card.Sheet, card.Row, card.DocumentSelector} {
		cd := c.cards[name]
		cd.SetValidation(card.NotEmpty(cd))
	}
	cond := c.conditional()
	cond.SetValidation(func() bool {
		return !cond.Enabled() || !card.IsEmpty(cond.Value())
	})

	c.sequence = NewSequence(DocumentFlow...)
	c.cursor, _ = c.sequence.Head()

	c.cards.HideAll()
	c.cards[c.cursor.Name].Show()
}

func (c *Controller) conditional() card.Toggle {
	return c.cards[card.Conditional].(card.Toggle)
}

// Sequence returns the flow order.
func (c *Controller) Sequence() *Sequence {
	return c.sequence
}

// Active returns the node of the visible card.
func (c *Controller) Active() Node {
	return c.cursor
}

// ActiveCard returns the visible card.
func (c *Controller) ActiveCard() card.Card {
	return c.cards[c.cursor.Name]
}

// IsFirst reports whether the cursor is at the head.
func (c *Controller) IsFirst() bool {
	head, _ := c.sequence.Head()
	return c.cursor == head
}

// IsLast reports whether the cursor is at the tail.
func (c *Controller) IsLast() bool {
	tail, _ := c.sequence.Tail()
	return c.cursor == tail
}

// Next hides the active card and shows the following one. At the tail it
// does nothing and returns false. Callers are expected to check
// ValidateState first.
func (c *Controller) Next() (Node, bool) {
	next, ok := c.sequence.Next(c.cursor)
	if !ok {
		return Node{}, false
	}
	c.moveTo(next)
	c.metrics.Navigated("next")
	return next, true
}

// Back hides the active card and shows the preceding one. At the head it
// does nothing and returns false.
func (c *Controller) Back() (Node, bool) {
	prev, ok := c.sequence.Previous(c.cursor)
	if !ok {
		return Node{}, false
	}
	c.moveTo(prev)
	c.metrics.Navigated("back")
	return prev, true
}

func (c *Controller) moveTo(n Node) {
	c.cards[c.cursor.Name].Hide()
	c.cursor = n
	c.cards[c.cursor.Name].Show()
	logger.Debug("Card flow moved to %s (%d/%d)", n.Name, n.Index+1, c.sequence.Len())
}

// ValidateState reports whether the active card holds an acceptable value.
// Cards without a validation are always valid.
func (c *Controller) ValidateState() bool {
	return card.IsValid(c.ActiveCard())
}

// SetMergeTemplate loads t into the cards. The cursor does not move.
func (c *Controller) SetMergeTemplate(t *mergetemplate.Template) {
	c.stored = t.ToConfig()
	md := c.stored.MergeData

	c.cards[card.Title].SetValue(md.Title)
	c.cards[card.Sheet].SetValue(md.Sheet)
	c.cards[card.Row].SetValue(md.HeaderRow)
	c.cards[card.To].SetValue(card.Recipients{
		To:  md.Data.To,
		CC:  md.Data.CC,
		BCC: md.Data.BCC,
	})
	c.cards[card.Subject].SetValue(md.Data.Subject)
	c.cards[card.DocumentSelector].SetValue(card.DocumentRef{ID: md.Data.DocumentID})

	cond := c.conditional()
	if md.Conditional != nil {
		cond.Check()
		cond.SetValue(*md.Conditional)
	} else {
		cond.Uncheck()
		cond.SetValue("")
	}
}

// MergeTemplate gathers the card values into a new template built on a
// copy of the last loaded configuration. Fields the cards do not manage,
// such as the ID and timestamps, are carried over.
func (c *Controller) MergeTemplate() *mergetemplate.Template {
	cfg := c.stored.Clone()

	rcpt, _ := c.cards[card.To].Value().(card.Recipients)
	doc, _ := c.cards[card.DocumentSelector].Value().(card.DocumentRef)

	var conditional *string
	if cond := c.conditional(); cond.Enabled() {
		conditional = mergetemplate.Conditional(stringValue(cond))
	}

	cfg.MergeData = mergetemplate.MergeData{
		Title:       stringValue(c.cards[card.Title]),
		Sheet:       stringValue(c.cards[card.Sheet]),
		HeaderRow:   stringValue(c.cards[card.Row]),
		Conditional: conditional,
		Type:        mergetemplate.TypeDocument,
		Data: mergetemplate.Data{
			To:         rcpt.To,
			CC:         rcpt.CC,
			BCC:        rcpt.BCC,
			Subject:    stringValue(c.cards[card.Subject]),
			DocumentID: doc.ID,
		},
	}
	return mergetemplate.New(cfg)
}

// SendNow reports whether the send-now card is switched on.
func (c *Controller) SendNow() bool {
	v, _ := c.cards[card.SendNow].Value().(bool)
	return v
}

func stringValue(cd card.Card) string {
	switch v := cd.Value().(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

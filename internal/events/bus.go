// Package events is the notification feed shared by the views and the
// template store. Topics carry no payload: a notification only says that
// something changed.
package events

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mailman/internal/logger"
	mnats "github.com/mark3labs/mailman/internal/nats"
	"github.com/nats-io/nats.go"
)

// Topic names a notification.
type Topic string

// Topics used by the template list and its siblings.
const (
	RulesDelete      Topic = "Rules.delete"
	RulesAdd         Topic = "Rules.add"
	RulesUpdate      Topic = "Rules.update"
	RulesRepeater    Topic = "Rules.repeater"
	SettingsViewHide Topic = "Mailman.SettingsView.hide"
	RulesListShow    Topic = "Mailman.RulesListView.show"
)

// ErrClosed is returned after the bus has been closed.
var ErrClosed = errors.New("event bus closed")

// Bus publishes and delivers notifications over a NATS connection.
type Bus struct {
	nc *nats.Conn

	mu     sync.Mutex
	subs   []*Subscription
	closed bool
}

// Subscription is a registered handler.
type Subscription struct {
	topic Topic
	sub   *nats.Subscription
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() Topic { return s.topic }

// Unsubscribe stops delivery to the handler.
func (s *Subscription) Unsubscribe() error {
	if err := s.sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) && !errors.Is(err, nats.ErrBadSubscription) {
		return fmt.Errorf("unsubscribe %s: %w", s.topic, err)
	}
	return nil
}

// New creates a bus on nc. The bus does not own the connection.
func New(nc *nats.Conn) (*Bus, error) {
	if nc == nil {
		return nil, errors.New("nats connection is nil")
	}
	return &Bus{nc: nc}, nil
}

// Subscribe registers fn for topic. Handlers for one subscription run
// sequentially on a goroutine owned by the connection.
func (b *Bus) Subscribe(topic Topic, fn func()) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	sub, err := b.nc.Subscribe(mnats.SubjectForTopic(string(topic)), func(*nats.Msg) {
		fn()
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	s := &Subscription{topic: topic, sub: sub}
	b.subs = append(b.subs, s)
	logger.Debug("Subscribed to %s", topic)
	return s, nil
}

// Publish announces topic to every subscriber.
func (b *Bus) Publish(topic Topic) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if err := b.nc.Publish(mnats.SubjectForTopic(string(topic)), nil); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	logger.Debug("Published %s", topic)
	return nil
}

// Flush waits until the server has processed everything published so far.
func (b *Bus) Flush() error {
	return b.nc.FlushTimeout(2 * time.Second)
}

// Close unsubscribes every handler registered through the bus.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, s := range b.subs {
		if err := s.Unsubscribe(); err != nil {
			errs = append(errs, err)
		}
	}
	b.subs = nil
	return errors.Join(errs...)
}

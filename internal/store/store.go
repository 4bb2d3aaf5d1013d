// Package store keeps merge templates as an append-only event log in
// JetStream. The current collection is rebuilt by replaying the log and
// every change is announced on the event bus.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mailman/internal/events"
	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mailman/internal/mergetemplate"
	"github.com/mark3labs/mailman/internal/metrics"
	"github.com/mark3labs/mailman/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// Event actions.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionRepeat = "repeat"
)

// ErrNotFound is returned for an unknown template ID.
var ErrNotFound = errors.New("template not found")

// Event is one entry in the template log.
type Event struct {
	Timestamp  time.Time       `json:"timestamp"`
	Action     string          `json:"action"`
	TemplateID string          `json:"template_id"`
	Data       json.RawMessage `json:"data,omitempty"` // template config for add/update
	Repeating  bool            `json:"repeating,omitempty"`
}

// topicFor maps an action to the notification announced after it.
var topicFor = map[string]events.Topic{
	ActionAdd:    events.RulesAdd,
	ActionUpdate: events.RulesUpdate,
	ActionDelete: events.RulesDelete,
	ActionRepeat: events.RulesRepeater,
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics counts operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithOwner stamps new templates with owner.
func WithOwner(owner string) Option {
	return func(s *Store) { s.owner = owner }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store persists templates and owns the Collection.
type Store struct {
	js      jetstream.JetStream
	stream  jetstream.Stream
	bus     *events.Bus
	metrics *metrics.Metrics
	owner   string
	now     func() time.Time

	// writeMu orders log appends with their application to collection, so
	// the live collection always matches a replay of the log.
	writeMu    sync.Mutex
	collection Collection
}

// New creates a store. bus may be nil, in which case no notifications are
// published.
func New(js jetstream.JetStream, stream jetstream.Stream, bus *events.Bus, opts ...Option) *Store {
	s := &Store{js: js, stream: stream, bus: bus, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the live collection.
func (s *Store) Collection() *Collection {
	return &s.collection
}

// Get returns the template with id.
func (s *Store) Get(id string) (*mergetemplate.Template, error) {
	t, ok := s.collection.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

// Add stores a new template built from cfg. ID, owner and timestamps are
// assigned here.
func (s *Store) Add(ctx context.Context, cfg mergetemplate.Config) (*mergetemplate.Template, error) {
	now := s.now().UTC()
	cfg.ID = xid.New().String()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if cfg.Owner == "" {
		cfg.Owner = s.owner
	}

	t := mergetemplate.New(cfg)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.append(ctx, ActionAdd, t.ID(), t, false); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces a stored template. The creation time and ID are kept.
func (s *Store) Update(ctx context.Context, t *mergetemplate.Template) (*mergetemplate.Template, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	old, err := s.Get(t.ID())
	if err != nil {
		return nil, err
	}

	cfg := t.ToConfig()
	cfg.CreatedAt = old.ToConfig().CreatedAt
	cfg.UpdatedAt = s.now().UTC()

	updated := mergetemplate.New(cfg)
	if err := s.append(ctx, ActionUpdate, updated.ID(), updated, false); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a template.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.append(ctx, ActionDelete, id, nil, false)
}

// SetRepeating switches scheduled repetition of a template.
func (s *Store) SetRepeating(ctx context.Context, id string, repeating bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.append(ctx, ActionRepeat, id, nil, repeating)
}

// append writes an event, applies it to the collection and announces it.
// Callers hold writeMu.
func (s *Store) append(ctx context.Context, action, id string, t *mergetemplate.Template, repeating bool) error {
	event := Event{
		Timestamp:  s.now().UTC(),
		Action:     action,
		TemplateID: id,
		Repeating:  repeating,
	}
	if t != nil {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal template: %w", err)
		}
		event.Data = data
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := s.js.Publish(ctx, nats.SubjectForAction(action), data)
	if err != nil {
		logger.Error("Failed to publish %s event for %s: %v", action, id, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	logger.Debug("Template event %s %s stored at seq=%d", action, id, ack.Sequence)

	s.apply(event)
	s.metrics.TemplateOp(action)

	if s.bus != nil {
		if err := s.bus.Publish(topicFor[action]); err != nil {
			logger.Warn("Failed to announce %s: %v", action, err)
		}
	}
	return nil
}

// apply reduces one event into the collection.
func (s *Store) apply(event Event) {
	switch event.Action {
	case ActionAdd, ActionUpdate:
		var t mergetemplate.Template
		if err := json.Unmarshal(event.Data, &t); err != nil {
			logger.Warn("Skipping %s event for %s: %v", event.Action, event.TemplateID, err)
			return
		}
		s.collection.put(&t)

	case ActionDelete:
		s.collection.remove(event.TemplateID)

	case ActionRepeat:
		old, ok := s.collection.Find(event.TemplateID)
		if !ok {
			return
		}
		cfg := old.ToConfig()
		cfg.Repeating = event.Repeating
		cfg.UpdatedAt = event.Timestamp
		s.collection.put(mergetemplate.New(cfg))
	}
}

// Load replays the event log into the collection. It is meant to be
// called once, before the collection is shown.
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	consumer, err := s.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	info, err := s.stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stream info: %w", err)
	}
	pending := info.State.Msgs

	const batchSize = 500
	var total, malformed int
	for uint64(total) < pending {
		want := batchSize
		if remaining := int(pending) - total; remaining < want {
			want = remaining
		}

		msgs, err := consumer.Fetch(want, jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			total++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				continue
			}
			s.apply(event)
		}
		if err := msgs.Error(); err != nil {
			logger.Warn("Stopped reading template events after %d of %d: %v", total, pending, err)
			break
		}
		if n == 0 {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed template events", malformed)
	}
	logger.Info("Loaded %d templates from %d events", s.collection.Len(), total)
	return nil
}

// Package metadata tracks run information for merge templates in a
// JetStream key-value bucket.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mailman/internal/logger"
	"github.com/nats-io/nats.go/jetstream"
)

// Info is what is known about a template's runs.
type Info struct {
	TemplateID string    `json:"templateID"`
	RunCount   int       `json:"runCount"`
	LastRun    time.Time `json:"lastRun,omitempty"`
}

// Service looks up template metadata.
type Service interface {
	Lookup(ctx context.Context, templateID string) (Info, error)
}

// KV stores Info records keyed by template ID.
type KV struct {
	kv  jetstream.KeyValue
	now func() time.Time
}

// NewKV wraps a key-value bucket.
func NewKV(kv jetstream.KeyValue) *KV {
	return &KV{kv: kv, now: time.Now}
}

// Lookup returns the metadata for templateID. A template that never ran
// has a zero Info with its ID set.
func (s *KV) Lookup(ctx context.Context, templateID string) (Info, error) {
	info, _, err := s.get(ctx, templateID)
	return info, err
}

func (s *KV) get(ctx context.Context, templateID string) (Info, uint64, error) {
	entry, err := s.kv.Get(ctx, templateID)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return Info{TemplateID: templateID}, 0, nil
	}
	if err != nil {
		return Info{}, 0, fmt.Errorf("failed to get metadata for %s: %w", templateID, err)
	}

	var info Info
	if err := json.Unmarshal(entry.Value(), &info); err != nil {
		logger.Warn("Discarding malformed metadata for %s: %v", templateID, err)
		return Info{TemplateID: templateID}, entry.Revision(), nil
	}
	return info, entry.Revision(), nil
}

// RecordRun increments the run count of templateID and stamps the run time.
func (s *KV) RecordRun(ctx context.Context, templateID string) (Info, error) {
	for attempt := 0; attempt < 3; attempt++ {
		info, rev, err := s.get(ctx, templateID)
		if err != nil {
			return Info{}, err
		}

		info.TemplateID = templateID
		info.RunCount++
		info.LastRun = s.now().UTC()

		data, err := json.Marshal(info)
		if err != nil {
			return Info{}, fmt.Errorf("failed to marshal metadata: %w", err)
		}

		if rev == 0 {
			_, err = s.kv.Create(ctx, templateID, data)
		} else {
			_, err = s.kv.Update(ctx, templateID, data, rev)
		}
		if err == nil {
			logger.Debug("Recorded run %d for template %s", info.RunCount, templateID)
			return info, nil
		}
		if !errors.Is(err, jetstream.ErrKeyExists) {
			return Info{}, fmt.Errorf("failed to store metadata for %s: %w", templateID, err)
		}
		logger.Debug("Metadata for %s changed concurrently, retrying", templateID)
	}
	return Info{}, fmt.Errorf("failed to store metadata for %s: too many concurrent updates", templateID)
}

// Delete removes the metadata of templateID.
func (s *KV) Delete(ctx context.Context, templateID string) error {
	if err := s.kv.Delete(ctx, templateID); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete metadata for %s: %w", templateID, err)
	}
	return nil
}

package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding template events.
	StreamName = "mailman_templates"
	// MetadataBucket is the key-value bucket holding per-template run info.
	MetadataBucket = "mailman_metadata"

	subjectRoot  = "mailman.templates"
	eventsPrefix = "mailman.events"
)

// SubjectForAction returns the subject a template event is stored under.
// Example: "mailman.templates.add"
func SubjectForAction(action string) string {
	return fmt.Sprintf("%s.%s", subjectRoot, action)
}

// SubjectForTopic returns the core NATS subject carrying a UI notification.
// Example: "mailman.events.Rules.delete"
func SubjectForTopic(topic string) string {
	return fmt.Sprintf("%s.%s", eventsPrefix, topic)
}

// SetupStream creates or updates the template event stream. Template events
// are the source of truth, so they are kept without an age limit.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up stream %s: %w", StreamName, err)
	}
	return stream, nil
}

// SetupMetadataBucket creates or updates the metadata key-value bucket.
func SetupMetadataBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  MetadataBucket,
		Storage: jetstream.FileStorage,
		TTL:     365 * 24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket %s: %w", MetadataBucket, err)
	}
	return kv, nil
}

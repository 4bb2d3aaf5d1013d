package metadata

import (
	"context"
	"testing"
	"time"

	mnats "github.com/mark3labs/mailman/internal/nats"
	"github.com/stretchr/testify/require"
)

func newKV(t *testing.T) *KV {
	t.Helper()
	e, err := mnats.Start(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	kv, err := mnats.SetupMetadataBucket(context.Background(), e.JS)
	require.NoError(t, err)
	return NewKV(kv)
}

func TestKV_LookupUnknown(t *testing.T) {
	s := newKV(t)

	info, err := s.Lookup(context.Background(), "cn2abc")
	require.NoError(t, err)
	require.Equal(t, Info{TemplateID: "cn2abc"}, info)
}

func TestKV_RecordRun(t *testing.T) {
	ctx := context.Background()
	s := newKV(t)
	fixed := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	info, err := s.RecordRun(ctx, "cn2abc")
	require.NoError(t, err)
	require.Equal(t, 1, info.RunCount)

	info, err = s.RecordRun(ctx, "cn2abc")
	require.NoError(t, err)
	require.Equal(t, 2, info.RunCount)

	got, err := s.Lookup(ctx, "cn2abc")
	require.NoError(t, err)
	require.Equal(t, 2, got.RunCount)
	require.True(t, fixed.Equal(got.LastRun))
}

func TestKV_Delete(t *testing.T) {
	ctx := context.Background()
	s := newKV(t)

	_, err := s.RecordRun(ctx, "cn2abc")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "cn2abc"))
	require.NoError(t, s.Delete(ctx, "never-existed"))

	info, err := s.Lookup(ctx, "cn2abc")
	require.NoError(t, err)
	require.Equal(t, 0, info.RunCount)
}

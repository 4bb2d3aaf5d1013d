package events

import (
	"sync/atomic"
	"testing"
	"time"

	mnats "github.com/mark3labs/mailman/internal/nats"
	"github.com/stretchr/testify/require"
)

func newBus(t *testing.T) *Bus {
	t.Helper()
	e, err := mnats.Start(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	bus, err := New(e.Conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func TestNew_NilConn(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)
}

func TestBus_DeliversToTopicSubscribers(t *testing.T) {
	bus := newBus(t)

	var deletes, adds atomic.Int32
	_, err := bus.Subscribe(RulesDelete, func() { deletes.Add(1) })
	require.NoError(t, err)
	_, err = bus.Subscribe(RulesAdd, func() { adds.Add(1) })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(RulesDelete))
	require.NoError(t, bus.Publish(RulesDelete))
	require.NoError(t, bus.Flush())

	require.Eventually(t, func() bool { return deletes.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, int32(0), adds.Load())
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newBus(t)

	var n atomic.Int32
	sub, err := bus.Subscribe(RulesUpdate, func() { n.Add(1) })
	require.NoError(t, err)
	require.Equal(t, RulesUpdate, sub.Topic())
	require.NoError(t, sub.Unsubscribe())

	require.NoError(t, bus.Publish(RulesUpdate))
	require.NoError(t, bus.Flush())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), n.Load())
}

func TestBus_Close(t *testing.T) {
	bus := newBus(t)

	_, err := bus.Subscribe(RulesRepeater, func() {})
	require.NoError(t, err)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	require.ErrorIs(t, bus.Publish(RulesRepeater), ErrClosed)
	_, err = bus.Subscribe(RulesRepeater, func() {})
	require.ErrorIs(t, err, ErrClosed)
}

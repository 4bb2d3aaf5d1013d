package loading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newScreen() (*Screen, *clock) {
	c := &clock{t: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	return New("Loading merges", WithClock(c.now)), c
}

func TestScreen_HideBeforeMinDisplayIsDeferred(t *testing.T) {
	t.Parallel()

	s, c := newScreen()
	require.NotNil(t, s.Show())
	require.True(t, s.Visible())

	c.advance(2 * time.Second)
	cmd := s.Hide()
	require.NotNil(t, cmd)
	require.True(t, s.Visible())

	c.advance(2 * time.Second)
	require.NotNil(t, s.Update(retryHideMsg{gen: s.gen}))
	require.True(t, s.Visible())

	c.advance(time.Second)
	cmd = s.Update(retryHideMsg{gen: s.gen})
	require.False(t, s.Visible())
	require.IsType(t, HiddenMsg{}, cmd())
}

func TestScreen_HideAfterMinDisplay(t *testing.T) {
	t.Parallel()

	s, c := newScreen()
	s.Show()
	c.advance(DefaultMinDisplay)

	cmd := s.Hide()
	require.False(t, s.Visible())
	require.Equal(t, HiddenMsg{}, cmd())
}

func TestScreen_StaleRetryIgnored(t *testing.T) {
	t.Parallel()

	s, c := newScreen()
	s.Show()
	s.Hide()
	stale := retryHideMsg{gen: s.gen}

	c.advance(10 * time.Second)
	s.Show()
	require.Nil(t, s.Update(stale))
	require.True(t, s.Visible())
}

func TestScreen_HideWhenHiddenIsNoop(t *testing.T) {
	t.Parallel()

	s, _ := newScreen()
	require.Nil(t, s.Hide())
	require.Equal(t, "", s.View(80, 24))
}

func TestScreen_MinDisplayOption(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Now()}
	s := New("x", WithClock(c.now), WithMinDisplay(0))
	s.Show()
	s.Hide()
	require.False(t, s.Visible())
}

func TestScreen_View(t *testing.T) {
	t.Parallel()

	s, _ := newScreen()
	s.Show()
	require.Contains(t, s.View(40, 5), "Loading merges")
}

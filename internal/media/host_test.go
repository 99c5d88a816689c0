package media

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/reelfeed-cli/internal/feed"
	"github.com/glabrego/reelfeed-cli/internal/playback"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestHost() (*Host, *clock) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewHost(Options{ClipLength: 10 * time.Second, Now: c.Now, Logger: zerolog.Nop()}), c
}

func TestHost_UnitStartsBufferingOnce(t *testing.T) {
	h, _ := newTestHost()

	h.Unit("a")
	h.Preload([]string{"a", "b"})
	require.Equal(t, []string{"a", "b"}, h.DrainBuffering())
	require.Empty(t, h.DrainBuffering())

	require.True(t, h.MarkBuffered("a"))
	require.False(t, h.MarkBuffered("a"))
	require.False(t, h.MarkBuffered("missing"))
}

func TestUnit_ClockRunsOnlyWhenPlayingAndBuffered(t *testing.T) {
	h, c := newTestHost()
	u := h.Unit("a").(*Unit)
	require.True(t, u.IsMuted(), "units start muted")

	require.NoError(t, u.Play())
	c.Advance(2 * time.Second)
	require.Zero(t, u.Position(), "not buffered yet")

	h.MarkBuffered("a")
	c.Advance(3 * time.Second)
	require.Equal(t, 3*time.Second, u.Position())

	require.NoError(t, u.Pause())
	c.Advance(5 * time.Second)
	require.Equal(t, 3*time.Second, u.Position())

	require.NoError(t, u.SeekToStart())
	require.Zero(t, u.Position())

	require.NoError(t, u.Play())
	c.Advance(12 * time.Second)
	require.Equal(t, 2*time.Second, u.Position(), "clip loops")
	require.InDelta(t, 0.2, u.Progress(), 1e-9)
}

func TestHost_WithCoordinatorKeepsOnePlaying(t *testing.T) {
	h, _ := newTestHost()
	store := feed.NewStore()
	store.Replace(feed.Page{Number: 1, Items: []feed.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}})

	coord := playback.NewCoordinator(h, exhaustedPager{}, playback.DefaultOptions(), zerolog.Nop())
	coord.Sync(store.Snapshot())
	require.Equal(t, []string{"a"}, h.Playing())

	coord.Advance(1)
	require.Equal(t, []string{"b"}, h.Playing())
	a, ok := h.Lookup("a")
	require.True(t, ok)
	require.Zero(t, a.Position())

	coord.SetMuted(false)
	b, _ := h.Lookup("b")
	require.False(t, b.IsMuted())

	coord.Close()
	require.Empty(t, h.Playing())
}

func TestHost_Forget(t *testing.T) {
	h, _ := newTestHost()
	require.NoError(t, h.Unit("a").Play())
	before := h.Epoch()
	h.Forget()
	require.Empty(t, h.Playing())
	_, ok := h.Lookup("a")
	require.False(t, ok)
	require.Equal(t, before+1, h.Epoch())
	require.Empty(t, h.DrainBuffering())
}

type exhaustedPager struct{}

func (exhaustedPager) Exhausted() bool { return true }
func (exhaustedPager) Loading() bool   { return false }

package stream

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/harmonic-vibes/internal/model"
	"github.com/ytget/harmonic-vibes/internal/player"
)

type fakeConn struct {
	id       string
	url      string
	volume   float64
	played   bool
	closed   bool
	position time.Duration
	onTags   func(model.InlineTags)
}

func (c *fakeConn) ID() string                { return c.id }
func (c *fakeConn) Play()                     { c.played = true }
func (c *fakeConn) Position() time.Duration   { return c.position }
func (c *fakeConn) Duration() time.Duration   { return 0 }
func (c *fakeConn) SetVolume(percent float64) { c.volume = percent }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeOpener struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (o *fakeOpener) Open(url string, volume float64, onTags func(model.InlineTags)) player.Connection {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := &fakeConn{
		id:     fmt.Sprintf("conn-%d", len(o.conns)+1),
		url:    url,
		volume: volume,
		onTags: onTags,
	}
	o.conns = append(o.conns, c)
	return c
}

func (o *fakeOpener) last() *fakeConn {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.conns) == 0 {
		return nil
	}
	return o.conns[len(o.conns)-1]
}

func fixedURL(u string) func() string {
	return func() string { return u }
}

const liveURL = "https://stream.example.com/live"

func TestSessionStart(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSession(opener, fixedURL(liveURL), nil)
	assert.Equal(t, model.PlaybackStopped, s.Status())
	assert.Empty(t, s.ConnectionID())

	s.Start()

	require.Len(t, opener.conns, 1)
	conn := opener.last()
	assert.True(t, conn.played)
	assert.Equal(t, liveURL, conn.url)
	assert.Equal(t, DefaultVolume, conn.volume)
	assert.Equal(t, model.PlaybackPlaying, s.Status())
	assert.Equal(t, conn.id, s.ConnectionID())

	s.Start()
	assert.Len(t, opener.conns, 1, "start while playing is a no-op")
}

func TestSessionStartInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/live", "/relative/path", "https://"} {
		t.Run(raw, func(t *testing.T) {
			opener := &fakeOpener{}
			s := NewSession(opener, fixedURL(raw), nil)

			s.Start()
			s.Toggle()

			assert.Empty(t, opener.conns)
			assert.Equal(t, model.PlaybackStopped, s.Status())
		})
	}
}

func TestValidateStreamURL(t *testing.T) {
	assert.NoError(t, ValidateStreamURL(liveURL))
	assert.NoError(t, ValidateStreamURL("http://127.0.0.1:8000/stream"))
	assert.ErrorIs(t, ValidateStreamURL("mailto:radio@example.com"), ErrInvalidStreamURL)
	assert.ErrorIs(t, ValidateStreamURL("://bad"), ErrInvalidStreamURL)
}

func TestSessionPause(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSession(opener, fixedURL(liveURL), nil)
	s.Start()
	conn := opener.last()

	s.Pause()

	assert.True(t, conn.closed)
	assert.Equal(t, model.PlaybackStopped, s.Status())
	assert.Empty(t, s.ConnectionID())
	assert.Equal(t, time.Duration(0), s.Position())
}

func TestSessionToggleRestartsAtLiveEdge(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSession(opener, fixedURL(liveURL), nil)

	s.Toggle()
	require.Len(t, opener.conns, 1)
	first := opener.last()
	first.position = 42 * time.Second
	assert.Equal(t, model.PlaybackPlaying, s.Status())
	assert.Equal(t, 42*time.Second, s.Position())

	s.Toggle()
	assert.Equal(t, model.PlaybackStopped, s.Status())
	assert.True(t, first.closed)

	s.Toggle()
	require.Len(t, opener.conns, 2)
	second := opener.last()
	assert.NotEqual(t, first.id, second.id)
	assert.Equal(t, model.PlaybackPlaying, s.Status())
	assert.Equal(t, time.Duration(0), s.Position())
	assert.Equal(t, time.Duration(0), s.Duration())
}

func TestSessionStatusListeners(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSession(opener, fixedURL(liveURL), nil)

	var got []model.PlaybackStatus
	s.OnStatusChange(func(st model.PlaybackStatus) { got = append(got, st) })

	s.Toggle()
	s.Toggle()

	assert.Equal(t, []model.PlaybackStatus{
		model.PlaybackRestarting,
		model.PlaybackPlaying,
		model.PlaybackStopped,
	}, got)
}

func TestSessionRestartUsesCurrentURL(t *testing.T) {
	opener := &fakeOpener{}
	current := liveURL
	s := NewSession(opener, func() string { return current }, nil)

	s.Restart()
	assert.Empty(t, opener.conns, "restart does nothing when stopped")

	s.Start()
	current = "https://stream.example.com/low"
	s.Restart()

	require.Len(t, opener.conns, 2)
	assert.True(t, opener.conns[0].closed)
	assert.Equal(t, current, opener.last().url)
	assert.Equal(t, model.PlaybackPlaying, s.Status())
}

func TestSessionVolume(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSession(opener, fixedURL(liveURL), nil)

	s.SetVolume(20)
	s.Start()
	assert.Equal(t, 20.0, opener.last().volume)

	s.SetVolume(80)
	assert.Equal(t, 80.0, opener.last().volume)
}

func TestSessionForwardsTags(t *testing.T) {
	opener := &fakeOpener{}
	var got model.InlineTags
	s := NewSession(opener, fixedURL(liveURL), func(tags model.InlineTags) { got = tags })
	s.Start()

	opener.last().onTags(model.InlineTags{model.TagTitle: "Awake"})
	assert.Equal(t, "Awake", got[model.TagTitle])
}

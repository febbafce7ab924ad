// Package stream owns the live playback session: one connection at a time,
// restarted to the live edge on every resume.
package stream

import (
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/model"
	"github.com/ytget/harmonic-vibes/internal/player"
)

// ErrInvalidStreamURL is reported when the stream URL is not absolute http(s)
var ErrInvalidStreamURL = errors.New("invalid stream url")

// DefaultVolume is used until SetVolume is called
const DefaultVolume = 50.0

// Session drives a single live stream
type Session struct {
	opener  player.Opener
	urlFunc func() string
	onTags  func(model.InlineTags)

	mu       sync.Mutex
	status   model.PlaybackStatus
	conn     player.Connection
	volume   float64
	onStatus []func(model.PlaybackStatus)
}

// NewSession creates a stopped session. urlFunc is resolved on every start so
// quality changes apply to the next connection. onTags receives inline tags
// from whichever connection is current.
func NewSession(opener player.Opener, urlFunc func() string, onTags func(model.InlineTags)) *Session {
	return &Session{
		opener:  opener,
		urlFunc: urlFunc,
		onTags:  onTags,
		status:  model.PlaybackStopped,
		volume:  DefaultVolume,
	}
}

// ValidateStreamURL checks that raw is an absolute http or https URL
func ValidateStreamURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Join(ErrInvalidStreamURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidStreamURL
	}
	return nil
}

// Start opens a live connection and begins playback. A malformed stream URL
// makes it a no-op. Calling Start while playing does nothing.
func (s *Session) Start() {
	s.mu.Lock()
	if s.status == model.PlaybackPlaying {
		s.mu.Unlock()
		return
	}
	listeners, status, ok := s.startLocked()
	s.mu.Unlock()

	if ok {
		notify(listeners, status)
	}
}

// Pause closes the current connection. Nothing is buffered for resume.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.status == model.PlaybackStopped && s.conn == nil {
		s.mu.Unlock()
		return
	}
	s.closeLocked()
	s.status = model.PlaybackStopped
	listeners := s.listenersLocked()
	s.mu.Unlock()

	log.Info().Msg("playback paused")
	notify(listeners, model.PlaybackStopped)
}

// Toggle pauses a playing session and otherwise restarts at the live edge
// on a fresh connection
func (s *Session) Toggle() {
	s.mu.Lock()
	if s.status == model.PlaybackPlaying {
		s.mu.Unlock()
		s.Pause()
		return
	}

	if err := ValidateStreamURL(s.urlFunc()); err != nil {
		s.mu.Unlock()
		log.Debug().Err(err).Msg("stream not started")
		return
	}

	s.status = model.PlaybackRestarting
	listeners, status, _ := s.startLocked()
	s.mu.Unlock()

	notify(listeners, model.PlaybackRestarting)
	notify(listeners, status)
}

// Restart reconnects a playing session, e.g. after a quality change
func (s *Session) Restart() {
	if s.Status() != model.PlaybackPlaying {
		return
	}
	s.mu.Lock()
	s.status = model.PlaybackRestarting
	listeners, status, ok := s.startLocked()
	s.mu.Unlock()

	if ok {
		notify(listeners, status)
	}
}

// startLocked tears down the current connection and opens a new one
func (s *Session) startLocked() ([]func(model.PlaybackStatus), model.PlaybackStatus, bool) {
	streamURL := s.urlFunc()
	if err := ValidateStreamURL(streamURL); err != nil {
		log.Debug().Err(err).Str("url", streamURL).Msg("stream not started")
		if s.status == model.PlaybackRestarting {
			s.closeLocked()
			s.status = model.PlaybackStopped
			return s.listenersLocked(), s.status, true
		}
		return nil, s.status, false
	}

	s.closeLocked()

	conn := s.opener.Open(streamURL, s.volume, s.onTags)
	s.conn = conn
	conn.Play()
	s.status = model.PlaybackPlaying

	log.Info().Str("conn", conn.ID()).Str("url", streamURL).Msg("playback started")
	return s.listenersLocked(), s.status, true
}

func (s *Session) closeLocked() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		log.Warn().Err(err).Str("conn", s.conn.ID()).Msg("failed to close connection")
	}
	s.conn = nil
}

func (s *Session) listenersLocked() []func(model.PlaybackStatus) {
	return append([]func(model.PlaybackStatus)(nil), s.onStatus...)
}

func notify(listeners []func(model.PlaybackStatus), status model.PlaybackStatus) {
	for _, fn := range listeners {
		fn(status)
	}
}

// Status returns the current playback status
func (s *Session) Status() model.PlaybackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ConnectionID returns the id of the current connection, empty when stopped
func (s *Session) ConnectionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ""
	}
	return s.conn.ID()
}

// Position is advisory; it restarts at zero with every connection
func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return 0
	}
	return s.conn.Position()
}

// Duration is zero for a live stream
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return 0
	}
	return s.conn.Duration()
}

// SetVolume applies a 0..100 level to the current and future connections
func (s *Session) SetVolume(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = percent
	if s.conn != nil {
		s.conn.SetVolume(percent)
	}
}

// OnStatusChange registers fn to be called after every status change
func (s *Session) OnStatusChange(fn func(model.PlaybackStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = append(s.onStatus, fn)
}

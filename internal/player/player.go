// Package player is the media stack behind the stream session: it opens the
// live HTTP stream, separates ICY inline metadata from audio, decodes MP3 with
// beep and plays it on the speaker.
package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/model"
)

// Playback constants
const (
	ConnectionIDPrefix = "conn-"
	SpeakerBufferSize  = 250 * time.Millisecond
	ResampleQuality    = 4
	MinVolumeDB        = -10.0
	VolumeBase         = 2
	MaxArtworkBytes    = 5 << 20
	TagQueueSize       = 4
)

// DecodeFunc turns an audio byte stream into samples
type DecodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// Output is the audio sink shared by all connections
type Output interface {
	// Init prepares the sink for a stream at sampleRate and returns the rate
	// the sink actually runs at.
	Init(sampleRate beep.SampleRate) (beep.SampleRate, error)
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// Connection is one live connection to the stream. It is never reused:
// resuming playback means opening a new connection.
type Connection interface {
	ID() string
	Play()
	Close() error
	Position() time.Duration
	Duration() time.Duration
	SetVolume(percent float64)
}

// Opener creates connections to a stream URL. onTags receives inline
// metadata events from the connection's goroutines.
type Opener interface {
	Open(url string, volume float64, onTags func(model.InlineTags)) Connection
}

// Player opens live connections with beep as the decoding and output backend
type Player struct {
	client    *http.Client
	userAgent string
	output    Output
	decode    DecodeFunc
}

// NewPlayer creates a player that plays through the system speaker
func NewPlayer(userAgent string) *Player {
	return newPlayer(userAgent, newSpeakerOutput(), mp3.Decode)
}

func newPlayer(userAgent string, output Output, decode DecodeFunc) *Player {
	return &Player{
		client: &http.Client{
			Timeout: 0, // streams are long-lived
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
				DisableCompression:    true,
			},
		},
		userAgent: userAgent,
		output:    output,
		decode:    decode,
	}
}

// Open returns a new, not yet started connection
func (p *Player) Open(url string, volume float64, onTags func(model.InlineTags)) Connection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &liveConnection{
		id:     ConnectionIDPrefix + uuid.NewString(),
		url:    url,
		player: p,
		onTags: onTags,
		ctx:    ctx,
		cancel: cancel,
		metaCh: make(chan string, TagQueueSize),
		done:   make(chan struct{}),
	}
	c.volume.Store(volumeBits(volume))
	return c
}

type liveConnection struct {
	id     string
	url    string
	player *Player
	onTags func(model.InlineTags)

	ctx    context.Context
	cancel context.CancelFunc

	startOnce  sync.Once
	played     atomic.Int64
	sampleRate atomic.Int64
	volume     atomic.Uint64
	effect     atomic.Pointer[effects.Volume]

	metaCh   chan string
	lastMeta string
	done     chan struct{}
}

func (c *liveConnection) ID() string {
	return c.id
}

// Play starts connecting and decoding in the background. Failures are logged.
func (c *liveConnection) Play() {
	c.startOnce.Do(func() {
		go c.run()
		go c.tagWorker()
	})
}

// Close cancels the connection; the goroutines wind down on their own
func (c *liveConnection) Close() error {
	c.cancel()
	return nil
}

// Position is the amount of audio played on this connection
func (c *liveConnection) Position() time.Duration {
	sr := c.sampleRate.Load()
	if sr == 0 {
		return 0
	}
	return beep.SampleRate(sr).D(int(c.played.Load()))
}

// Duration is always zero: a live stream has no known length
func (c *liveConnection) Duration() time.Duration {
	return 0
}

// SetVolume applies a 0..100 volume level
func (c *liveConnection) SetVolume(percent float64) {
	c.volume.Store(volumeBits(percent))

	vol := c.effect.Load()
	if vol == nil {
		return
	}
	c.player.output.Lock()
	applyVolume(vol, percent)
	c.player.output.Unlock()
}

func (c *liveConnection) run() {
	defer close(c.done)

	body, metaint, err := c.connect()
	if err != nil {
		if c.ctx.Err() == nil {
			log.Error().Err(err).Str("conn", c.id).Msg("failed to open stream")
		}
		return
	}

	var audio io.Reader = body
	if metaint > 0 {
		audio = newICYReader(body, metaint, c.queueMetadata)
	}

	streamer, format, err := c.player.decode(readCloser{Reader: audio, Closer: body})
	if err != nil {
		body.Close()
		if c.ctx.Err() == nil {
			log.Error().Err(err).Str("conn", c.id).Msg("failed to decode stream")
		}
		return
	}

	handedOff := false
	defer func() {
		c.release(streamer, body, handedOff)
	}()

	outRate, err := c.player.output.Init(format.SampleRate)
	if err != nil {
		log.Error().Err(err).Str("conn", c.id).Msg("failed to initialize audio output")
		return
	}
	c.sampleRate.Store(int64(format.SampleRate))

	var source beep.Streamer = &liveStreamer{ctx: c.ctx, streamer: streamer, played: &c.played}
	if outRate != format.SampleRate {
		source = beep.Resample(ResampleQuality, format.SampleRate, outRate, source)
	}

	vol := &effects.Volume{Streamer: source, Base: VolumeBase}
	applyVolume(vol, volumeFromBits(c.volume.Load()))
	c.effect.Store(vol)

	ended := make(chan struct{})
	handedOff = true
	c.player.output.Play(beep.Seq(vol, beep.Callback(func() { close(ended) })))
	log.Info().Str("conn", c.id).Int("sampleRate", int(format.SampleRate)).Msg("live stream playing")

	select {
	case <-c.ctx.Done():
		log.Debug().Str("conn", c.id).Msg("connection closed")
	case <-ended:
		if err := streamer.Err(); err != nil && c.ctx.Err() == nil {
			log.Warn().Err(err).Str("conn", c.id).Msg("stream ended with error")
		} else {
			log.Info().Str("conn", c.id).Msg("stream ended")
		}
	}
}

// release closes the decoder and the response body. Once the stream is
// playing it does so under the output lock, so the output is never inside
// Stream while the source goes away.
func (c *liveConnection) release(streamer beep.StreamCloser, body io.Closer, locked bool) {
	if locked {
		c.player.output.Lock()
		defer c.player.output.Unlock()
	}
	if err := streamer.Close(); err != nil {
		log.Debug().Err(err).Str("conn", c.id).Msg("failed to close decoder")
	}
	body.Close()
}

func (c *liveConnection) connect() (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.player.userAgent != "" {
		req.Header.Set("User-Agent", c.player.userAgent)
	}
	req.Header.Set(ICYMetaDataHeader, "1")

	log.Debug().Str("conn", c.id).Str("url", c.url).Msg("connecting to stream")
	resp, err := c.player.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("stream returned %s", resp.Status)
	}

	metaint := 0
	if val := resp.Header.Get(ICYMetaIntHeader); val != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && n > 0 {
			metaint = n
		}
	}
	log.Debug().Str("conn", c.id).Int("metaint", metaint).Msg("stream connected")

	return resp.Body, metaint, nil
}

// queueMetadata runs on the audio read path; it only forwards changed
// blocks. A block dropped on a full queue is not remembered, so its next
// repetition is queued again.
func (c *liveConnection) queueMetadata(block string) {
	if block == c.lastMeta {
		return
	}

	select {
	case c.metaCh <- block:
		c.lastMeta = block
	default:
		log.Warn().Str("conn", c.id).Msg("metadata queue full, dropping block")
	}
}

// tagWorker turns metadata blocks into inline tag events in arrival order
func (c *liveConnection) tagWorker() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case block := <-c.metaCh:
			fields := ParseICYMetadata(block)
			tags := tagsFromICY(fields)

			if artURL := fields[ICYKeyStreamURL]; isHTTPURL(artURL) {
				data, err := c.fetchArtwork(artURL)
				if err != nil {
					log.Warn().Err(err).Str("url", artURL).Msg("failed to fetch artwork")
				} else {
					tags[model.TagArtwork] = data
				}
			}

			if c.ctx.Err() != nil {
				return
			}
			if c.onTags != nil {
				c.onTags(tags)
			}
		}
	}
}

func (c *liveConnection) fetchArtwork(url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.player.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork returned %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("artwork has content type %s", ct)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxArtworkBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty artwork")
	}
	return data, nil
}

// liveStreamer counts played samples and ends as soon as its connection is closed
type liveStreamer struct {
	ctx      context.Context
	streamer beep.Streamer
	played   *atomic.Int64
}

func (s *liveStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.ctx.Err() != nil {
		return 0, false
	}
	n, ok := s.streamer.Stream(samples)
	s.played.Add(int64(n))
	return n, ok
}

func (s *liveStreamer) Err() error {
	return s.streamer.Err()
}

type readCloser struct {
	io.Reader
	io.Closer
}

func applyVolume(vol *effects.Volume, percent float64) {
	vol.Silent = percent <= 0
	vol.Volume = percentToVolume(percent)
}

// percentToVolume maps 0..100 to beep's base-2 exponent, 100 being unity gain
func percentToVolume(percent float64) float64 {
	if percent >= 100 {
		return 0
	}
	if percent <= 0 {
		return MinVolumeDB
	}
	return MinVolumeDB * (1 - percent/100)
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

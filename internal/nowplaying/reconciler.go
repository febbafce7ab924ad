// Package nowplaying keeps the single displayed TrackInfo in sync with the
// two metadata producers: the periodic poller and the stream's inline tags.
//
// Producers never touch the track directly. They submit events to a queue
// that one goroutine drains in order, so the last applied event wins.
package nowplaying

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/ytget/harmonic-vibes/internal/metadata"
	"github.com/ytget/harmonic-vibes/internal/model"
)

// QueueSize is the number of events buffered before producers block
const QueueSize = 32

// ArtworkStore persists artwork bytes and returns a URI for display
type ArtworkStore interface {
	Save(data []byte) (string, error)
}

type eventKind int

const (
	eventPoll eventKind = iota
	eventTags
	eventClearArtwork
)

type event struct {
	kind  eventKind
	track metadata.Track
	tags  model.InlineTags
}

// Reconciler owns the current TrackInfo
type Reconciler struct {
	store   ArtworkStore
	events  chan event
	stopped chan struct{}
	current atomic.Pointer[model.TrackInfo]

	mu     sync.Mutex
	subs   map[int]func(model.TrackInfo)
	nextID int
}

// NewReconciler creates a reconciler holding the default track
func NewReconciler(store ArtworkStore) *Reconciler {
	r := &Reconciler{
		store:   store,
		events:  make(chan event, QueueSize),
		stopped: make(chan struct{}),
		subs:    make(map[int]func(model.TrackInfo)),
	}
	initial := model.DefaultTrackInfo()
	r.current.Store(&initial)
	return r
}

// Run applies queued events until ctx is done. It must be called once.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.events:
			r.apply(ev)
		}
	}
}

// SubmitPoll queues a now-playing reading from the poller
func (r *Reconciler) SubmitPoll(track metadata.Track) {
	r.submit(event{kind: eventPoll, track: track})
}

// SubmitTags queues an inline tag event from the stream
func (r *Reconciler) SubmitTags(tags model.InlineTags) {
	r.submit(event{kind: eventTags, tags: tags})
}

// ClearArtwork queues removal of the artwork reference from the current track
func (r *Reconciler) ClearArtwork() {
	r.submit(event{kind: eventClearArtwork})
}

func (r *Reconciler) submit(ev event) {
	select {
	case r.events <- ev:
	case <-r.stopped:
	}
}

// Current returns the latest published track
func (r *Reconciler) Current() model.TrackInfo {
	return *r.current.Load()
}

// Subscribe registers fn for every published track. fn runs on the
// reconciler goroutine. The returned func removes the subscription.
func (r *Reconciler) Subscribe(fn func(model.TrackInfo)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

func (r *Reconciler) apply(ev event) {
	switch ev.kind {
	case eventPoll:
		r.applyPoll(ev.track)
	case eventTags:
		r.applyTags(ev.tags)
	case eventClearArtwork:
		cur := r.Current()
		if !cur.HasArtwork() {
			return
		}
		cur.Artwork = ""
		r.publish(cur)
	}
}

// applyPoll keeps the current artwork and skips unchanged songs
func (r *Reconciler) applyPoll(track metadata.Track) {
	cur := r.Current()
	next := model.TrackInfo{
		Name:    track.Name,
		Artist:  track.Artist,
		Artwork: cur.Artwork,
	}
	if next.SameSong(cur) {
		log.Debug().Str("name", next.Name).Msg("now playing unchanged")
		return
	}
	r.publish(next)
}

// applyTags builds a fresh track from defaults and always publishes
func (r *Reconciler) applyTags(tags model.InlineTags) {
	next := model.DefaultTrackInfo()

	if name, ok := tags[model.TagTitle].(string); ok && name != "" {
		next.Name = name
	}
	if artist, ok := tags[model.TagArtist].(string); ok && artist != "" {
		next.Artist = artist
	}
	if data, ok := tags[model.TagArtwork].([]byte); ok && r.store != nil {
		uri, err := r.store.Save(data)
		if err != nil {
			log.Warn().Err(err).Msg("failed to store artwork")
		} else {
			next.Artwork = uri
		}
	}

	r.publish(next)
}

func (r *Reconciler) publish(track model.TrackInfo) {
	r.current.Store(&track)
	log.Info().Str("name", track.Name).Str("artist", track.Artist).Bool("artwork", track.HasArtwork()).Msg("now playing")

	r.mu.Lock()
	subs := make([]func(model.TrackInfo), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(track)
	}
}

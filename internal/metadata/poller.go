package metadata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Source produces one now-playing reading per call
type Source interface {
	Fetch(ctx context.Context) (Track, error)
}

// Poller runs a Source once on Start and then on every interval until Stop.
// Each successful reading is passed to the sink from the poller goroutine.
type Poller struct {
	source   Source
	interval time.Duration
	sink     func(Track)

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewPoller creates a poller; sink receives successful readings
func NewPoller(source Source, interval time.Duration, sink func(Track)) *Poller {
	return &Poller{
		source:   source,
		interval: interval,
		sink:     sink,
	}
}

// Start begins polling. Calling Start on a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go p.run(ctx)
	log.Debug().Dur("interval", p.interval).Msg("track info polling started")
}

// Stop ends polling. A fetch already in flight completes but its result is
// dropped; a result being handed to the sink when Stop is called finishes
// before Stop returns, so no result is delivered after Stop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	log.Debug().Msg("track info polling stopped")
}

// Running reports whether the poller is started
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	// The fetch is not bound to ctx: Stop only drops the result.
	track, err := p.source.Fetch(context.WithoutCancel(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("error fetching track info")
		return
	}

	// Stop cancels under p.mu, so checking and delivering under it
	// keeps results from reaching the sink after Stop.
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		log.Debug().Msg("dropping track info fetched after stop")
		return
	}
	p.sink(track)
}

package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// speakerOutput plays through the system speaker. The speaker can only be
// initialized once, so later streams with another rate are resampled.
type speakerOutput struct {
	mu   sync.Mutex
	rate beep.SampleRate
}

func newSpeakerOutput() *speakerOutput {
	return &speakerOutput{}
}

func (o *speakerOutput) Init(sampleRate beep.SampleRate) (beep.SampleRate, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.rate != 0 {
		return o.rate, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(SpeakerBufferSize)); err != nil {
		return 0, err
	}
	o.rate = sampleRate
	return o.rate, nil
}

func (o *speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (o *speakerOutput) Lock() {
	speaker.Lock()
}

func (o *speakerOutput) Unlock() {
	speaker.Unlock()
}

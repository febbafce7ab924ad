package player

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/harmonic-vibes/internal/model"
)

const testRate = beep.SampleRate(8000)

// byteStreamer emits one silent sample per byte read from its source
type byteStreamer struct {
	rc      io.ReadCloser
	err     error
	pos     int
	onClose func()
}

func (s *byteStreamer) Stream(samples [][2]float64) (int, bool) {
	buf := make([]byte, len(samples))
	n, err := s.rc.Read(buf)
	for i := 0; i < n; i++ {
		samples[i] = [2]float64{}
	}
	s.pos += n
	if err != nil && err != io.EOF {
		s.err = err
	}
	if n == 0 && err != nil {
		return 0, false
	}
	return n, true
}

func (s *byteStreamer) Err() error     { return s.err }
func (s *byteStreamer) Len() int       { return 0 }
func (s *byteStreamer) Position() int  { return s.pos }
func (s *byteStreamer) Seek(int) error { return nil }

func (s *byteStreamer) Close() error {
	if s.onClose != nil {
		s.onClose()
	}
	return s.rc.Close()
}

func fakeDecode(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return &byteStreamer{rc: rc}, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, nil
}

// fakeOutput drains played streamers on its own goroutine, holding the
// stream lock during every Stream call like the speaker does
type fakeOutput struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	initRate beep.SampleRate
	plays    int

	streamMu sync.Mutex
	locked   atomic.Bool
}

func (o *fakeOutput) Init(sr beep.SampleRate) (beep.SampleRate, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rate == 0 {
		o.rate = sr
	}
	o.initRate = sr
	return o.rate, nil
}

func (o *fakeOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.plays++
	o.mu.Unlock()

	go func() {
		buf := make([][2]float64, 64)
		for {
			o.Lock()
			_, ok := s.Stream(buf)
			o.Unlock()
			if !ok {
				return
			}
		}
	}()
}

func (o *fakeOutput) Lock() {
	o.streamMu.Lock()
	o.locked.Store(true)
}

func (o *fakeOutput) Unlock() {
	o.locked.Store(false)
	o.streamMu.Unlock()
}

func (o *fakeOutput) playCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plays
}

type tagRecorder struct {
	mu   sync.Mutex
	tags []model.InlineTags
}

func (r *tagRecorder) add(t model.InlineTags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags = append(r.tags, t)
}

func (r *tagRecorder) all() []model.InlineTags {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.InlineTags(nil), r.tags...)
}

func newICYServer(t *testing.T, metaint int, metas []string, artwork []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/art.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(artwork)
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(ICYMetaDataHeader) != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set(ICYMetaIntHeader, strconv.Itoa(metaint))
		w.Header().Set("Content-Type", "audio/mpeg")

		chunk := string(bytes.Repeat([]byte{'x'}, metaint))
		chunks := make([]string, len(metas))
		for i := range chunks {
			chunks[i] = chunk
		}
		w.Write(icyBody(chunks, metas))
		w.(http.Flusher).Flush()

		// keep streaming audio with empty metadata until the client leaves
		silence := icyBody([]string{chunk}, []string{""})
		for {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(5 * time.Millisecond):
				if _, err := w.Write(silence); err != nil {
					return
				}
				w.(http.Flusher).Flush()
			}
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestConnectionDeliversInlineTags(t *testing.T) {
	srv := newICYServer(t, 16, []string{
		"StreamTitle='Tycho - Awake';",
		"StreamTitle='Tycho - Awake';",
		"StreamTitle='Bonobo - Kerala';StreamUrl='ART';",
	}, []byte("jpeg"))

	out := &fakeOutput{}
	p := newPlayer("test-agent", out, fakeDecode)

	rec := &tagRecorder{}
	conn := p.Open(srv.URL+"/stream", 50, rec.add)
	require.NotEmpty(t, conn.ID())
	assert.Equal(t, time.Duration(0), conn.Duration())

	conn.Play()
	defer conn.Close()

	require.Eventually(t, func() bool { return len(rec.all()) >= 2 }, 3*time.Second, 10*time.Millisecond)

	tags := rec.all()
	assert.Equal(t, "Tycho", tags[0][model.TagArtist])
	assert.Equal(t, "Awake", tags[0][model.TagTitle])
	assert.Equal(t, "Bonobo", tags[1][model.TagArtist])
	assert.Equal(t, "Kerala", tags[1][model.TagTitle])
	assert.NotContains(t, tags[1], model.TagArtwork, "non-http StreamUrl is not fetched")

	assert.Eventually(t, func() bool { return conn.Position() > 0 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, out.playCount())
}

func TestConnectionFetchesArtwork(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/art.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	})
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(ICYMetaIntHeader, "8")
		meta := "StreamTitle='A - B';StreamUrl='" + srv.URL + "/art.jpg';"
		w.Write(icyBody([]string{"xxxxxxxx"}, []string{meta}))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})

	rec := &tagRecorder{}
	conn := newPlayer("", &fakeOutput{}, fakeDecode).Open(srv.URL+"/stream", 100, rec.add)
	conn.Play()
	defer conn.Close()

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, []byte("jpeg-bytes"), rec.all()[0][model.TagArtwork])
}

func TestConnectionClosedStopsTags(t *testing.T) {
	srv := newICYServer(t, 16, []string{"StreamTitle='A - B';"}, nil)

	rec := &tagRecorder{}
	conn := newPlayer("", &fakeOutput{}, fakeDecode).Open(srv.URL+"/stream", 50, rec.add)
	require.NoError(t, conn.Close())
	conn.Play()

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.all())
}

func TestConnectionBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out := &fakeOutput{}
	conn := newPlayer("", out, fakeDecode).Open(srv.URL, 50, nil)
	conn.Play()

	lc := conn.(*liveConnection)
	select {
	case <-lc.done:
	case <-time.After(3 * time.Second):
		t.Fatal("connection did not finish")
	}
	assert.Equal(t, 0, out.playCount())
	assert.Equal(t, time.Duration(0), conn.Position())
}

func TestConnectionsGetDistinctIDs(t *testing.T) {
	p := newPlayer("", &fakeOutput{}, fakeDecode)
	a := p.Open("http://example.invalid", 50, nil)
	b := p.Open("http://example.invalid", 50, nil)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Contains(t, a.ID(), ConnectionIDPrefix)
}

func TestPercentToVolume(t *testing.T) {
	assert.Equal(t, 0.0, percentToVolume(100))
	assert.Equal(t, 0.0, percentToVolume(150))
	assert.Equal(t, MinVolumeDB, percentToVolume(0))
	assert.InDelta(t, MinVolumeDB/2, percentToVolume(50), 1e-9)
	assert.Greater(t, percentToVolume(80), percentToVolume(20))
}

func TestConnectionReleasesSourceUnderOutputLock(t *testing.T) {
	srv := newICYServer(t, 16, []string{"StreamTitle='A - B';"}, nil)

	out := &fakeOutput{}
	var closedLocked, closed atomic.Bool
	decode := func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		s := &byteStreamer{rc: rc, onClose: func() {
			closedLocked.Store(out.locked.Load())
			closed.Store(true)
		}}
		return s, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, nil
	}

	conn := newPlayer("", out, decode).Open(srv.URL+"/stream", 50, nil)
	conn.Play()
	require.Eventually(t, func() bool { return conn.Position() > 0 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	select {
	case <-conn.(*liveConnection).done:
	case <-time.After(3 * time.Second):
		t.Fatal("connection did not finish")
	}

	assert.True(t, closed.Load())
	assert.True(t, closedLocked.Load(), "decoder must be closed while the output is locked")
}

func TestQueueMetadataRetriesDroppedBlock(t *testing.T) {
	c := &liveConnection{id: "conn-test", metaCh: make(chan string, 1)}

	c.queueMetadata("StreamTitle='A - One';")
	c.queueMetadata("StreamTitle='B - Two';") // queue full, dropped
	assert.Equal(t, "StreamTitle='A - One';", <-c.metaCh)

	c.queueMetadata("StreamTitle='B - Two';")
	require.Len(t, c.metaCh, 1, "a dropped block is queued on its next repetition")
	assert.Equal(t, "StreamTitle='B - Two';", <-c.metaCh)

	c.queueMetadata("StreamTitle='B - Two';")
	assert.Empty(t, c.metaCh, "an unchanged block is not queued twice")
}

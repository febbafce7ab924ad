// Package station describes the fixed endpoints of the radio station: the
// live stream variants, the now-playing text endpoint and the history widget.
package station

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvStreamURL     = "HV_STREAM_URL"
	EnvNowPlayingURL = "HV_NOW_PLAYING_URL"
	EnvPollInterval  = "HV_POLL_INTERVAL"
)

// Stream variant names used in the descriptor
const (
	VariantHigh   = "high"
	VariantMedium = "medium"
	VariantLow    = "low"
)

// DefaultPollInterval is used when the descriptor omits or garbles the interval
const DefaultPollInterval = 30 * time.Second

//go:embed station.yaml
var defaultDescriptor []byte

// Station holds the endpoints of a single station
type Station struct {
	Name          string            `yaml:"name"`
	UserAgent     string            `yaml:"user_agent"`
	PollInterval  time.Duration     `yaml:"poll_interval"`
	Streams       map[string]string `yaml:"streams"`
	NowPlayingURL string            `yaml:"now_playing_url"`
	History       History           `yaml:"history"`
}

// History describes the embedded played-tracks widget
type History struct {
	ScriptURL string `yaml:"script_url"`
	WidgetID  string `yaml:"widget_id"`
	Count     int    `yaml:"count"`
	Date      int    `yaml:"date"`
	Buy       int    `yaml:"buy"`
}

// Default returns the built-in station with environment overrides applied
func Default() (*Station, error) {
	s, err := Parse(defaultDescriptor)
	if err != nil {
		return nil, err
	}
	s.applyEnv()
	return s, nil
}

// Parse decodes a station descriptor and fills in defaults
func Parse(data []byte) (*Station, error) {
	var s Station
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse station descriptor: %w", err)
	}

	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.Streams == nil {
		s.Streams = make(map[string]string)
	}
	if s.History.Count <= 0 {
		s.History.Count = 10
	}

	return &s, nil
}

// StreamURL returns the stream for a quality name, falling back to the high variant
func (s *Station) StreamURL(quality string) string {
	if u, ok := s.Streams[strings.ToLower(quality)]; ok && u != "" {
		return u
	}
	return s.Streams[VariantHigh]
}

func (s *Station) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvStreamURL)); v != "" {
		// One override URL serves every quality
		for _, variant := range []string{VariantHigh, VariantMedium, VariantLow} {
			s.Streams[variant] = v
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvNowPlayingURL)); v != "" {
		s.NowPlayingURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPollInterval)); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.PollInterval = d
		}
	}
}

package config

import (
	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// StreamQuality selects which stream variant is played
type StreamQuality string

const (
	QualityHigh   StreamQuality = "High"
	QualityMedium StreamQuality = "Medium"
	QualityLow    StreamQuality = "Low"
)

// Settings keys for Fyne preferences
const (
	KeyStreamQuality      = "selectedStreamQuality"
	KeyNotifications      = "isNotificationsEnabled"
	KeyBackgroundPlayback = "isBackgroundPlaybackEnabled"
	KeyVolumeLevel        = "selectedVolumeLevel"
	KeyDarkMode           = "isDarkModeEnabled"
	KeyDataSaver          = "isDataSaverEnabled"
)

// Default values
const (
	DefaultStreamQuality      = QualityHigh
	DefaultNotifications      = true
	DefaultBackgroundPlayback = true
	DefaultVolumeLevel        = 50.0
	DefaultDarkMode           = false
	DefaultDataSaver          = false

	MinVolumeLevel = 0.0
	MaxVolumeLevel = 100.0
)

// Cache is cleared by ClearCache. It holds derived data such as artwork.
type Cache interface {
	Clear() error
}

// Settings manages persisted user preferences
type Settings struct {
	app   fyne.App
	cache Cache
}

// NewSettings creates a new settings manager. cache may be nil.
func NewSettings(app fyne.App, cache Cache) *Settings {
	return &Settings{app: app, cache: cache}
}

// GetStreamQuality returns the configured stream quality
func (s *Settings) GetStreamQuality() StreamQuality {
	quality := StreamQuality(s.app.Preferences().StringWithFallback(KeyStreamQuality, string(DefaultStreamQuality)))
	if !quality.IsValid() {
		return DefaultStreamQuality
	}
	return quality
}

// SetStreamQuality sets the stream quality, ignoring unknown values
func (s *Settings) SetStreamQuality(quality StreamQuality) {
	if !quality.IsValid() {
		log.Warn().Str("quality", string(quality)).Msg("ignoring unknown stream quality")
		return
	}
	s.app.Preferences().SetString(KeyStreamQuality, string(quality))
}

// GetNotificationsEnabled returns whether track change notifications are shown
func (s *Settings) GetNotificationsEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyNotifications, DefaultNotifications)
}

// SetNotificationsEnabled sets whether track change notifications are shown
func (s *Settings) SetNotificationsEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyNotifications, enabled)
}

// GetBackgroundPlaybackEnabled returns whether playback continues in background
func (s *Settings) GetBackgroundPlaybackEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyBackgroundPlayback, DefaultBackgroundPlayback)
}

// SetBackgroundPlaybackEnabled sets whether playback continues in background
func (s *Settings) SetBackgroundPlaybackEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyBackgroundPlayback, enabled)
}

// GetVolumeLevel returns the volume level in 0..100
func (s *Settings) GetVolumeLevel() float64 {
	return clampVolume(s.app.Preferences().FloatWithFallback(KeyVolumeLevel, DefaultVolumeLevel))
}

// SetVolumeLevel sets the volume level, clamped to 0..100
func (s *Settings) SetVolumeLevel(level float64) {
	s.app.Preferences().SetFloat(KeyVolumeLevel, clampVolume(level))
}

// GetDarkModeEnabled returns whether the dark theme is forced
func (s *Settings) GetDarkModeEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyDarkMode, DefaultDarkMode)
}

// SetDarkModeEnabled sets whether the dark theme is forced
func (s *Settings) SetDarkModeEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyDarkMode, enabled)
}

// GetDataSaverEnabled returns whether data saver mode is on
func (s *Settings) GetDataSaverEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyDataSaver, DefaultDataSaver)
}

// SetDataSaverEnabled sets data saver mode. Switching it on forces the low
// quality stream; switching it off, or setting the current value again,
// leaves the quality as it is.
func (s *Settings) SetDataSaverEnabled(enabled bool) {
	wasEnabled := s.GetDataSaverEnabled()
	s.app.Preferences().SetBool(KeyDataSaver, enabled)
	if enabled && !wasEnabled {
		s.SetStreamQuality(QualityLow)
	}
}

// ClearCache removes cached derived data. Playback is not affected.
func (s *Settings) ClearCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear cache")
		return
	}
	log.Info().Msg("cache cleared")
}

// ResetAll restores every setting to its default
func (s *Settings) ResetAll() {
	prefs := s.app.Preferences()
	prefs.SetString(KeyStreamQuality, string(DefaultStreamQuality))
	prefs.SetBool(KeyNotifications, DefaultNotifications)
	prefs.SetBool(KeyBackgroundPlayback, DefaultBackgroundPlayback)
	prefs.SetFloat(KeyVolumeLevel, DefaultVolumeLevel)
	prefs.SetBool(KeyDarkMode, DefaultDarkMode)
	prefs.SetBool(KeyDataSaver, DefaultDataSaver)
}

// GetStreamQualityOptions returns available stream qualities in display order
func (s *Settings) GetStreamQualityOptions() []StreamQuality {
	return []StreamQuality{QualityHigh, QualityMedium, QualityLow}
}

// OnChanged registers a callback fired after any preference changes
func (s *Settings) OnChanged(callback func()) {
	s.app.Preferences().AddChangeListener(callback)
}

// IsValid reports whether q is one of the known qualities
func (q StreamQuality) IsValid() bool {
	return q == QualityHigh || q == QualityMedium || q == QualityLow
}

func clampVolume(level float64) float64 {
	if level < MinVolumeLevel {
		return MinVolumeLevel
	}
	if level > MaxVolumeLevel {
		return MaxVolumeLevel
	}
	return level
}

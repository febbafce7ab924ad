package model

import (
	"fmt"
	"time"
)

// Defaults substituted for missing track fields
const (
	DefaultTrackName   = "Unknown Song"
	DefaultTrackArtist = "Unknown Artist"
)

// Recognized inline tag keys
const (
	TagTitle   = "title"
	TagArtist  = "artist"
	TagArtwork = "artwork"
)

// TrackInfo represents the currently displayed track
type TrackInfo struct {
	Name    string
	Artist  string
	Artwork string // URI of the cached artwork image, empty if none
}

// InlineTags carries metadata delivered by the stream transport itself.
// Values for TagTitle and TagArtist are strings, TagArtwork is []byte.
// Other keys may be present and are ignored by consumers.
type InlineTags map[string]any

// DefaultTrackInfo returns the track shown before any metadata arrives
func DefaultTrackInfo() TrackInfo {
	return TrackInfo{
		Name:   DefaultTrackName,
		Artist: DefaultTrackArtist,
	}
}

// HasArtwork reports whether an artwork reference is set
func (ti TrackInfo) HasArtwork() bool {
	return ti.Artwork != ""
}

// SameSong reports whether name and artist match, ignoring artwork
func (ti TrackInfo) SameSong(other TrackInfo) bool {
	return ti.Name == other.Name && ti.Artist == other.Artist
}

// DisplayTitle returns "artist - name" for notifications and window titles
func (ti TrackInfo) DisplayTitle() string {
	return ti.Artist + " - " + ti.Name
}

// ElapsedPlaceholder is shown when no time has elapsed
const ElapsedPlaceholder = "—"

// FormatElapsed returns d formatted as hh:mm:ss, mm:ss, or ElapsedPlaceholder if not positive
func FormatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs <= 0 {
		return ElapsedPlaceholder
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

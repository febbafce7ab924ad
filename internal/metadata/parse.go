package metadata

import (
	"errors"
	"strings"

	"github.com/ytget/harmonic-vibes/internal/model"
)

// Separator between artist and title in the now-playing text
const Separator = '-'

// ErrEmptyResponse is returned when the endpoint answers with blank text
var ErrEmptyResponse = errors.New("empty now-playing response")

// Track is a parsed now-playing reading. It carries no artwork.
type Track struct {
	Name   string
	Artist string
}

// ParseTrack parses now-playing text. The text is split on '-', empty pieces
// are dropped, the first piece is the artist and the second the title; any
// further pieces are discarded. Text without two pieces becomes the title of
// an unknown artist.
func ParseTrack(text string) (Track, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Track{}, ErrEmptyResponse
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == Separator })
	if len(parts) >= 2 {
		return Track{
			Artist: strings.TrimSpace(parts[0]),
			Name:   strings.TrimSpace(parts[1]),
		}, nil
	}

	return Track{
		Name:   trimmed,
		Artist: model.DefaultTrackArtist,
	}, nil
}

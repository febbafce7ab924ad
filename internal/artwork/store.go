// Package artwork keeps the single cached artwork image shown for the
// current track.
package artwork

import (
	"errors"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2/storage"

	"github.com/ytget/harmonic-vibes/internal/platform"
)

// FileName is the fixed name of the cached artwork file
const FileName = "artwork.jpg"

// ErrEmptyArtwork is returned when there is no image data to save
var ErrEmptyArtwork = errors.New("empty artwork data")

// Store persists artwork to one fixed file, overwriting the previous image.
// At most one artwork is live at a time, so no reference counting is needed.
type Store struct {
	dir string
}

// NewStore creates a store writing into dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of the artwork file
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Save writes data to the artwork file and returns its URI
func (s *Store) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyArtwork
	}
	if err := platform.ReplaceFile(s.Path(), data); err != nil {
		return "", fmt.Errorf("save artwork: %w", err)
	}
	return storage.NewFileURI(s.Path()).String(), nil
}

// Clear deletes the artwork file if present
func (s *Store) Clear() error {
	if err := platform.RemoveIfExists(s.Path()); err != nil {
		return fmt.Errorf("clear artwork: %w", err)
	}
	return nil
}

package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher defaults
const (
	DefaultFetchTimeout = 10 * time.Second
	MaxResponseBytes    = 4096
)

// StatusError reports a non-2xx answer from the now-playing endpoint
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("now-playing endpoint returned %s", e.Status)
}

// Fetcher reads the current track from a plain-text HTTP endpoint
type Fetcher struct {
	url       string
	userAgent string
	http      *http.Client
}

// NewFetcher creates a fetcher for the given endpoint
func NewFetcher(url, userAgent string) *Fetcher {
	return &Fetcher{
		url:       url,
		userAgent: userAgent,
		http:      &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// Fetch issues one GET and parses the response body
func (f *Fetcher) Fetch(ctx context.Context) (Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Track{}, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return Track{}, fmt.Errorf("failed to fetch track info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Track{}, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return Track{}, fmt.Errorf("failed to read track info: %w", err)
	}

	return ParseTrack(string(body))
}

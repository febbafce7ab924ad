package model

// Package model defines domain values shared across the app: the displayed
// track, the playback status enum, and inline stream tags. Values are
// replaced wholesale rather than mutated in place.

package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconHistory  = "🕘"
	IconBack     = "←"
	IconMusic    = "🎵"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	LiveBadge          = "LIVE"
)

// Layout sizing
const (
	ArtworkSize       float32 = 260
	MobileArtworkSize float32 = 220
	WindowWidth       float32 = 420
	WindowHeight      float32 = 680

	// Touch target minimum sizes (iOS/Android guidelines)
	MinTouchTargetSize float32 = 44
	MobileButtonHeight float32 = 48
)

// Volume slider
const (
	VolumeSliderStep = 1.0
)

// Background task intervals
const (
	ProgressTickInterval = time.Second
)

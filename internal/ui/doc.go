package ui

// Package ui contains the Fyne user interface of the radio player: the
// playback screen, the settings screen and the track history screen.
// Background updates reach widgets only through fyne.Do. All UI strings are
// localized via Localization.

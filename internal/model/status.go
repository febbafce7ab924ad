package model

// PlaybackStatus represents the state of the live stream session
type PlaybackStatus string

const (
	// PlaybackStopped means no connection is open
	PlaybackStopped PlaybackStatus = "Stopped"

	// PlaybackPlaying means a live connection is open and playing
	PlaybackPlaying PlaybackStatus = "Playing"

	// PlaybackRestarting means the session is tearing down and reopening
	// its connection to rejoin the live edge
	PlaybackRestarting PlaybackStatus = "Restarting"
)

// String returns the string representation of PlaybackStatus
func (ps PlaybackStatus) String() string {
	return string(ps)
}

// IsActive returns true if a connection is open or being opened
func (ps PlaybackStatus) IsActive() bool {
	return ps == PlaybackPlaying || ps == PlaybackRestarting
}

package playbin

import "time"

const (
	// DurationUnknown is returned when the duration cannot be queried.
	DurationUnknown time.Duration = -1
	// PositionUnknown is returned when the position cannot be queried.
	PositionUnknown time.Duration = -1
)

// MediaInfo describes the loaded resource. It is computed once the pipeline
// has prerolled and is dropped on unload.
type MediaInfo struct {
	Duration time.Duration

	HasVideo    bool
	Width       int
	Height      int
	AspectRatio float64
	FrameRate   float64

	HasAudio bool
}

func newMediaInfo() MediaInfo {
	return MediaInfo{
		Duration:    DurationUnknown,
		Width:       -1,
		Height:      -1,
		AspectRatio: -1,
		FrameRate:   -1,
	}
}

// Tag is the per-track metadata of the last tag message.
type Tag struct {
	DiscID        string
	MusicBrainzID string
	CurrentTrack  uint
	TrackCount    uint
	Duration      time.Duration
}

// Status is the host-facing playback status.
type Status int

const (
	StatusUnloaded Status = iota
	StatusLoaded
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusLoaded:
		return "loaded"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	}
	return "unknown"
}

// SeekMode selects how Seek interprets its offset.
type SeekMode int

const (
	SeekAbsolute SeekMode = iota
	SeekRelative
)

package playbin

import (
	"errors"
	"fmt"
)

var (
	ErrClosed          = errors.New("session closed")
	ErrNotLoaded       = errors.New("no media loaded")
	ErrStateChange     = errors.New("state change refused")
	ErrSeek            = errors.New("seek refused")
	ErrInvalidRate     = errors.New("playback rate must not be zero")
	ErrPositionUnknown = errors.New("current position unknown")
	ErrInvalidTrack    = errors.New("track numbers start at 1")
)

// ErrorKind classifies asynchronous failures.
type ErrorKind int

const (
	// ErrorEngine is an error posted on the pipeline bus.
	ErrorEngine ErrorKind = iota
	// ErrorNoMediaInfo means a required media info field could not be read.
	ErrorNoMediaInfo
	// ErrorNoVideoOrAudio means the resource has neither stream.
	ErrorNoVideoOrAudio
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorEngine:
		return "engine"
	case ErrorNoMediaInfo:
		return "no-media-info"
	case ErrorNoVideoOrAudio:
		return "no-video-or-audio"
	}
	return "unknown"
}

// Error is delivered through Subscription.Error.
type Error struct {
	Kind    ErrorKind
	Message string
	Debug   string
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Debug != "":
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Debug)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Debug != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Debug)
	}
	return e.Kind.String()
}

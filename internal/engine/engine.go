// Package engine describes the multimedia engine a playback session drives.
//
// It covers what a playbin element offers to a host application. internal/gst
// provides the GStreamer implementation; enginetest provides an in-memory one.
package engine

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoVideoSink           = errors.New("unable to obtain the video sink")
	ErrNoVideoPad            = errors.New("unable to obtain the video pad")
	ErrNoVideoCaps           = errors.New("unable to obtain the video caps")
	ErrVisualizationNotFound = errors.New("visualization not found")
	ErrVisualizationFailed   = errors.New("failed to build visualization")
	ErrDiscovery             = errors.New("discoverer failed")
)

// Visualization is a registered visualization plugin.
type Visualization struct {
	Name     string
	LongName string
}

// Engine is one playback element. Implementations must be safe for use from
// multiple goroutines; the messages handed to the Factory handler arrive on
// the engine's own loop thread.
type Engine interface {
	SetURI(uri string)
	CurrentURI() string

	SetState(state State) StateChangeReturn
	// WaitForStateChange blocks until a pending state change completes or
	// the timeout expires, returning the current state.
	WaitForStateChange(timeout time.Duration) State

	QueryDuration() (time.Duration, bool)
	QueryPosition() (time.Duration, bool)
	Seek(rate float64, position time.Duration) bool
	// SeekTrack seeks in the "track" format, which counts tracks from 0.
	SeekTrack(rate float64, track int) bool

	SetVolume(volume float64)
	Volume() float64

	CurrentVideo() int
	CurrentAudio() int
	VideoSinkCaps() ([]Structure, error)

	Visualizations() []Visualization
	SetVisualization(name string) error

	SetWindowHandle(handle uintptr)

	// Discover looks the duration of uri up without touching the element.
	// It returns early with ctx.Err() when ctx is done; any native lookup
	// still running is waited for by Close.
	Discover(ctx context.Context, uri string, timeout time.Duration) (time.Duration, error)

	Close() error
}

// Factory creates a named engine delivering bus messages to handler.
type Factory func(name string, handler func(Message)) (Engine, error)

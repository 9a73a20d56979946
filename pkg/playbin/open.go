package playbin

import "github.com/muxable/playbin/internal/gst"

// Open creates a session on a new GStreamer playbin element.
func Open(opts ...Option) (*Session, error) {
	return New(gst.NewEngine, opts...)
}

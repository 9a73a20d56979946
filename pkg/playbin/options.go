package playbin

import "time"

const (
	// DefaultDiscoveryTimeout bounds the out-of-band duration lookup.
	DefaultDiscoveryTimeout = time.Second
	// DefaultStateChangeTimeout bounds the wait before a position query retry.
	DefaultStateChangeTimeout = 5 * time.Second
)

type options struct {
	windowHandle       uintptr
	discoveryTimeout   time.Duration
	stateChangeTimeout time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithWindowHandle sets the native window the video overlay renders into.
func WithWindowHandle(handle uintptr) Option {
	return func(o *options) {
		o.windowHandle = handle
	}
}

func WithDiscoveryTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.discoveryTimeout = d
		}
	}
}

func WithStateChangeTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.stateChangeTimeout = d
		}
	}
}

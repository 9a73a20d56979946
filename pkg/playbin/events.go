package playbin

// EndOfStream is emitted when the resource finished playing.
type EndOfStream struct{}

// ErrorEvent is emitted for every asynchronous failure.
type ErrorEvent struct {
	Err *Error
}

// Buffering is emitted while a network resource fills its buffer.
type Buffering struct {
	Percent int
}

// LoadComplete is emitted exactly once per successful media info probe.
type LoadComplete struct {
	Info MediaInfo
}

// TagEvent is emitted for every tag message; Tag replaces the previous one.
type TagEvent struct {
	Tag Tag
}

// StatusChange is emitted when the host-facing status changes.
type StatusChange struct {
	Previous Status
	Current  Status
}

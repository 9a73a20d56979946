package engine

import (
	"fmt"
	"time"
)

type MessageType int

const (
	MessageUnknown MessageType = iota
	MessageStateChanged
	MessageError
	MessageWarning
	MessageEOS
	MessageBuffering
	MessageTag
	MessageAsyncDone
)

func (t MessageType) String() string {
	switch t {
	case MessageStateChanged:
		return "state-changed"
	case MessageError:
		return "error"
	case MessageWarning:
		return "warning"
	case MessageEOS:
		return "eos"
	case MessageBuffering:
		return "buffering"
	case MessageTag:
		return "tag"
	case MessageAsyncDone:
		return "async-done"
	}
	return "unknown"
}

// Message is a decoded asynchronous bus message. Only the fields relevant
// to Type are set.
type Message struct {
	Type   MessageType
	Source string
	// FromPipeline is set when the playbin element itself posted the message.
	FromPipeline bool

	OldState     State
	NewState     State
	PendingState State

	Error   *Error
	Percent int
	Tags    *TagList
}

// Error is an error or warning reported by the engine.
type Error struct {
	Message string
	Debug   string
}

func (e *Error) Error() string {
	if e.Debug == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Debug)
}

// TagList holds the tags a session cares about. Absent tags are nil.
type TagList struct {
	TrackNumber   *uint
	TrackCount    *uint
	Duration      *time.Duration
	DiscID        *string
	MusicBrainzID *string
}

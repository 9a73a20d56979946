package gst

/*
#cgo pkg-config: gstreamer-1.0
#include <gst/gst.h>

#include "gst.h"
*/
import "C"
import (
	"time"
	"unsafe"

	"github.com/mattn/go-pointer"
	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

//export goBusFunc
func goBusFunc(m *C.PbMessage, ptr C.gpointer) {
	b := pointer.Restore(unsafe.Pointer(ptr)).(*Playbin)
	msg := decodeMessage(m)
	if msg.Type == engine.MessageUnknown {
		zap.L().Debug(goString(m.type_name), zap.String("id", b.name), zap.String("source", msg.Source))
	}
	if b.handler != nil {
		b.handler(msg)
	}
}

func decodeMessage(m *C.PbMessage) engine.Message {
	msg := engine.Message{
		FromPipeline: m.from_pipeline != 0,
		Source:       goString(m.source),
	}
	switch m._type {
	case C.PB_MESSAGE_STATE_CHANGED:
		msg.Type = engine.MessageStateChanged
		msg.OldState = engine.State(m.old_state)
		msg.NewState = engine.State(m.new_state)
		msg.PendingState = engine.State(m.pending_state)
	case C.PB_MESSAGE_ERROR, C.PB_MESSAGE_WARNING:
		msg.Type = engine.MessageError
		if m._type == C.PB_MESSAGE_WARNING {
			msg.Type = engine.MessageWarning
		}
		msg.Error = &engine.Error{
			Message: goString(m.error_message),
			Debug:   goString(m.error_debug),
		}
	case C.PB_MESSAGE_EOS:
		msg.Type = engine.MessageEOS
	case C.PB_MESSAGE_BUFFERING:
		msg.Type = engine.MessageBuffering
		msg.Percent = int(m.percent)
	case C.PB_MESSAGE_TAG:
		msg.Type = engine.MessageTag
		msg.Tags = decodeTags(m)
	case C.PB_MESSAGE_ASYNC_DONE:
		msg.Type = engine.MessageAsyncDone
	default:
		msg.Type = engine.MessageUnknown
	}
	return msg
}

func decodeTags(m *C.PbMessage) *engine.TagList {
	tags := &engine.TagList{}
	if m.has_track_number != 0 {
		v := uint(m.track_number)
		tags.TrackNumber = &v
	}
	if m.has_track_count != 0 {
		v := uint(m.track_count)
		tags.TrackCount = &v
	}
	if m.has_duration != 0 {
		v := time.Duration(m.duration)
		tags.Duration = &v
	}
	if m.disc_id != nil {
		v := C.GoString(m.disc_id)
		tags.DiscID = &v
	}
	if m.musicbrainz_id != nil {
		v := C.GoString(m.musicbrainz_id)
		tags.MusicBrainzID = &v
	}
	return tags
}

func goString(c *C.char) string {
	if c == nil {
		return ""
	}
	return C.GoString(c)
}

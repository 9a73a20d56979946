package playbin

import (
	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

// dispatch handles one bus message on the event goroutine.
func (s *Session) dispatch(m engine.Message) {
	switch m.Type {
	case engine.MessageStateChanged:
		if m.FromPipeline && m.NewState == engine.StatePaused {
			s.startProbe()
		}
	case engine.MessageAsyncDone:
		s.startProbe()
	case engine.MessageError:
		err := &Error{Kind: ErrorEngine}
		if m.Error != nil {
			err.Message, err.Debug = m.Error.Message, m.Error.Debug
		}
		zap.L().Error("engine error", zap.String("id", s.id.String()), zap.String("source", m.Source), zap.String("message", err.Message), zap.String("debug", err.Debug))
		s.publish(ErrorEvent{Err: err})
	case engine.MessageWarning:
		fields := []zap.Field{zap.String("id", s.id.String()), zap.String("source", m.Source)}
		if m.Error != nil {
			fields = append(fields, zap.String("message", m.Error.Message), zap.String("debug", m.Error.Debug))
		}
		zap.L().Warn("engine warning", fields...)
	case engine.MessageEOS:
		s.publish(EndOfStream{})
	case engine.MessageBuffering:
		s.publish(Buffering{Percent: m.Percent})
	case engine.MessageTag:
		tag := tagFromList(m.Tags)
		s.tag = &tag
		s.publish(TagEvent{Tag: tag})
	default:
		zap.L().Debug("unhandled message", zap.String("id", s.id.String()), zap.Stringer("type", m.Type), zap.String("source", m.Source))
	}
}

// tagFromList builds a fresh tag; fields absent from the list stay zero.
func tagFromList(l *engine.TagList) Tag {
	var tag Tag
	if l == nil {
		return tag
	}
	if l.TrackNumber != nil {
		tag.CurrentTrack = *l.TrackNumber
	}
	if l.TrackCount != nil {
		tag.TrackCount = *l.TrackCount
	}
	if l.Duration != nil {
		tag.Duration = *l.Duration
	}
	if l.DiscID != nil {
		tag.DiscID = *l.DiscID
	}
	if l.MusicBrainzID != nil {
		tag.MusicBrainzID = *l.MusicBrainzID
	}
	return tag
}

package server

import (
	"context"
	"errors"
	"time"

	"github.com/muxable/playbin/api"
	"github.com/muxable/playbin/pkg/playbin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PlayerServer serves one playback session.
type PlayerServer struct {
	api.UnimplementedPlayerServer

	session *playbin.Session
}

func NewPlayerServer(session *playbin.Session) *PlayerServer {
	return &PlayerServer{session: session}
}

// toStatus maps session errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, playbin.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, playbin.ErrNotLoaded), errors.Is(err, playbin.ErrPositionUnknown):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, playbin.ErrInvalidRate), errors.Is(err, playbin.ErrInvalidTrack):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, playbin.ErrStateChange), errors.Is(err, playbin.ErrSeek):
		return status.Error(codes.Aborted, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func empty(err error) (*emptypb.Empty, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func millis(d time.Duration) int64 {
	if d < 0 {
		return -1
	}
	return d.Milliseconds()
}

func (s *PlayerServer) Load(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if in.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "uri is required")
	}
	zap.L().Info("load", zap.String("id", s.session.ID()), zap.String("uri", in.GetValue()))
	return empty(s.session.Load(in.GetValue()))
}

func (s *PlayerServer) Play(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return empty(s.session.Play())
}

func (s *PlayerServer) Pause(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return empty(s.session.Pause())
}

func (s *PlayerServer) Unload(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return empty(s.session.Unload())
}

func (s *PlayerServer) Seek(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	fields := in.GetFields()
	position, ok := fields["position_ms"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "position_ms is required")
	}
	mode := playbin.SeekAbsolute
	if fields["relative"].GetBoolValue() {
		mode = playbin.SeekRelative
	}
	rate := 1.0
	if v, ok := fields["rate"]; ok {
		rate = v.GetNumberValue()
	}
	offset := time.Duration(position.GetNumberValue() * float64(time.Millisecond))
	return empty(s.session.Seek(offset, mode, rate))
}

func (s *PlayerServer) SetSpeed(ctx context.Context, in *wrapperspb.DoubleValue) (*emptypb.Empty, error) {
	return empty(s.session.SetSpeed(in.GetValue()))
}

func (s *PlayerServer) SeekToTrack(ctx context.Context, in *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	return empty(s.session.SeekToTrack(int(in.GetValue()), s.session.Rate()))
}

func (s *PlayerServer) GetPosition(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(millis(s.session.Position())), nil
}

func (s *PlayerServer) GetDuration(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return wrapperspb.Int64(millis(s.session.Duration())), nil
}

func (s *PlayerServer) SetVolume(ctx context.Context, in *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	return empty(s.session.SetVolume(int(in.GetValue())))
}

func (s *PlayerServer) GetVolume(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int32Value, error) {
	v := s.session.Volume()
	if v < 0 {
		return nil, toStatus(playbin.ErrClosed)
	}
	return wrapperspb.Int32(int32(v)), nil
}

func (s *PlayerServer) SetVisualization(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return empty(s.session.SetVisualization(in.GetValue()))
}

func (s *PlayerServer) ListVisualizations(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	names := s.session.Visualizations()
	values := make([]interface{}, 0, len(names))
	for _, name := range names {
		values = append(values, name)
	}
	return structpb.NewList(values)
}

func (s *PlayerServer) GetMediaInfo(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	info, ok := s.session.MediaInfo()
	if !ok {
		return nil, status.Error(codes.NotFound, "media info not available")
	}
	return structpb.NewStruct(mediaInfoFields(info))
}

func (s *PlayerServer) GetTag(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	tag, ok := s.session.Tag()
	if !ok {
		return nil, status.Error(codes.NotFound, "no tag received")
	}
	return structpb.NewStruct(tagFields(tag))
}

func (s *PlayerServer) GetStatus(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String(s.session.Status().String()), nil
}

func (s *PlayerServer) Events(_ *emptypb.Empty, stream api.Player_EventsServer) error {
	sub := s.session.Subscribe()
	defer s.session.Unsubscribe(sub)

	for {
		var fields map[string]interface{}
		select {
		case <-stream.Context().Done():
			return nil
		case <-sub.Done:
			return nil
		case <-sub.EndOfStream:
			fields = map[string]interface{}{"type": "eos"}
		case e := <-sub.Error:
			fields = map[string]interface{}{
				"type":    "error",
				"kind":    e.Err.Kind.String(),
				"message": e.Err.Message,
				"debug":   e.Err.Debug,
			}
		case e := <-sub.Buffering:
			fields = map[string]interface{}{"type": "buffering", "percent": e.Percent}
		case e := <-sub.LoadComplete:
			fields = mediaInfoFields(e.Info)
			fields["type"] = "load-complete"
		case e := <-sub.Tag:
			fields = tagFields(e.Tag)
			fields["type"] = "tag"
		case e := <-sub.StatusChanged:
			fields = map[string]interface{}{
				"type":     "status",
				"previous": e.Previous.String(),
				"current":  e.Current.String(),
			}
		}

		event, err := structpb.NewStruct(fields)
		if err != nil {
			return status.Error(codes.Internal, err.Error())
		}
		if err := stream.Send(event); err != nil {
			zap.L().Debug("event stream closed", zap.String("id", s.session.ID()), zap.Error(err))
			return err
		}
	}
}

func mediaInfoFields(info playbin.MediaInfo) map[string]interface{} {
	return map[string]interface{}{
		"duration_ms":  millis(info.Duration),
		"has_video":    info.HasVideo,
		"width":        info.Width,
		"height":       info.Height,
		"aspect_ratio": info.AspectRatio,
		"frame_rate":   info.FrameRate,
		"has_audio":    info.HasAudio,
	}
}

func tagFields(tag playbin.Tag) map[string]interface{} {
	return map[string]interface{}{
		"disc_id":        tag.DiscID,
		"musicbrainz_id": tag.MusicBrainzID,
		"current_track":  int64(tag.CurrentTrack),
		"track_count":    int64(tag.TrackCount),
		"duration_ms":    millis(tag.Duration),
	}
}

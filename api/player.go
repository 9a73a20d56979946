// Package api describes the playbin.v1.Player gRPC service. Messages are
// protobuf well-known types: times are milliseconds and volumes percent.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const PlayerServiceName = "playbin.v1.Player"

// PlayerServer is the server API for the Player service.
type PlayerServer interface {
	Load(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	Play(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Pause(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Unload(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	// Seek takes {position_ms, relative, rate}.
	Seek(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	SetSpeed(context.Context, *wrapperspb.DoubleValue) (*emptypb.Empty, error)
	SeekToTrack(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error)
	GetPosition(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	GetDuration(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	SetVolume(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error)
	GetVolume(context.Context, *emptypb.Empty) (*wrapperspb.Int32Value, error)
	SetVisualization(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ListVisualizations(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetMediaInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetTag(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetStatus(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	// Events streams one {type, ...} struct per session event.
	Events(*emptypb.Empty, Player_EventsServer) error
}

type Player_EventsServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

// UnimplementedPlayerServer can be embedded to have forward compatible
// implementations.
type UnimplementedPlayerServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedPlayerServer) Load(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, unimplemented("Load")
}
func (UnimplementedPlayerServer) Play(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented("Play")
}
func (UnimplementedPlayerServer) Pause(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented("Pause")
}
func (UnimplementedPlayerServer) Unload(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, unimplemented("Unload")
}
func (UnimplementedPlayerServer) Seek(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, unimplemented("Seek")
}
func (UnimplementedPlayerServer) SetSpeed(context.Context, *wrapperspb.DoubleValue) (*emptypb.Empty, error) {
	return nil, unimplemented("SetSpeed")
}
func (UnimplementedPlayerServer) SeekToTrack(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	return nil, unimplemented("SeekToTrack")
}
func (UnimplementedPlayerServer) GetPosition(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, unimplemented("GetPosition")
}
func (UnimplementedPlayerServer) GetDuration(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	return nil, unimplemented("GetDuration")
}
func (UnimplementedPlayerServer) SetVolume(context.Context, *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	return nil, unimplemented("SetVolume")
}
func (UnimplementedPlayerServer) GetVolume(context.Context, *emptypb.Empty) (*wrapperspb.Int32Value, error) {
	return nil, unimplemented("GetVolume")
}
func (UnimplementedPlayerServer) SetVisualization(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, unimplemented("SetVisualization")
}
func (UnimplementedPlayerServer) ListVisualizations(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, unimplemented("ListVisualizations")
}
func (UnimplementedPlayerServer) GetMediaInfo(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("GetMediaInfo")
}
func (UnimplementedPlayerServer) GetTag(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented("GetTag")
}
func (UnimplementedPlayerServer) GetStatus(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return nil, unimplemented("GetStatus")
}
func (UnimplementedPlayerServer) Events(*emptypb.Empty, Player_EventsServer) error {
	return unimplemented("Events")
}

func RegisterPlayerServer(s grpc.ServiceRegistrar, srv PlayerServer) {
	s.RegisterService(&Player_ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + PlayerServiceName + "/" + name
}

func unary[Req, Res any](name string, call func(PlayerServer, context.Context, *Req) (*Res, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PlayerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PlayerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type playerEventsServer struct {
	grpc.ServerStream
}

func (x *playerEventsServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func eventsHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(PlayerServer).Events(m, &playerEventsServer{stream})
}

// Player_ServiceDesc is the grpc.ServiceDesc for the Player service.
var Player_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PlayerServiceName,
	HandlerType: (*PlayerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Load", PlayerServer.Load),
		unary("Play", PlayerServer.Play),
		unary("Pause", PlayerServer.Pause),
		unary("Unload", PlayerServer.Unload),
		unary("Seek", PlayerServer.Seek),
		unary("SetSpeed", PlayerServer.SetSpeed),
		unary("SeekToTrack", PlayerServer.SeekToTrack),
		unary("GetPosition", PlayerServer.GetPosition),
		unary("GetDuration", PlayerServer.GetDuration),
		unary("SetVolume", PlayerServer.SetVolume),
		unary("GetVolume", PlayerServer.GetVolume),
		unary("SetVisualization", PlayerServer.SetVisualization),
		unary("ListVisualizations", PlayerServer.ListVisualizations),
		unary("GetMediaInfo", PlayerServer.GetMediaInfo),
		unary("GetTag", PlayerServer.GetTag),
		unary("GetStatus", PlayerServer.GetStatus),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Events",
			Handler:       eventsHandler,
			ServerStreams: true,
		},
	},
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/muxable/playbin/api"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const usage = `usage: playctl [-addr host:port] <command> [args]

commands:
  load <uri>                 load a resource
  play | pause | unload
  seek [-relative] [-rate r] <ms>
  speed <rate>
  track <n>                  jump to a track (audio CDs)
  position | duration        in milliseconds
  volume [percent]
  vis <name>                 install a visualization
  visualizations
  info | tag | status
  events                     stream session events
`

func main() {
	addr := flag.String("addr", "localhost:50051", "The address of the playbin server")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout of unary calls")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	conn, err := grpc.Dial(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		zap.L().Fatal("failed to dial", zap.String("addr", *addr), zap.Error(err))
	}
	defer conn.Close()

	client := api.NewPlayerClient(conn)

	if flag.Arg(0) == "events" {
		if err := events(context.Background(), client); err != nil {
			zap.L().Fatal("event stream failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := run(ctx, client, flag.Arg(0), flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if out != nil {
		output(out)
	}
}

func output(m proto.Message) {
	if _, ok := m.(*emptypb.Empty); ok {
		return
	}
	fmt.Println(protojson.Format(m))
}

func arg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected exactly one argument")
	}
	return args[0], nil
}

func run(ctx context.Context, client api.PlayerClient, cmd string, args []string) (proto.Message, error) {
	empty := &emptypb.Empty{}
	switch cmd {
	case "load":
		uri, err := arg(args)
		if err != nil {
			return nil, err
		}
		return client.Load(ctx, wrapperspb.String(uri))
	case "play":
		return client.Play(ctx, empty)
	case "pause":
		return client.Pause(ctx, empty)
	case "unload":
		return client.Unload(ctx, empty)
	case "seek":
		fs := flag.NewFlagSet("seek", flag.ContinueOnError)
		relative := fs.Bool("relative", false, "Seek relative to the current position")
		rate := fs.Float64("rate", 1, "Playback rate")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		ms, err := arg(fs.Args())
		if err != nil {
			return nil, err
		}
		position, err := strconv.ParseFloat(ms, 64)
		if err != nil {
			return nil, err
		}
		req, err := structpb.NewStruct(map[string]interface{}{
			"position_ms": position,
			"relative":    *relative,
			"rate":        *rate,
		})
		if err != nil {
			return nil, err
		}
		return client.Seek(ctx, req)
	case "speed":
		s, err := arg(args)
		if err != nil {
			return nil, err
		}
		rate, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return client.SetSpeed(ctx, wrapperspb.Double(rate))
	case "track":
		s, err := arg(args)
		if err != nil {
			return nil, err
		}
		track, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, err
		}
		return client.SeekToTrack(ctx, wrapperspb.Int32(int32(track)))
	case "position":
		return client.GetPosition(ctx, empty)
	case "duration":
		return client.GetDuration(ctx, empty)
	case "volume":
		if len(args) == 0 {
			return client.GetVolume(ctx, empty)
		}
		s, err := arg(args)
		if err != nil {
			return nil, err
		}
		percent, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, err
		}
		return client.SetVolume(ctx, wrapperspb.Int32(int32(percent)))
	case "vis":
		name, err := arg(args)
		if err != nil {
			return nil, err
		}
		return client.SetVisualization(ctx, wrapperspb.String(name))
	case "visualizations":
		return client.ListVisualizations(ctx, empty)
	case "info":
		return client.GetMediaInfo(ctx, empty)
	case "tag":
		return client.GetTag(ctx, empty)
	case "status":
		return client.GetStatus(ctx, empty)
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

func events(ctx context.Context, client api.PlayerClient) error {
	stream, err := client.Events(ctx, &emptypb.Empty{})
	if err != nil {
		return err
	}
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(protojson.Format(event))
	}
}

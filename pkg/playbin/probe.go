package playbin

import (
	"context"
	"time"

	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

// startProbe computes the media info of the current resource the first time
// the pipeline reports it has prerolled.
func (s *Session) startProbe() {
	if s.probe != probeIdle {
		return
	}
	s.probe = probeRunning

	var (
		info     MediaInfo
		perr     *Error
		duration time.Duration
		known    bool
		uri      string
		eng      engine.Engine
	)
	if err := s.with(func(e engine.Engine) error {
		info, perr = probeMediaInfo(e)
		if perr != nil {
			return nil
		}
		duration, known = e.QueryDuration()
		if !known {
			uri = e.CurrentURI()
			if uri == "" {
				uri = s.uri
			}
			eng = e
		}
		return nil
	}); err != nil {
		return
	}

	if perr != nil {
		s.fail(perr)
		return
	}
	if known {
		info.Duration = duration
		s.complete(info)
		return
	}

	zap.L().Debug("duration query failed, falling back to discovery", zap.String("id", s.id.String()), zap.String("uri", uri))
	s.discover(eng, info, uri)
}

// probeMediaInfo reads the stream layout and, for video, the negotiated
// format of the video sink.
func probeMediaInfo(e engine.Engine) (MediaInfo, *Error) {
	info := newMediaInfo()
	info.HasVideo = e.CurrentVideo() != -1
	info.HasAudio = e.CurrentAudio() != -1
	if !info.HasVideo && !info.HasAudio {
		return info, &Error{Kind: ErrorNoVideoOrAudio, Message: "the resource has no audio or video stream"}
	}
	if !info.HasVideo {
		return info, nil
	}

	caps, err := e.VideoSinkCaps()
	if err != nil {
		return info, &Error{Kind: ErrorNoMediaInfo, Message: "unable to read the video format", Debug: err.Error()}
	}
	return info, readVideoCaps(&info, caps)
}

// readVideoCaps takes the first width, height and frame rate found in the
// video structures of caps.
func readVideoCaps(info *MediaInfo, caps []engine.Structure) *Error {
	var width, height, rate bool
	for _, st := range caps {
		if !st.HasPrefix("video") {
			continue
		}
		if !width {
			if v, ok := st.Int("width"); ok && v > 0 {
				info.Width, width = v, true
			}
		}
		if !height {
			if v, ok := st.Int("height"); ok && v > 0 {
				info.Height, height = v, true
			}
		}
		if !rate {
			if f, ok := st.Fraction("framerate"); ok && f.Den != 0 {
				info.FrameRate, rate = f.Float(), true
			}
		}
		if width && height && rate {
			break
		}
	}

	switch {
	case !width:
		return missingField("width")
	case !height:
		return missingField("height")
	case !rate:
		return missingField("frame rate")
	}
	info.AspectRatio = float64(info.Width) / float64(info.Height)
	return nil
}

func missingField(name string) *Error {
	return &Error{Kind: ErrorNoMediaInfo, Message: "unable to obtain the video " + name}
}

func (s *Session) fail(err *Error) {
	s.probe = probeFailed
	zap.L().Error("failed to probe media info", zap.String("id", s.id.String()), zap.Stringer("kind", err.Kind), zap.String("message", err.Message), zap.String("debug", err.Debug))
	s.publish(ErrorEvent{Err: err})
}

func (s *Session) complete(info MediaInfo) {
	s.probe = probeDone
	s.info = &info
	zap.L().Debug("media info ready", zap.String("id", s.id.String()), zap.Duration("duration", info.Duration), zap.Bool("video", info.HasVideo), zap.Bool("audio", info.HasAudio))
	s.publish(LoadComplete{Info: info})
}

// discover looks the duration up out of band. The lookup outlives neither
// the resource nor the session: unload, reload and close cancel it, and a
// cancelled task's result is dropped.
func (s *Session) discover(e engine.Engine, info MediaInfo, uri string) {
	timeout := s.opts.discoveryTimeout
	ctx, cancel := context.WithTimeout(s.ctx, 2*timeout)
	task := &discoveryTask{cancel: cancel}
	s.discovery = task
	s.probe = probeDiscovering

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		d, err := e.Discover(ctx, uri, timeout)
		s.submit(func() { s.discovered(task, info, d, err) })
	}()
}

func (s *Session) discovered(task *discoveryTask, info MediaInfo, d time.Duration, err error) {
	if s.discovery != task {
		zap.L().Debug("dropping stale discovery result", zap.String("id", s.id.String()))
		return
	}
	s.discovery = nil
	if err != nil {
		s.fail(&Error{Kind: ErrorNoMediaInfo, Message: "unable to obtain the duration", Debug: err.Error()})
		return
	}
	info.Duration = d
	s.complete(info)
}

package playbin

import (
	"math"
	"time"

	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

// Load replaces the current resource with uri and starts prerolling it. The
// media info arrives later as a LoadComplete event.
func (s *Session) Load(uri string) error {
	if err := s.Unload(); err != nil {
		return err
	}
	if !s.do(func() {
		s.reset(probeIdle)
		s.uri = uri
	}) {
		return ErrClosed
	}

	var ret engine.StateChangeReturn
	if err := s.with(func(e engine.Engine) error {
		e.SetURI(uri)
		ret = e.SetState(engine.StatePaused)
		return nil
	}); err != nil {
		return err
	}

	if !ret.Accepted() {
		zap.L().Error("failed to preroll", zap.String("id", s.id.String()), zap.String("uri", uri))
		s.do(func() {
			s.probe = probeInactive
			s.uri = ""
		})
		return ErrStateChange
	}

	if !s.do(func() { s.setStatus(StatusLoaded) }) {
		return ErrClosed
	}
	return nil
}

// Play starts or resumes playback of the loaded resource.
func (s *Session) Play() error {
	return s.transition(engine.StatePlaying, StatusPlaying)
}

// Pause pauses playback of the loaded resource.
func (s *Session) Pause() error {
	return s.transition(engine.StatePaused, StatusPaused)
}

func (s *Session) transition(state engine.State, status Status) error {
	if s.Status() == StatusUnloaded {
		if s.isClosed() {
			return ErrClosed
		}
		return ErrNotLoaded
	}
	var ret engine.StateChangeReturn
	if err := s.with(func(e engine.Engine) error {
		ret = e.SetState(state)
		return nil
	}); err != nil {
		return err
	}
	if !ret.Accepted() {
		return ErrStateChange
	}
	if !s.do(func() { s.setStatus(status) }) {
		return ErrClosed
	}
	return nil
}

// Unload stops playback and forgets the current resource. Unloading when
// nothing is loaded is a no-op.
func (s *Session) Unload() error {
	if err := s.with(func(e engine.Engine) error {
		e.SetState(engine.StateNull)
		return nil
	}); err != nil {
		return err
	}
	if !s.do(func() {
		s.reset(probeInactive)
		s.uri = ""
		s.rate = 1
		s.setStatus(StatusUnloaded)
	}) {
		return ErrClosed
	}
	return nil
}

// Duration returns the duration of the loaded resource, or DurationUnknown.
func (s *Session) Duration() time.Duration {
	d := DurationUnknown
	s.with(func(e engine.Engine) error {
		if v, ok := e.QueryDuration(); ok {
			d = v
		}
		return nil
	})
	return d
}

// Position returns the playback position, or PositionUnknown. If the first
// query fails while a state change is in flight, Position waits for it to
// settle and asks again.
func (s *Session) Position() time.Duration {
	p := PositionUnknown
	s.with(func(e engine.Engine) error {
		if v, ok := e.QueryPosition(); ok {
			p = v
			return nil
		}
		e.WaitForStateChange(s.stateChangeTimeout())
		if v, ok := e.QueryPosition(); ok {
			p = v
		}
		return nil
	})
	return p
}

// Seek moves the playback position to offset, or by offset from the current
// position in SeekRelative mode, and sets the playback rate. The target is
// clamped at zero.
func (s *Session) Seek(offset time.Duration, mode SeekMode, rate float64) error {
	if rate == 0 {
		return ErrInvalidRate
	}
	target := offset
	if mode == SeekRelative {
		pos := s.Position()
		if pos == PositionUnknown {
			if s.isClosed() {
				return ErrClosed
			}
			return ErrPositionUnknown
		}
		target = pos + offset
	}
	if target < 0 {
		target = 0
	}
	return s.seek(target, rate)
}

func (s *Session) seek(target time.Duration, rate float64) error {
	var ok bool
	if err := s.with(func(e engine.Engine) error {
		ok = e.Seek(rate, target)
		return nil
	}); err != nil {
		return err
	}
	if !ok {
		zap.L().Warn("seek refused", zap.String("id", s.id.String()), zap.Duration("target", target), zap.Float64("rate", rate))
		return ErrSeek
	}
	s.do(func() { s.rate = rate })
	return nil
}

// SetSpeed changes the playback rate, keeping the current position.
func (s *Session) SetSpeed(rate float64) error {
	return s.Seek(0, SeekRelative, rate)
}

// Rate returns the last rate applied by Seek, SetSpeed or SeekToTrack.
func (s *Session) Rate() float64 {
	rate := 1.0
	s.do(func() { rate = s.rate })
	return rate
}

// SeekToTrack jumps to the start of a track of a multi-track resource such
// as an audio CD. Tracks are numbered from 1, like Tag.CurrentTrack.
func (s *Session) SeekToTrack(track int, rate float64) error {
	if track < 1 {
		return ErrInvalidTrack
	}
	if rate == 0 {
		return ErrInvalidRate
	}
	var ok bool
	if err := s.with(func(e engine.Engine) error {
		ok = e.SeekTrack(rate, track-1)
		return nil
	}); err != nil {
		return err
	}
	if !ok {
		return ErrSeek
	}
	s.do(func() { s.rate = rate })
	return nil
}

// SetVolume sets the volume in percent, clamped to [0, 100].
func (s *Session) SetVolume(percent int) error {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	return s.with(func(e engine.Engine) error {
		e.SetVolume(float64(percent) / 100)
		return nil
	})
}

// Volume returns the volume in percent, or -1 once closed.
func (s *Session) Volume() int {
	v := -1
	s.with(func(e engine.Engine) error {
		v = int(math.Round(e.Volume() * 100))
		return nil
	})
	return v
}

// Visualizations lists the long names of the installed visualization
// plugins.
func (s *Session) Visualizations() []string {
	var names []string
	s.with(func(e engine.Engine) error {
		for _, v := range e.Visualizations() {
			names = append(names, v.LongName)
		}
		return nil
	})
	return names
}

// SetVisualization installs the visualization plugin with the given long or
// short name. An unknown name or a plugin that cannot be built leaves the
// current visualization in place and is only logged.
func (s *Session) SetVisualization(name string) error {
	return s.with(func(e engine.Engine) error {
		if err := e.SetVisualization(name); err != nil {
			zap.L().Warn("failed to set visualization", zap.String("id", s.id.String()), zap.String("name", name), zap.Error(err))
		}
		return nil
	})
}

// SetWindowHandle sets the native window video is rendered into.
func (s *Session) SetWindowHandle(handle uintptr) error {
	return s.with(func(e engine.Engine) error {
		e.SetWindowHandle(handle)
		return nil
	})
}

// MediaInfo returns the media info of the loaded resource once it has been
// probed.
func (s *Session) MediaInfo() (MediaInfo, bool) {
	var info MediaInfo
	var ok bool
	s.do(func() {
		if s.info != nil {
			info, ok = *s.info, true
		}
	})
	return info, ok
}

// Tag returns the last tag received for the loaded resource.
func (s *Session) Tag() (Tag, bool) {
	var tag Tag
	var ok bool
	s.do(func() {
		if s.tag != nil {
			tag, ok = *s.tag, true
		}
	})
	return tag, ok
}

// Status returns the playback status. A closed session is unloaded.
func (s *Session) Status() Status {
	status := StatusUnloaded
	s.do(func() { status = s.status })
	return status
}

// URI returns the loaded resource, or an empty string.
func (s *Session) URI() string {
	var uri string
	s.do(func() { uri = s.uri })
	return uri
}

func (s *Session) isClosed() bool {
	return s.ctx.Err() != nil
}

package playbin

import (
	"testing"
	"time"

	"github.com/muxable/playbin/internal/engine"
	"github.com/muxable/playbin/internal/engine/enginetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const testURI = "file:///media/test.ogg"

func newTestSession(t *testing.T, e *enginetest.Engine, opts ...Option) *Session {
	t.Helper()
	s, err := New(e.Factory(), opts...)
	require.NoError(t, err)
	return s
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		var zero T
		t.Fatalf("timed out waiting for %T", zero)
		return zero
	}
}

func none[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected %T: %+v", v, v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSession_ElementName(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	assert.Equal(t, s.ID(), e.Name())
}

func TestSession_LoadPlayPause(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	sub := s.Subscribe()

	require.ErrorIs(t, s.Play(), ErrNotLoaded)
	require.ErrorIs(t, s.Pause(), ErrNotLoaded)

	require.NoError(t, s.Load(testURI))
	assert.Equal(t, testURI, e.URI())
	assert.Equal(t, testURI, s.URI())
	assert.Equal(t, StatusLoaded, s.Status())
	assert.Equal(t, StatusChange{Previous: StatusUnloaded, Current: StatusLoaded}, recv(t, sub.StatusChanged))

	require.NoError(t, s.Play())
	assert.Equal(t, StatusPlaying, s.Status())
	assert.Equal(t, StatusChange{Previous: StatusLoaded, Current: StatusPlaying}, recv(t, sub.StatusChanged))

	require.NoError(t, s.Pause())
	assert.Equal(t, StatusPaused, s.Status())

	assert.Equal(t, []engine.State{engine.StateNull, engine.StatePaused, engine.StatePlaying, engine.StatePaused}, e.States())
}

func TestSession_LoadRefused(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	e.SetStateReturn(engine.StateChangeFailure)
	s := newTestSession(t, e)
	defer s.Close()

	require.ErrorIs(t, s.Load(testURI), ErrStateChange)
	assert.Equal(t, StatusUnloaded, s.Status())
	assert.Equal(t, "", s.URI())
	require.ErrorIs(t, s.Play(), ErrNotLoaded)

	// a late preroll of the refused resource is not probed.
	sub := s.Subscribe()
	e.Prerolled()
	none(t, sub.LoadComplete)
}

func TestSession_Unload(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	e.SetDuration(3*time.Second, true)
	s := newTestSession(t, e)
	defer s.Close()

	sub := s.Subscribe()
	require.NoError(t, s.Load(testURI))
	e.Prerolled()
	recv(t, sub.LoadComplete)

	_, ok := s.MediaInfo()
	require.True(t, ok)

	assert.Equal(t, 3*time.Second, s.Duration())

	require.NoError(t, s.Unload())
	_, ok = s.MediaInfo()
	assert.False(t, ok)
	_, ok = s.Tag()
	assert.False(t, ok)
	assert.Equal(t, StatusUnloaded, s.Status())
	assert.Equal(t, engine.StateNull, e.States()[len(e.States())-1])
	assert.Equal(t, DurationUnknown, s.Duration())
	e.QueuePositions(time.Second)
	assert.Equal(t, PositionUnknown, s.Position())

	// unloading twice is harmless.
	require.NoError(t, s.Unload())
}

func TestSession_Duration(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	assert.Equal(t, DurationUnknown, s.Duration())

	e.SetDuration(90*time.Second, true)
	assert.Equal(t, 90*time.Second, s.Duration())
}

func TestSession_Position(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e, WithStateChangeTimeout(time.Second))
	defer s.Close()

	e.QueuePositions(time.Second)
	assert.Equal(t, time.Second, s.Position())
	assert.Equal(t, 0, e.Waits())

	// the first query fails while a state change is in flight.
	e.QueuePositions(nil, 2*time.Second)
	assert.Equal(t, 2*time.Second, s.Position())
	assert.Equal(t, 1, e.Waits())

	assert.Equal(t, PositionUnknown, s.Position())
	assert.Equal(t, 2, e.Waits())
}

func TestSession_Seek(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	tests := []struct {
		name      string
		positions []interface{}
		offset    time.Duration
		mode      SeekMode
		rate      float64
		seekOK    bool
		want      *enginetest.SeekCall
		err       error
	}{
		{
			name:   "absolute",
			offset: 5 * time.Second,
			mode:   SeekAbsolute,
			rate:   1.5,
			seekOK: true,
			want:   &enginetest.SeekCall{Rate: 1.5, Position: 5 * time.Second},
		},
		{
			name:      "relative",
			positions: []interface{}{3 * time.Second},
			offset:    2 * time.Second,
			mode:      SeekRelative,
			rate:      1,
			seekOK:    true,
			want:      &enginetest.SeekCall{Rate: 1, Position: 5 * time.Second},
		},
		{
			name:      "relative before start",
			positions: []interface{}{3 * time.Second},
			offset:    -10 * time.Second,
			mode:      SeekRelative,
			rate:      1,
			seekOK:    true,
			want:      &enginetest.SeekCall{Rate: 1, Position: 0},
		},
		{
			name:   "absolute negative",
			offset: -time.Second,
			mode:   SeekAbsolute,
			rate:   -1,
			seekOK: true,
			want:   &enginetest.SeekCall{Rate: -1, Position: 0},
		},
		{
			name:   "relative without position",
			offset: time.Second,
			mode:   SeekRelative,
			rate:   1,
			seekOK: true,
			err:    ErrPositionUnknown,
		},
		{
			name:   "zero rate",
			offset: time.Second,
			mode:   SeekAbsolute,
			rate:   0,
			seekOK: true,
			err:    ErrInvalidRate,
		},
		{
			name:   "refused",
			offset: time.Second,
			mode:   SeekAbsolute,
			rate:   1,
			seekOK: false,
			want:   &enginetest.SeekCall{Rate: 1, Position: time.Second},
			err:    ErrSeek,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := enginetest.New()
			e.QueuePositions(tt.positions...)
			e.SetSeekOK(tt.seekOK)
			s := newTestSession(t, e)
			defer s.Close()

			err := s.Seek(tt.offset, tt.mode, tt.rate)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}

			seeks := e.Seeks()
			if tt.want == nil {
				assert.Empty(t, seeks)
				return
			}
			require.Len(t, seeks, 1)
			assert.Equal(t, *tt.want, seeks[0])
			if tt.err == nil {
				assert.Equal(t, tt.rate, s.Rate())
			} else {
				assert.Equal(t, 1.0, s.Rate())
			}
		})
	}
}

func TestSession_SetSpeed(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	assert.Equal(t, 1.0, s.Rate())

	e.QueuePositions(4 * time.Second)
	require.NoError(t, s.SetSpeed(2))
	assert.Equal(t, []enginetest.SeekCall{{Rate: 2, Position: 4 * time.Second}}, e.Seeks())
	assert.Equal(t, 2.0, s.Rate())

	require.ErrorIs(t, s.SetSpeed(0), ErrInvalidRate)
	require.ErrorIs(t, s.SetSpeed(1), ErrPositionUnknown)
	assert.Equal(t, 2.0, s.Rate())
}

func TestSession_SeekToTrack(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	// tags count tracks from 1, the engine from 0.
	require.NoError(t, s.SeekToTrack(3, 1))
	require.NoError(t, s.SeekToTrack(1, 2))
	assert.Equal(t, []enginetest.SeekCall{{Rate: 1, Track: 2}, {Rate: 2, Track: 0}}, e.Seeks())
	assert.Equal(t, 2.0, s.Rate())

	require.ErrorIs(t, s.SeekToTrack(0, 1), ErrInvalidTrack)
	require.ErrorIs(t, s.SeekToTrack(-2, 1), ErrInvalidTrack)
	assert.Len(t, e.Seeks(), 2)

	e.SetSeekOK(false)
	require.ErrorIs(t, s.SeekToTrack(4, 1), ErrSeek)
	require.ErrorIs(t, s.SeekToTrack(4, 0), ErrInvalidRate)
	assert.Equal(t, 2.0, s.Rate())
}

func TestSession_Volume(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	assert.Equal(t, 100, s.Volume())

	for _, tt := range []struct {
		set, want int
		engine    float64
	}{
		{42, 42, 0.42},
		{150, 100, 1},
		{-3, 0, 0},
		{0, 0, 0},
		{100, 100, 1},
	} {
		require.NoError(t, s.SetVolume(tt.set))
		assert.Equal(t, tt.want, s.Volume(), "set %d", tt.set)
		assert.InDelta(t, tt.engine, e.Volume(), 1e-9, "set %d", tt.set)
	}
}

func TestSession_Visualization(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	e.SetVisualizations(
		engine.Visualization{Name: "goom", LongName: "GOOM: what a GOOM!"},
		engine.Visualization{Name: "wavescope", LongName: "Waveform oscilloscope"},
	)
	s := newTestSession(t, e)
	defer s.Close()

	sub := s.Subscribe()

	assert.Equal(t, []string{"GOOM: what a GOOM!", "Waveform oscilloscope"}, s.Visualizations())

	require.NoError(t, s.SetVisualization("GOOM: what a GOOM!"))
	assert.Equal(t, "goom", e.ActiveVisualization())

	require.NoError(t, s.SetVisualization("wavescope"))
	assert.Equal(t, "wavescope", e.ActiveVisualization())

	// unknown names leave the current plugin in place.
	require.NoError(t, s.SetVisualization("no such plugin"))
	assert.Equal(t, "wavescope", e.ActiveVisualization())
	none(t, sub.Error)
}

func TestSession_WindowHandle(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e, WithWindowHandle(0x42))
	defer s.Close()

	assert.Equal(t, uintptr(0x42), e.WindowHandle())

	require.NoError(t, s.SetWindowHandle(7))
	assert.Equal(t, uintptr(7), e.WindowHandle())
}

func TestSession_Closed(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	sub := s.Subscribe()

	require.NoError(t, s.Load(testURI))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, e.Closed())

	recv(t, sub.Done)
	recv(t, s.Subscribe().Done)

	require.ErrorIs(t, s.Load(testURI), ErrClosed)
	require.ErrorIs(t, s.Play(), ErrClosed)
	require.ErrorIs(t, s.Pause(), ErrClosed)
	require.ErrorIs(t, s.Unload(), ErrClosed)
	require.ErrorIs(t, s.Seek(0, SeekAbsolute, 1), ErrClosed)
	require.ErrorIs(t, s.SetSpeed(1), ErrClosed)
	require.ErrorIs(t, s.SeekToTrack(1, 1), ErrClosed)
	require.ErrorIs(t, s.SetVolume(50), ErrClosed)
	require.ErrorIs(t, s.SetVisualization("goom"), ErrClosed)
	require.ErrorIs(t, s.SetWindowHandle(1), ErrClosed)

	assert.Equal(t, DurationUnknown, s.Duration())
	assert.Equal(t, PositionUnknown, s.Position())
	assert.Equal(t, -1, s.Volume())
	assert.Equal(t, StatusUnloaded, s.Status())
	assert.Nil(t, s.Visualizations())
	_, ok := s.MediaInfo()
	assert.False(t, ok)

	// messages posted after close are dropped without blocking.
	e.Prerolled()
}

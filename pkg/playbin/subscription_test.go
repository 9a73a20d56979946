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

func TestSubscription_Fanout(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	a := s.Subscribe()
	b := s.Subscribe()

	e.Emit(engine.Message{Type: engine.MessageEOS})
	recv(t, a.EndOfStream)
	recv(t, b.EndOfStream)

	s.Unsubscribe(a)
	recv(t, a.Done)

	e.Emit(engine.Message{Type: engine.MessageEOS})
	recv(t, b.EndOfStream)
	none(t, a.EndOfStream)

	// unsubscribing twice is harmless.
	s.Unsubscribe(a)
}

func TestSubscription_SlowSubscriber(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	e := enginetest.New()
	s := newTestSession(t, e)
	defer s.Close()

	slow := s.Subscribe()
	fast := s.Subscribe()

	for i := 0; i < 2*eventBufferSize; i++ {
		e.Emit(engine.Message{Type: engine.MessageBuffering, Percent: i})
		assert.Equal(t, i, recv(t, fast.Buffering).Percent)
	}

	require.Eventually(t, func() bool { return len(slow.Buffering) == eventBufferSize }, time.Second, time.Millisecond)
	assert.Equal(t, 0, (<-slow.Buffering).Percent)
}

func TestSubscription_Send(t *testing.T) {
	sub := newSubscription()

	sub.send(EndOfStream{})
	sub.send(ErrorEvent{Err: &Error{Kind: ErrorEngine}})
	sub.send(Buffering{Percent: 10})
	sub.send(LoadComplete{Info: newMediaInfo()})
	sub.send(TagEvent{Tag: Tag{TrackCount: 2}})
	sub.send(StatusChange{Previous: StatusLoaded, Current: StatusPlaying})

	assert.Len(t, sub.EndOfStream, 1)
	assert.Len(t, sub.Error, 1)
	assert.Len(t, sub.Buffering, 1)
	assert.Len(t, sub.LoadComplete, 1)
	assert.Len(t, sub.Tag, 1)
	assert.Len(t, sub.StatusChanged, 1)

	sub.close()
	_, open := <-sub.Done
	assert.False(t, open)
}

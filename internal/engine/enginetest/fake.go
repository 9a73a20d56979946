// Package enginetest provides an in-memory engine.Engine for tests.
package enginetest

import (
	"context"
	"sync"
	"time"

	"github.com/muxable/playbin/internal/engine"
)

// SeekCall records one Seek or SeekTrack request. Track is the zero-based
// index the engine received.
type SeekCall struct {
	Rate     float64
	Position time.Duration
	Track    int
}

// DiscoverResult is what the fake discoverer answers.
type DiscoverResult struct {
	Duration time.Duration
	Err      error
	// Block makes Discover wait for the context to be done.
	Block bool
}

// Engine is a scriptable engine. The Set* methods configure its answers and
// the remaining accessors report what the session asked of it.
type Engine struct {
	mu sync.Mutex

	name    string
	handler func(engine.Message)

	uri        string
	states     []engine.State
	volume     float64
	closed     bool
	handle     uintptr
	vis        string
	seeks      []SeekCall
	waits      int
	discovered []string

	stateReturn  engine.StateChangeReturn
	duration     time.Duration
	hasDuration  bool
	positions    []position
	currentVideo int
	currentAudio int
	caps         []engine.Structure
	capsErr      error
	visuals      []engine.Visualization
	seekOK       bool
	discover     DiscoverResult
}

type position struct {
	value time.Duration
	ok    bool
}

// New returns a fake with one audio and no video stream, accepted state
// changes and seeks.
func New() *Engine {
	return &Engine{
		stateReturn:  engine.StateChangeAsync,
		currentVideo: -1,
		currentAudio: 0,
		seekOK:       true,
		volume:       1,
	}
}

// Factory returns an engine.Factory handing out e.
func (e *Engine) Factory() engine.Factory {
	return func(name string, handler func(engine.Message)) (engine.Engine, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.name = name
		e.handler = handler
		return e, nil
	}
}

// Emit delivers m to the registered handler, as the bus loop would.
func (e *Engine) Emit(m engine.Message) {
	e.mu.Lock()
	h := e.handler
	e.mu.Unlock()
	if h != nil {
		h(m)
	}
}

// Prerolled emits the messages playbin posts when it reaches PAUSED.
func (e *Engine) Prerolled() {
	e.Emit(engine.Message{Type: engine.MessageStateChanged, FromPipeline: true, OldState: engine.StateReady, NewState: engine.StatePaused})
	e.Emit(engine.Message{Type: engine.MessageAsyncDone, FromPipeline: true})
}

func (e *Engine) SetStateReturn(r engine.StateChangeReturn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateReturn = r
}

func (e *Engine) SetDuration(d time.Duration, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.duration, e.hasDuration = d, ok
}

// QueuePositions scripts the answers of the next position queries. Once the
// queue is empty, queries fail.
func (e *Engine) QueuePositions(values ...interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range values {
		switch v := v.(type) {
		case time.Duration:
			e.positions = append(e.positions, position{value: v, ok: true})
		case nil:
			e.positions = append(e.positions, position{})
		}
	}
}

func (e *Engine) SetStreams(video, audio int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentVideo, e.currentAudio = video, audio
}

func (e *Engine) SetCaps(caps []engine.Structure, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caps, e.capsErr = caps, err
}

func (e *Engine) SetVisualizations(v ...engine.Visualization) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visuals = v
}

func (e *Engine) SetSeekOK(ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seekOK = ok
}

func (e *Engine) SetDiscover(r DiscoverResult) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.discover = r
}

func (e *Engine) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

func (e *Engine) URI() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.uri
}

// States returns every state requested so far.
func (e *Engine) States() []engine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.State(nil), e.states...)
}

func (e *Engine) Seeks() []SeekCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]SeekCall(nil), e.seeks...)
}

func (e *Engine) Waits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waits
}

func (e *Engine) ActiveVisualization() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.vis
}

func (e *Engine) WindowHandle() uintptr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle
}

// Discovered returns the URIs passed to Discover.
func (e *Engine) Discovered() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.discovered...)
}

func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) SetURI(uri string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.uri = uri
}

func (e *Engine) CurrentURI() string {
	return e.URI()
}

func (e *Engine) SetState(state engine.State) engine.StateChangeReturn {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states = append(e.states, state)
	if state == engine.StateNull {
		return engine.StateChangeSuccess
	}
	return e.stateReturn
}

func (e *Engine) WaitForStateChange(timeout time.Duration) engine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waits++
	if len(e.states) == 0 {
		return engine.StateNull
	}
	return e.states[len(e.states)-1]
}

// stopped reports whether the last requested state is NULL. Like a real
// element, a stopped fake answers no queries.
func (e *Engine) stopped() bool {
	return len(e.states) > 0 && e.states[len(e.states)-1] == engine.StateNull
}

func (e *Engine) QueryDuration() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped() {
		return 0, false
	}
	return e.duration, e.hasDuration
}

func (e *Engine) QueryPosition() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped() || len(e.positions) == 0 {
		return 0, false
	}
	p := e.positions[0]
	e.positions = e.positions[1:]
	return p.value, p.ok
}

func (e *Engine) Seek(rate float64, position time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seeks = append(e.seeks, SeekCall{Rate: rate, Position: position})
	return e.seekOK
}

func (e *Engine) SeekTrack(rate float64, track int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seeks = append(e.seeks, SeekCall{Rate: rate, Track: track})
	return e.seekOK
}

func (e *Engine) SetVolume(volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = volume
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Engine) CurrentVideo() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentVideo
}

func (e *Engine) CurrentAudio() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentAudio
}

func (e *Engine) VideoSinkCaps() ([]engine.Structure, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps, e.capsErr
}

func (e *Engine) Visualizations() []engine.Visualization {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Visualization(nil), e.visuals...)
}

func (e *Engine) SetVisualization(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, v := range e.visuals {
		if v.Name == name || v.LongName == name {
			e.vis = v.Name
			return nil
		}
	}
	return engine.ErrVisualizationNotFound
}

func (e *Engine) SetWindowHandle(handle uintptr) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handle = handle
}

func (e *Engine) Discover(ctx context.Context, uri string, timeout time.Duration) (time.Duration, error) {
	e.mu.Lock()
	e.discovered = append(e.discovered, uri)
	r := e.discover
	e.mu.Unlock()

	if r.Block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return r.Duration, r.Err
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

var _ engine.Engine = (*Engine)(nil)

// Package playbin exposes a playbin element as a playback session.
//
// A Session forwards commands to the element and turns its bus messages into
// events delivered through Subscriptions. Bus messages are handed from the
// engine's loop thread to a single event goroutine that owns every piece of
// cached state (status, media info, tag, pending discovery); commands read and
// update that state by running closures on the same goroutine.
package playbin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

const inboxSize = 64

type probeState int

const (
	probeInactive probeState = iota
	probeIdle
	probeRunning
	probeDiscovering
	probeDone
	probeFailed
)

type discoveryTask struct {
	cancel context.CancelFunc
}

// Session owns one playback element. It is created by Open or New and is
// unusable after Close.
type Session struct {
	id   uuid.UUID
	opts options

	mu     sync.RWMutex
	engine engine.Engine

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	inbox  chan engine.Message
	ops    chan func()

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool

	// owned by the event goroutine.
	status    Status
	uri       string
	rate      float64
	info      *MediaInfo
	tag       *Tag
	probe     probeState
	discovery *discoveryTask
}

// New creates a session on an engine built by factory.
func New(factory engine.Factory, opts ...Option) (*Session, error) {
	o := options{
		discoveryTimeout:   DefaultDiscoveryTimeout,
		stateChangeTimeout: DefaultStateChangeTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:     uuid.New(),
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
		inbox:  make(chan engine.Message, inboxSize),
		ops:    make(chan func()),
		rate:   1,
	}

	e, err := factory(s.id.String(), s.post)
	if err != nil {
		cancel()
		return nil, err
	}
	s.engine = e
	if o.windowHandle != 0 {
		e.SetWindowHandle(o.windowHandle)
	}

	s.wg.Add(1)
	go s.run()

	zap.L().Debug("session opened", zap.String("id", s.id.String()))
	return s, nil
}

// ID identifies the session in logs; it is also the element name.
func (s *Session) ID() string {
	return s.id.String()
}

// Close stops the element, cancels a pending discovery and ends every
// subscription. Further commands return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	e := s.engine
	s.engine = nil
	s.mu.Unlock()
	if e == nil {
		return nil
	}

	s.cancel()
	s.wg.Wait()
	err := e.Close()

	s.subsMu.Lock()
	for _, sub := range s.subs {
		sub.close()
	}
	s.subs = nil
	s.closed = true
	s.subsMu.Unlock()

	zap.L().Debug("session closed", zap.String("id", s.id.String()))
	return err
}

// Subscribe registers a new event listener. Subscribing to a closed session
// returns a subscription whose Done channel is already closed.
func (s *Session) Subscribe() *Subscription {
	sub := newSubscription()
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	return sub
}

// Unsubscribe removes sub and closes its Done channel.
func (s *Session) Unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, other := range s.subs {
		if other == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

func (s *Session) publish(event interface{}) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, sub := range s.subs {
		sub.send(event)
	}
}

// with runs fn against the live engine, or returns ErrClosed.
func (s *Session) with(fn func(e engine.Engine) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return ErrClosed
	}
	return fn(s.engine)
}

// post is the engine's message handler. It runs on the engine loop thread.
func (s *Session) post(m engine.Message) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

// do runs fn on the event goroutine and waits for it. It returns false if
// the session is closed.
func (s *Session) do(fn func()) bool {
	done := make(chan struct{})
	select {
	case s.ops <- func() {
		fn()
		close(done)
	}:
	case <-s.ctx.Done():
		return false
	}
	<-done
	return true
}

// submit queues fn on the event goroutine without waiting.
func (s *Session) submit(fn func()) {
	select {
	case s.ops <- fn:
	case <-s.ctx.Done():
	}
}

func (s *Session) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.cancelDiscovery()
			return
		case m := <-s.inbox:
			s.dispatch(m)
		case op := <-s.ops:
			op()
		}
	}
}

// drain drops bus messages queued for a resource that is gone.
func (s *Session) drain() {
	for {
		select {
		case m := <-s.inbox:
			zap.L().Debug("dropping stale message", zap.String("id", s.id.String()), zap.Stringer("type", m.Type))
		default:
			return
		}
	}
}

func (s *Session) setStatus(status Status) {
	if s.status == status {
		return
	}
	change := StatusChange{Previous: s.status, Current: status}
	s.status = status
	s.publish(change)
}

// reset forgets everything known about the current resource.
func (s *Session) reset(next probeState) {
	s.cancelDiscovery()
	s.drain()
	s.info = nil
	s.tag = nil
	s.probe = next
}

func (s *Session) cancelDiscovery() {
	if s.discovery != nil {
		s.discovery.cancel()
		s.discovery = nil
	}
}

func (s *Session) stateChangeTimeout() time.Duration {
	return s.opts.stateChangeTimeout
}

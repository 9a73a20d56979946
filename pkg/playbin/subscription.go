package playbin

const eventBufferSize = 16

// Subscription delivers session events. Sends never block the session: when
// a channel buffer is full the event is dropped for that subscriber.
type Subscription struct {
	EndOfStream   <-chan EndOfStream
	Error         <-chan ErrorEvent
	Buffering     <-chan Buffering
	LoadComplete  <-chan LoadComplete
	Tag           <-chan TagEvent
	StatusChanged <-chan StatusChange
	Done          <-chan struct{}

	eosCh    chan EndOfStream
	errorCh  chan ErrorEvent
	bufferCh chan Buffering
	loadCh   chan LoadComplete
	tagCh    chan TagEvent
	statusCh chan StatusChange
	doneCh   chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		eosCh:    make(chan EndOfStream, eventBufferSize),
		errorCh:  make(chan ErrorEvent, eventBufferSize),
		bufferCh: make(chan Buffering, eventBufferSize),
		loadCh:   make(chan LoadComplete, eventBufferSize),
		tagCh:    make(chan TagEvent, eventBufferSize),
		statusCh: make(chan StatusChange, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.EndOfStream = s.eosCh
	s.Error = s.errorCh
	s.Buffering = s.bufferCh
	s.LoadComplete = s.loadCh
	s.Tag = s.tagCh
	s.StatusChanged = s.statusCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) send(event interface{}) {
	switch e := event.(type) {
	case EndOfStream:
		select {
		case s.eosCh <- e:
		default:
		}
	case ErrorEvent:
		select {
		case s.errorCh <- e:
		default:
		}
	case Buffering:
		select {
		case s.bufferCh <- e:
		default:
		}
	case LoadComplete:
		select {
		case s.loadCh <- e:
		default:
		}
	case TagEvent:
		select {
		case s.tagCh <- e:
		default:
		}
	case StatusChange:
		select {
		case s.statusCh <- e:
		default:
		}
	}
}

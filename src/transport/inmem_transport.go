package transport

import "github.com/mosaicnetworks/glomers/src/message"

type inmemItem[P message.Payload] struct {
	env message.Envelope[P]
	err error
}

// InmemSource implements Source over a FIFO queue. Once the queue is empty it
// reports ErrClosed.
type InmemSource[P message.Payload] struct {
	queue []inmemItem[P]
	reads int
}

// NewInmemSource returns a source that yields envs in order.
func NewInmemSource[P message.Payload](envs ...message.Envelope[P]) *InmemSource[P] {
	s := &InmemSource[P]{}
	for _, env := range envs {
		s.Push(env)
	}
	return s
}

// Push queues an envelope.
func (s *InmemSource[P]) Push(env message.Envelope[P]) {
	s.queue = append(s.queue, inmemItem[P]{env: env})
}

// PushError queues an error, typically ErrQuit or a *Fault, returned by the
// matching call to Next.
func (s *InmemSource[P]) PushError(err error) {
	s.queue = append(s.queue, inmemItem[P]{err: err})
}

// Len returns the number of queued items.
func (s *InmemSource[P]) Len() int { return len(s.queue) }

// Reads returns the number of calls to Next so far.
func (s *InmemSource[P]) Reads() int { return s.reads }

// Next implements Source.
func (s *InmemSource[P]) Next() (message.Envelope[P], error) {
	s.reads++

	if len(s.queue) == 0 {
		var env message.Envelope[P]
		return env, ErrClosed
	}

	item := s.queue[0]
	s.queue = s.queue[1:]

	return item.env, item.err
}

// InmemSink implements Sink by recording envelopes.
type InmemSink[P message.Payload] struct {
	written []message.Envelope[P]
	err     error
}

// NewInmemSink returns an empty InmemSink.
func NewInmemSink[P message.Payload]() *InmemSink[P] {
	return &InmemSink[P]{}
}

// FailWith makes every following Write fail with an IOFault wrapping err. A
// nil err restores normal operation.
func (s *InmemSink[P]) FailWith(err error) {
	s.err = err
}

// Written returns the envelopes written so far.
func (s *InmemSink[P]) Written() []message.Envelope[P] {
	return s.written
}

// Write implements Sink.
func (s *InmemSink[P]) Write(env message.Envelope[P]) error {
	if s.err != nil {
		return NewFault(IOFault, s.err)
	}
	s.written = append(s.written, env)
	return nil
}

package transport

import "github.com/mosaicnetworks/glomers/src/message"

// Source yields envelopes from an input stream.
type Source[P message.Payload] interface {
	// Next blocks until the next envelope is available. It returns ErrClosed
	// or ErrQuit when the stream ends, and a *Fault on failure.
	Next() (message.Envelope[P], error)
}

// Sink emits envelopes to an output stream.
type Sink[P message.Payload] interface {
	// Write encodes env as one line and flushes it. It returns a *Fault on
	// failure.
	Write(env message.Envelope[P]) error
}

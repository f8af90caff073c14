// Package transport turns a byte stream into a sequence of envelopes and back.
//
// A Source yields the next envelope read from its input, or one of two
// signals: ErrClosed when the input reached end of stream, ErrQuit when an
// operator typed a quit token. A Sink writes one envelope per line and flushes
// it immediately. Failures of either are reported as a *Fault.
//
// LineSource and LineSink work over any io.Reader and io.Writer, typically the
// standard input and output of the node process. InmemSource and InmemSink are
// queues used in tests.
package transport

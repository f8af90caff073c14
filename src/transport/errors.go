package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed signals that the input stream was closed by the producer.
	ErrClosed = errors.New("input stream closed")

	// ErrQuit signals that a quit token was read from the input.
	ErrQuit = errors.New("quit requested")
)

// IsSignal reports whether err is one of the termination signals ErrClosed and
// ErrQuit.
func IsSignal(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, ErrQuit)
}

// FaultKind classifies a Fault.
type FaultKind uint32

const (
	// MalformedInput is a line that could not be decoded into an envelope.
	MalformedInput FaultKind = iota
	// IOFault is a failure of the underlying stream.
	IOFault
	// SerializationFault is an envelope that could not be encoded.
	SerializationFault
)

func (k FaultKind) String() string {
	switch k {
	case MalformedInput:
		return "Malformed Input"
	case IOFault:
		return "IO Fault"
	case SerializationFault:
		return "Serialization Fault"
	default:
		return "Unknown"
	}
}

// Fault is an error reported by a Source or a Sink.
type Fault struct {
	Kind FaultKind
	// Line holds the offending input for MalformedInput faults.
	Line string
	Err  error
}

// NewFault returns a Fault of the given kind wrapping err.
func NewFault(kind FaultKind, err error) *Fault {
	return &Fault{Kind: kind, Err: err}
}

func (f *Fault) Error() string {
	if f.Line != "" {
		return fmt.Sprintf("%s, %q: %v", f.Kind, f.Line, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// IsFault reports whether err wraps a Fault of the given kind.
func IsFault(err error, kind FaultKind) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == kind
}

package node

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInitMsgID is the value the node panics with when an init
	// request carries no msg_id. A compliant harness never sends one.
	ErrMissingInitMsgID = errors.New("init request without msg_id")

	// ErrAlreadyInitialized is returned for a repeated init request under the
	// ReinitReject policy.
	ErrAlreadyInitialized = errors.New("node already initialized")

	// ErrTooManyFaults is returned by Run when MaxIOFaults consecutive I/O
	// faults occurred.
	ErrTooManyFaults = errors.New("too many consecutive I/O faults")

	// ErrNoMsgID is returned by Reply when the request has no msg_id to
	// answer.
	ErrNoMsgID = errors.New("request has no msg_id")

	// ErrNotInitialized is returned by Send before the init handshake, when
	// the node has no identifier to send from.
	ErrNotInitialized = errors.New("node not initialized")
)

// Phase identifies the part of a step that failed.
type Phase string

// Phases of a step.
const (
	PhaseRead      Phase = "read"
	PhaseHandshake Phase = "handshake"
	PhaseHandle    Phase = "handle"
)

// StepError is returned by RunStep. It wraps the error of the source, the
// sink or the handler.
type StepError struct {
	Phase Phase
	// Type is the discriminant of the envelope being processed, empty in the
	// read phase.
	Type string
	Err  error
}

func (e *StepError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s %q: %v", e.Phase, e.Type, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

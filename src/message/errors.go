package message

import (
	"errors"
	"fmt"
)

// MalformedErrType classifies why a line could not be decoded.
type MalformedErrType uint32

const (
	// InvalidJSON means the bytes are not a JSON object of the envelope shape.
	InvalidJSON MalformedErrType = iota
	// MissingField means src, dest, body or body.type is absent.
	MissingField
	// UnknownType means body.type is not registered in the catalog.
	UnknownType
	// InvalidPayload means the payload fields do not match the variant.
	InvalidPayload
)

func (t MalformedErrType) String() string {
	switch t {
	case InvalidJSON:
		return "Invalid JSON"
	case MissingField:
		return "Missing Field"
	case UnknownType:
		return "Unknown Type"
	case InvalidPayload:
		return "Invalid Payload"
	default:
		return "Unknown"
	}
}

// MalformedError is returned by Decode when the input does not follow the wire
// grammar.
type MalformedError struct {
	ErrType MalformedErrType
	Detail  string
	Err     error
}

func newMalformed(t MalformedErrType, detail string, err error) *MalformedError {
	return &MalformedError{
		ErrType: t,
		Detail:  detail,
		Err:     err,
	}
}

func (e *MalformedError) Error() string {
	m := fmt.Sprintf("malformed envelope: %s", e.ErrType)
	if e.Detail != "" {
		m += ", " + e.Detail
	}
	if e.Err != nil {
		m += ": " + e.Err.Error()
	}
	return m
}

func (e *MalformedError) Unwrap() error { return e.Err }

// IsMalformed reports whether err wraps a MalformedError.
func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}

// IsMalformedType reports whether err wraps a MalformedError of type t.
func IsMalformedType(err error, t MalformedErrType) bool {
	var m *MalformedError
	return errors.As(err, &m) && m.ErrType == t
}

package message

import "fmt"

// Envelope is one protocol message. It is immutable once constructed.
type Envelope[P Payload] struct {
	src       string
	dest      string
	msgID     *uint64
	inReplyTo *uint64
	payload   P
}

// ID returns an optional message identifier set to n, for use with New and
// NewReply.
func ID(n uint64) *uint64 {
	return &n
}

// New creates an outbound envelope that is not a reply. msgID may be nil.
func New[P Payload](src, dest string, msgID *uint64, payload P) Envelope[P] {
	return Envelope[P]{
		src:     src,
		dest:    dest,
		msgID:   copyID(msgID),
		payload: payload,
	}
}

// NewReply creates an envelope answering the message identified by replyTo.
func NewReply[P Payload](src, dest string, replyTo uint64, msgID *uint64, payload P) Envelope[P] {
	return Envelope[P]{
		src:       src,
		dest:      dest,
		msgID:     copyID(msgID),
		inReplyTo: ID(replyTo),
		payload:   payload,
	}
}

// Src returns the identifier of the sender.
func (e Envelope[P]) Src() string { return e.src }

// Dest returns the identifier of the intended receiver.
func (e Envelope[P]) Dest() string { return e.dest }

// MsgID returns the message identifier, if the sender set one.
func (e Envelope[P]) MsgID() (uint64, bool) {
	if e.msgID == nil {
		return 0, false
	}
	return *e.msgID, true
}

// InReplyTo returns the identifier of the message this envelope answers, if it
// is a reply.
func (e Envelope[P]) InReplyTo() (uint64, bool) {
	if e.inReplyTo == nil {
		return 0, false
	}
	return *e.inReplyTo, true
}

// IsReply reports whether in_reply_to is set.
func (e Envelope[P]) IsReply() bool { return e.inReplyTo != nil }

// Payload returns the typed body.
func (e Envelope[P]) Payload() P { return e.payload }

// Type returns the discriminant of the payload.
func (e Envelope[P]) Type() string {
	if any(e.payload) == nil {
		return ""
	}
	return e.payload.Type()
}

func (e Envelope[P]) String() string {
	s := fmt.Sprintf("%s->%s %s", e.src, e.dest, e.Type())
	if e.msgID != nil {
		s += fmt.Sprintf(" msg_id=%d", *e.msgID)
	}
	if e.inReplyTo != nil {
		s += fmt.Sprintf(" in_reply_to=%d", *e.inReplyTo)
	}
	return s
}

func copyID(id *uint64) *uint64 {
	if id == nil {
		return nil
	}
	return ID(*id)
}

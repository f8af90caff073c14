package node

import "github.com/mosaicnetworks/glomers/src/message"

// Handler processes the envelopes that are not part of the init handshake. It
// may emit any number of envelopes through the node's Send and Reply methods.
// A returned error is logged by Run, which then carries on with the next
// envelope.
type Handler[P message.Payload] interface {
	Handle(n *Node[P], env message.Envelope[P]) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[P message.Payload] func(n *Node[P], env message.Envelope[P]) error

// Handle implements Handler.
func (f HandlerFunc[P]) Handle(n *Node[P], env message.Envelope[P]) error {
	return f(n, env)
}

// Ignore returns a Handler that drops every envelope.
func Ignore[P message.Payload]() Handler[P] {
	return HandlerFunc[P](func(*Node[P], message.Envelope[P]) error {
		return nil
	})
}

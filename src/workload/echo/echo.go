// Package echo implements the echo workload: every echo request is answered
// with an echo_ok reply carrying the same text.
package echo

import (
	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/sirupsen/logrus"
)

// Discriminants of the workload's own variants.
const (
	TypeEcho   = "echo"
	TypeEchoOk = "echo_ok"
)

// Message is the payload family of the echo workload.
type Message interface {
	message.Payload
	isEchoMessage()
}

// Init is the init request.
type Init struct{ message.Init }

// InitOk is the init acknowledgement.
type InitOk struct{ message.InitOk }

// Echo asks the node to send Echo back.
type Echo struct {
	Echo string `json:"echo"`
}

// Type implements message.Payload.
func (Echo) Type() string { return TypeEcho }

// EchoOk is the answer to Echo.
type EchoOk struct {
	Echo string `json:"echo"`
}

// Type implements message.Payload.
func (EchoOk) Type() string { return TypeEchoOk }

func (*Init) isEchoMessage()   {}
func (*InitOk) isEchoMessage() {}
func (*Echo) isEchoMessage()   {}
func (*EchoOk) isEchoMessage() {}

// NewCatalog returns the catalog of the echo family.
func NewCatalog() *message.Catalog[Message] {
	return message.NewCatalog[Message]().MustRegister(
		func() Message { return &Init{} },
		func() Message { return &InitOk{} },
		func() Message { return &Echo{} },
		func() Message { return &EchoOk{} },
	)
}

// Handler answers echo requests.
type Handler struct{}

// NewHandler ...
func NewHandler() *Handler {
	return &Handler{}
}

// Handle implements node.Handler. Payloads other than Echo are ignored.
func (h *Handler) Handle(n *node.Node[Message], env message.Envelope[Message]) error {
	switch p := env.Payload().(type) {
	case *Echo:
		return n.Reply(env, &EchoOk{Echo: p.Echo})
	default:
		n.Logger().WithFields(logrus.Fields{
			"src":  env.Src(),
			"type": env.Type(),
		}).Debug("Ignoring")
		return nil
	}
}

// Package uniqueids implements the unique-ids workload: every generate request
// is answered with an identifier no other request, on any node, receives.
//
// The identifier is the node's id followed by the msg_id of the reply. Node
// ids are unique within the cluster and a node never reuses a msg_id, so no
// coordination is needed.
package uniqueids

import (
	"fmt"

	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/sirupsen/logrus"
)

// Discriminants of the workload's own variants.
const (
	TypeGenerate   = "generate"
	TypeGenerateOk = "generate_ok"
)

// Message is the payload family of the unique-ids workload.
type Message interface {
	message.Payload
	isUniqueIDsMessage()
}

// Init is the init request.
type Init struct{ message.Init }

// InitOk is the init acknowledgement.
type InitOk struct{ message.InitOk }

// Generate asks for a new identifier.
type Generate struct{}

// Type implements message.Payload.
func (Generate) Type() string { return TypeGenerate }

// GenerateOk carries a new identifier.
type GenerateOk struct {
	ID string `json:"id"`
}

// Type implements message.Payload.
func (GenerateOk) Type() string { return TypeGenerateOk }

func (*Init) isUniqueIDsMessage()       {}
func (*InitOk) isUniqueIDsMessage()     {}
func (*Generate) isUniqueIDsMessage()   {}
func (*GenerateOk) isUniqueIDsMessage() {}

// NewCatalog returns the catalog of the unique-ids family.
func NewCatalog() *message.Catalog[Message] {
	return message.NewCatalog[Message]().MustRegister(
		func() Message { return &Init{} },
		func() Message { return &InitOk{} },
		func() Message { return &Generate{} },
		func() Message { return &GenerateOk{} },
	)
}

// Handler answers generate requests.
type Handler struct{}

// NewHandler ...
func NewHandler() *Handler {
	return &Handler{}
}

// Handle implements node.Handler. Payloads other than Generate are ignored.
func (h *Handler) Handle(n *node.Node[Message], env message.Envelope[Message]) error {
	if _, ok := env.Payload().(*Generate); !ok {
		n.Logger().WithFields(logrus.Fields{
			"src":  env.Src(),
			"type": env.Type(),
		}).Debug("Ignoring")
		return nil
	}

	if _, ok := env.MsgID(); !ok {
		return fmt.Errorf("generate from %s: %w", env.Src(), node.ErrNoMsgID)
	}

	// Before the handshake the node answers as the request's destination.
	self, ok := n.NodeID()
	if !ok {
		self = env.Dest()
	}

	id := n.AllocateMessageID()

	return n.ReplyWithID(env, id, &GenerateOk{ID: NewID(self, id)})
}

// NewID returns the identifier handed out by node for its reply numbered
// msgID.
func NewID(node string, msgID uint64) string {
	return fmt.Sprintf("%s-%d", node, msgID)
}

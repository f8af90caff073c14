package node

import (
	"errors"
	"fmt"

	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/transport"
	"github.com/sirupsen/logrus"
)

// Node is a participant of the protocol. It reads envelopes from a Source,
// answers the init handshake itself and hands every other envelope to a
// Handler. Everything happens on the goroutine calling Run.
type Node[P message.Payload] struct {
	state

	conf   *Config
	logger *logrus.Entry

	catalog *message.Catalog[P]
	source  transport.Source[P]
	sink    transport.Sink[P]
	handler Handler[P]

	nodeID  string
	peerIDs []string

	nextMsgID uint64

	// consecutive I/O faults, reset by any step that sees none
	ioFaults int

	stats Stats
}

// NewNode is a factory method that returns a Node in the Unassigned state. A
// nil handler drops application envelopes.
func NewNode[P message.Payload](conf *Config,
	catalog *message.Catalog[P],
	source transport.Source[P],
	sink transport.Sink[P],
	handler Handler[P],
) *Node[P] {
	if handler == nil {
		handler = Ignore[P]()
	}

	return &Node[P]{
		conf:      conf,
		logger:    conf.Logger.WithField("prefix", "node"),
		catalog:   catalog,
		source:    source,
		sink:      sink,
		handler:   handler,
		nextMsgID: 1,
	}
}

// Init checks that the payload family supports the handshake.
func (n *Node[P]) Init() error {
	if err := n.catalog.Validate(); err != nil {
		return err
	}

	if n.conf.Reinit != ReinitOverwrite && n.conf.Reinit != ReinitReject {
		return fmt.Errorf("unknown reinit policy %q", n.conf.Reinit)
	}

	n.logger.WithFields(logrus.Fields{
		"types":         n.catalog.Types(),
		"max_io_faults": n.conf.MaxIOFaults,
		"reinit":        n.conf.Reinit,
	}).Debug("Init Node")

	return nil
}

// Run invokes the main loop of the node. It returns nil when the source
// signals the end of the input, and ErrTooManyFaults when the I/O fault limit
// is reached. Any other failure is logged and the loop continues.
func (n *Node[P]) Run() error {
	defer n.logStats()

	for {
		more, err := n.RunStep()
		if err != nil {
			n.logger.WithError(err).Error("Step")

			if n.conf.MaxIOFaults > 0 && n.ioFaults >= n.conf.MaxIOFaults {
				return fmt.Errorf("%w: %w", ErrTooManyFaults, err)
			}
			continue
		}

		if !more {
			n.logger.Debug("Stop")
			return nil
		}
	}
}

// RunStep reads and processes one envelope. It returns false when the source
// signalled the end of the input.
func (n *Node[P]) RunStep() (bool, error) {
	more, err := n.step()
	if !more {
		return false, nil
	}

	switch {
	case err == nil:
		n.ioFaults = 0
	case transport.IsFault(err, transport.IOFault):
		n.ioFaults++
		n.stats.Faults++
	case transport.IsFault(err, transport.MalformedInput):
		n.stats.Malformed++
	default:
		n.stats.Faults++
	}

	return true, err
}

func (n *Node[P]) step() (bool, error) {
	env, err := n.source.Next()
	if err != nil {
		if transport.IsSignal(err) {
			n.logger.WithField("signal", err).Debug("Source signal")
			return false, nil
		}
		return true, &StepError{Phase: PhaseRead, Err: err}
	}

	n.stats.Received++

	n.logger.WithFields(logrus.Fields{
		"src":  env.Src(),
		"type": env.Type(),
	}).Debug("Received")

	// Routing depends on the payload, not on the state: a non-init payload
	// goes to the handler even before the handshake.
	if ir, ok := any(env.Payload()).(message.InitRequester); ok {
		if err := n.handleInit(env, ir.InitRequest()); err != nil {
			return true, &StepError{Phase: PhaseHandshake, Type: env.Type(), Err: err}
		}
		return true, nil
	}

	if err := n.handler.Handle(n, env); err != nil {
		return true, &StepError{Phase: PhaseHandle, Type: env.Type(), Err: err}
	}
	n.stats.Handled++

	return true, nil
}

func (n *Node[P]) handleInit(env message.Envelope[P], init message.Init) error {
	reqID, ok := env.MsgID()
	if !ok {
		panic(fmt.Errorf("%w (from %s)", ErrMissingInitMsgID, env.Src()))
	}

	if n.getState() == Assigned {
		if n.conf.Reinit == ReinitReject {
			return fmt.Errorf("%w as %s", ErrAlreadyInitialized, n.nodeID)
		}
		n.logger.WithFields(logrus.Fields{
			"old_node_id": n.nodeID,
			"new_node_id": init.NodeID,
		}).Warn("Repeated init, overwriting identity")
	}

	n.nodeID = init.NodeID
	n.peerIDs = append([]string(nil), init.NodeIDs...)
	n.setState(Assigned)
	n.stats.Handshakes++

	n.logger = n.conf.Logger.WithFields(logrus.Fields{
		"prefix":  "node",
		"node_id": n.nodeID,
	})
	n.logger.WithField("node_ids", n.peerIDs).Info("Initialized")

	ack, err := n.catalog.NewInitOk()
	if err != nil {
		return err
	}

	reply := message.NewReply(env.Dest(), env.Src(), reqID, message.ID(n.AllocateMessageID()), ack)

	return n.write(reply)
}

// AllocateMessageID returns the next outbound message identifier. Identifiers
// start at 1 and are never reused.
func (n *Node[P]) AllocateMessageID() uint64 {
	id := n.nextMsgID
	n.nextMsgID++
	return id
}

// Send emits a new request to dest with a freshly allocated msg_id, which it
// returns. It fails with ErrNotInitialized before the handshake.
func (n *Node[P]) Send(dest string, payload P) (uint64, error) {
	src, ok := n.NodeID()
	if !ok {
		return 0, ErrNotInitialized
	}

	id := n.AllocateMessageID()
	return id, n.write(message.New(src, dest, message.ID(id), payload))
}

// Reply answers req with payload. The reply gets a freshly allocated msg_id.
// Before the handshake the reply is sent on behalf of req's destination.
func (n *Node[P]) Reply(req message.Envelope[P], payload P) error {
	if _, ok := req.MsgID(); !ok {
		return fmt.Errorf("replying to %s: %w", req, ErrNoMsgID)
	}
	return n.ReplyWithID(req, n.AllocateMessageID(), payload)
}

// ReplyWithID is Reply for handlers that need the reply's msg_id to build the
// payload. msgID must come from AllocateMessageID.
func (n *Node[P]) ReplyWithID(req message.Envelope[P], msgID uint64, payload P) error {
	reqID, ok := req.MsgID()
	if !ok {
		return fmt.Errorf("replying to %s: %w", req, ErrNoMsgID)
	}

	return n.write(message.NewReply(n.senderFor(req), req.Src(), reqID, message.ID(msgID), payload))
}

// senderFor returns the src of envelopes answering req.
func (n *Node[P]) senderFor(req message.Envelope[P]) string {
	if id, ok := n.NodeID(); ok {
		return id
	}
	return req.Dest()
}

func (n *Node[P]) write(env message.Envelope[P]) error {
	if err := n.sink.Write(env); err != nil {
		return err
	}
	n.stats.Sent++
	return nil
}

// NodeID returns the identifier assigned by the handshake.
func (n *Node[P]) NodeID() (string, bool) {
	if n.getState() != Assigned {
		return "", false
	}
	return n.nodeID, true
}

// PeerIDs returns a copy of the roster assigned by the handshake, the node
// itself included.
func (n *Node[P]) PeerIDs() ([]string, bool) {
	if n.getState() != Assigned {
		return nil, false
	}
	return append([]string(nil), n.peerIDs...), true
}

// State returns the lifecycle state.
func (n *Node[P]) State() State {
	return n.getState()
}

// Logger returns the node's logger, for use by handlers.
func (n *Node[P]) Logger() *logrus.Entry {
	return n.logger
}

// IsContractViolation reports whether a value recovered from a panic of the
// run loop is a protocol contract violation.
func IsContractViolation(r interface{}) bool {
	err, ok := r.(error)
	return ok && errors.Is(err, ErrMissingInitMsgID)
}

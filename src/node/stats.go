package node

import (
	"strconv"

	"github.com/sirupsen/logrus"
)

// Stats counts what went through a node.
type Stats struct {
	Received   uint64
	Sent       uint64
	Handled    uint64
	Handshakes uint64
	Malformed  uint64
	Faults     uint64
}

// Stats returns a snapshot of the counters.
func (n *Node[P]) Stats() Stats {
	return n.stats
}

// GetStats returns the counters and the identity as strings, keyed by name.
func (n *Node[P]) GetStats() map[string]string {
	s := n.stats
	id, _ := n.NodeID()
	peers, _ := n.PeerIDs()

	return map[string]string{
		"node_id":     id,
		"state":       n.getState().String(),
		"num_peers":   strconv.Itoa(len(peers)),
		"next_msg_id": strconv.FormatUint(n.nextMsgID, 10),
		"received":    strconv.FormatUint(s.Received, 10),
		"sent":        strconv.FormatUint(s.Sent, 10),
		"handled":     strconv.FormatUint(s.Handled, 10),
		"handshakes":  strconv.FormatUint(s.Handshakes, 10),
		"malformed":   strconv.FormatUint(s.Malformed, 10),
		"faults":      strconv.FormatUint(s.Faults, 10),
	}
}

func (n *Node[P]) logStats() {
	fields := logrus.Fields{}
	for k, v := range n.GetStats() {
		fields[k] = v
	}
	n.logger.WithFields(fields).Debug("Stats")
}

package uniqueids

import (
	"fmt"
	"testing"

	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/mosaicnetworks/glomers/src/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNode(t *testing.T, id string, envs ...message.Envelope[Message]) (*node.Node[Message], *transport.InmemSink[Message]) {
	source := transport.NewInmemSource[Message]()
	source.Push(message.New[Message]("c0", id, message.ID(1), &Init{message.Init{
		NodeID:  id,
		NodeIDs: []string{"n1", "n2"},
	}}))
	for _, env := range envs {
		source.Push(env)
	}

	sink := transport.NewInmemSink[Message]()
	n := node.NewNode[Message](node.TestConfig(t), NewCatalog(), source, sink, NewHandler())
	require.NoError(t, n.Init())

	return n, sink
}

func generate(dest string, msgID uint64) message.Envelope[Message] {
	return message.New[Message]("c1", dest, message.ID(msgID), &Generate{})
}

func TestGenerateIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)

	for _, id := range []string{"n1", "n2"} {
		requests := []message.Envelope[Message]{}
		for i := uint64(1); i <= 50; i++ {
			// both nodes see the same request ids
			requests = append(requests, generate(id, i))
		}

		n, sink := newTestNode(t, id, requests...)
		require.NoError(t, n.Run())

		written := sink.Written()
		require.Len(t, written, 51)

		for i, reply := range written[1:] {
			ok, isOk := reply.Payload().(*GenerateOk)
			require.True(t, isOk, "reply %d is a %s", i, reply.Type())

			msgID, _ := reply.MsgID()
			assert.Equal(t, NewID(id, msgID), ok.ID)

			replyTo, _ := reply.InReplyTo()
			assert.Equal(t, uint64(i+1), replyTo)

			assert.False(t, seen[ok.ID], "duplicate id %s", ok.ID)
			seen[ok.ID] = true
		}
	}

	assert.Len(t, seen, 100)
}

func TestGenerateWireFormat(t *testing.T) {
	n, sink := newTestNode(t, "n2", generate("n2", 7))
	require.NoError(t, n.Run())

	codec := message.NewJSONCodec(NewCatalog())
	data, err := codec.Encode(sink.Written()[1])
	require.NoError(t, err)

	assert.Equal(t, `{"src":"n2","dest":"c1","body":{"type":"generate_ok","msg_id":2,"in_reply_to":7,"id":"n2-2"}}`, string(data))

	env, err := codec.Decode([]byte(`{"src":"c1","dest":"n2","body":{"type":"generate","msg_id":3}}`))
	require.NoError(t, err)
	assert.IsType(t, &Generate{}, env.Payload())
}

func TestGenerateWithoutMsgID(t *testing.T) {
	n, sink := newTestNode(t, "n1")
	require.NoError(t, n.Run())

	err := NewHandler().Handle(n, message.New[Message]("c1", "n1", nil, &Generate{}))
	assert.ErrorIs(t, err, node.ErrNoMsgID)
	assert.Len(t, sink.Written(), 1)

	// no identifier was burnt
	assert.Equal(t, uint64(2), n.AllocateMessageID())
}

func TestNewID(t *testing.T) {
	for i, c := range []struct {
		node  string
		msgID uint64
	}{{"n1", 1}, {"n12", 345}} {
		assert.Equal(t, fmt.Sprintf("%s-%d", c.node, c.msgID), NewID(c.node, c.msgID), "case %d", i)
	}
}

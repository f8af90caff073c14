package journal

import (
	"errors"
	"io"
	"testing"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMessage interface {
	message.Payload
	isTestMessage()
}

type testInit struct{ message.Init }

type testInitOk struct{ message.InitOk }

type testEcho struct {
	Echo string `json:"echo"`
}

func (testEcho) Type() string { return "echo" }

func (*testInit) isTestMessage()   {}
func (*testInitOk) isTestMessage() {}
func (*testEcho) isTestMessage()   {}

func newTestCodec() message.Codec[testMessage] {
	return message.NewJSONCodec(message.NewCatalog[testMessage]().MustRegister(
		func() testMessage { return &testInit{} },
		func() testMessage { return &testInitOk{} },
		func() testMessage { return &testEcho{} },
	))
}

func TestSourceRecordsEnvelopes(t *testing.T) {
	env := message.New[testMessage]("c1", "n1", message.ID(3), &testEcho{Echo: "hi"})

	inner := transport.NewInmemSource(env)
	inner.PushError(transport.NewFault(transport.MalformedInput, errors.New("bad")))

	j := NewInmemJournal(0)
	source := NewSource[testMessage](inner, newTestCodec(), j, common.NewTestEntry(t, common.TestLogLevel))

	got, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, env, got)

	_, err = source.Next()
	assert.True(t, transport.IsFault(err, transport.MalformedInput))

	_, err = source.Next()
	assert.ErrorIs(t, err, transport.ErrClosed)

	require.Equal(t, uint64(1), j.Len())

	rec, err := j.Get(1)
	require.NoError(t, err)
	assert.Equal(t, In, rec.Direction)
	assert.Equal(t, "c1", rec.Src)
	assert.Equal(t, "n1", rec.Dest)
	assert.Equal(t, "echo", rec.Type)
	assert.Equal(t, message.ID(3), rec.MsgID)
	assert.Nil(t, rec.InReplyTo)
	assert.Equal(t, `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":3,"echo":"hi"}}`, string(rec.Raw))
	assert.False(t, rec.Time.IsZero())
}

func TestSinkRecordsWrittenEnvelopes(t *testing.T) {
	reply := message.NewReply[testMessage]("n1", "c1", 3, message.ID(1), &testInitOk{})

	inner := transport.NewInmemSink[testMessage]()
	j := NewInmemJournal(0)
	sink := NewSink[testMessage](inner, newTestCodec(), j, common.NewTestEntry(t, common.TestLogLevel))

	require.NoError(t, sink.Write(reply))

	inner.FailWith(io.ErrClosedPipe)
	err := sink.Write(reply)
	assert.True(t, transport.IsFault(err, transport.IOFault))

	require.Equal(t, uint64(1), j.Len(), "failed writes are not journaled")

	rec, err := j.Get(1)
	require.NoError(t, err)
	assert.Equal(t, Out, rec.Direction)
	assert.Equal(t, message.ID(3), rec.InReplyTo)
	assert.Equal(t, `{"src":"n1","dest":"c1","body":{"type":"init_ok","msg_id":1,"in_reply_to":3}}`, string(rec.Raw))
}

func TestJournalFailureIsNotFatal(t *testing.T) {
	env := message.New[testMessage]("c1", "n1", nil, &testEcho{Echo: "hi"})

	j := NewInmemJournal(0)
	require.NoError(t, j.Close())

	source := NewSource[testMessage](transport.NewInmemSource(env), newTestCodec(), j, common.NewTestEntry(t, common.TestLogLevel))
	sink := NewSink[testMessage](transport.NewInmemSink[testMessage](), newTestCodec(), j, common.NewTestEntry(t, common.TestLogLevel))

	got, err := source.Next()
	require.NoError(t, err)
	assert.Equal(t, env, got)

	assert.NoError(t, sink.Write(env))
	assert.Equal(t, uint64(0), j.Len())
}

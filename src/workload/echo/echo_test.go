package echo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/mosaicnetworks/glomers/src/transport"
)

func runLines(t *testing.T, input string) string {
	var output bytes.Buffer

	codec := message.NewJSONCodec(NewCatalog())
	logger := common.NewTestEntry(t, common.TestLogLevel)

	n := node.NewNode[Message](node.TestConfig(t),
		NewCatalog(),
		transport.NewLineSource[Message](strings.NewReader(input), codec, logger),
		transport.NewLineSink[Message](&output, codec, logger),
		NewHandler())
	if err := n.Init(); err != nil {
		t.Fatal(err)
	}
	if err := n.Run(); err != nil {
		t.Fatal(err)
	}

	return output.String()
}

func TestEcho(t *testing.T) {
	input := strings.Join([]string{
		`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`,
		`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"Please echo 35"}}`,
		`{"src":"c1","dest":"n1","body":{"type":"echo_ok","in_reply_to":9,"echo":"ignored"}}`,
		``,
	}, "\n")

	expected := strings.Join([]string{
		`{"src":"n1","dest":"c1","body":{"type":"init_ok","msg_id":1,"in_reply_to":1}}`,
		`{"src":"n1","dest":"c1","body":{"type":"echo_ok","msg_id":2,"in_reply_to":2,"echo":"Please echo 35"}}`,
		``,
	}, "\n")

	if output := runLines(t, input); output != expected {
		t.Fatalf("output should be\n%s\nnot\n%s", expected, output)
	}
}

func TestEchoBeforeInit(t *testing.T) {
	input := `{"src":"a","dest":"b","body":{"type":"echo","msg_id":4,"echo":"hi"}}` + "\n"
	expected := `{"src":"b","dest":"a","body":{"type":"echo_ok","msg_id":1,"in_reply_to":4,"echo":"hi"}}` + "\n"

	if output := runLines(t, input); output != expected {
		t.Fatalf("output should be\n%s\nnot\n%s", expected, output)
	}
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog()
	if err := catalog.Validate(); err != nil {
		t.Fatal(err)
	}

	expected := []string{TypeEcho, TypeEchoOk, message.TypeInit, message.TypeInitOk}
	types := catalog.Types()
	if strings.Join(types, ",") != strings.Join(expected, ",") {
		t.Fatalf("Types should be %v, not %v", expected, types)
	}
}

package glomers

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/mosaicnetworks/glomers/src/config"
	"github.com/mosaicnetworks/glomers/src/journal"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/mosaicnetworks/glomers/src/workload/echo"
	"github.com/mosaicnetworks/glomers/src/workload/uniqueids"
)

const (
	initLine = `{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1","n2"]}}`
	echoLine = `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"hi"}}`

	initOkLine = `{"src":"n1","dest":"c1","body":{"type":"init_ok","msg_id":1,"in_reply_to":1}}`
	echoOkLine = `{"src":"n1","dest":"c1","body":{"type":"echo_ok","msg_id":2,"in_reply_to":2,"echo":"hi"}}`
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func newTestEcho(t *testing.T, conf *config.Config, input string) (*Glomers[echo.Message], *bytes.Buffer) {
	var output bytes.Buffer

	engine := NewGlomers[echo.Message](conf, echo.NewCatalog(), echo.NewHandler())
	engine.SetStreams(strings.NewReader(input), &output)

	if err := engine.Init(); err != nil {
		t.Fatal(err)
	}

	return engine, &output
}

func TestRunEcho(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)

	engine, output := newTestEcho(t, conf, lines(initLine, echoLine))
	defer engine.Close()

	if err := engine.Run(); err != nil {
		t.Fatal(err)
	}

	if expected := lines(initOkLine, echoOkLine); output.String() != expected {
		t.Fatalf("output should be\n%s\nnot\n%s", expected, output.String())
	}

	// the in-mem journal is on by default
	if engine.Journal == nil || engine.Journal.Len() != 4 {
		t.Fatalf("the journal should hold 4 records")
	}
}

func TestRunWithBadgerJournal(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.Journal = true

	engine, _ := newTestEcho(t, conf, lines(initLine, echoLine, "quit"))
	if err := engine.Run(); err != nil {
		t.Fatal(err)
	}
	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}

	j, err := journal.NewBadgerJournal(conf.JournalDir, conf.Logger())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	expected := []struct {
		dir journal.Direction
		raw string
	}{
		{journal.In, initLine},
		{journal.Out, initOkLine},
		{journal.In, echoLine},
		{journal.Out, echoOkLine},
	}

	if j.Len() != uint64(len(expected)) {
		t.Fatalf("journal should hold %d records, not %d", len(expected), j.Len())
	}

	for i, e := range expected {
		rec, err := j.Get(uint64(i + 1))
		if err != nil {
			t.Fatal(err)
		}
		if rec.Direction != e.dir || string(rec.Raw) != e.raw {
			t.Fatalf("record %d should be %s %s, not %s %s", i+1, e.dir, e.raw, rec.Direction, rec.Raw)
		}
	}
}

func TestRunWithoutJournal(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.CacheSize = 0

	engine, _ := newTestEcho(t, conf, lines(initLine))
	defer engine.Close()

	if err := engine.Run(); err != nil {
		t.Fatal(err)
	}
	if engine.Journal != nil {
		t.Fatal("no journal should be created")
	}
}

func TestRunContractViolation(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)

	noMsgID := `{"src":"c1","dest":"n1","body":{"type":"init","node_id":"n1","node_ids":["n1"]}}`

	engine, output := newTestEcho(t, conf, lines(echoLine, noMsgID, echoLine))
	defer engine.Close()

	err := engine.Run()
	if !errors.Is(err, node.ErrMissingInitMsgID) {
		t.Fatalf("expected ErrMissingInitMsgID, got %v", err)
	}

	// the first echo was answered, nothing after the violation
	if strings.Count(output.String(), "\n") != 1 {
		t.Fatalf("only one reply should be written, got\n%s", output.String())
	}
}

func TestNew(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)

	engine, err := New(conf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := engine.(*Glomers[echo.Message]); !ok {
		t.Fatalf("default workload should be echo, got %T", engine)
	}

	conf.Workload = "unique-ids"
	engine, err = New(conf)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := engine.(*Glomers[uniqueids.Message]); !ok {
		t.Fatalf("expected a unique-ids engine, got %T", engine)
	}

	conf.Workload = "broadcast"
	if _, err := New(conf); err == nil {
		t.Fatal("an unknown workload should be rejected")
	}
}

func freeAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().String()
}

func TestRunOverTCP(t *testing.T) {
	conf := config.NewTestConfig(t, common.TestLogLevel)
	conf.ListenAddr = freeAddr(t)

	engine := NewGlomers[echo.Message](conf, echo.NewCatalog(), echo.NewHandler())

	done := make(chan error, 1)
	go func() {
		if err := engine.Init(); err != nil {
			done <- err
			return
		}
		done <- engine.Run()
	}()

	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", conf.ListenAddr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	fmt.Fprint(conn, lines(initLine, echoLine))

	reader := bufio.NewReader(conn)
	for _, expected := range []string{initOkLine, echoOkLine} {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}
		if line != expected+"\n" {
			t.Fatalf("reply should be %s, not %s", expected, line)
		}
	}

	fmt.Fprint(conn, "quit\n")

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for the node to stop")
	}

	if err := engine.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTailSkipsEvictedRecords(t *testing.T) {
	j := journal.NewInmemJournal(2)
	for i := 0; i < 5; i++ {
		if _, err := j.Append(journal.Record{Raw: []byte(echoLine)}); err != nil {
			t.Fatal(err)
		}
	}

	records, err := tail(j, tailSize)
	if err != nil {
		t.Fatal(err)
	}

	seqs := []uint64{}
	for _, rec := range records {
		seqs = append(seqs, rec.Seq)
	}
	if fmt.Sprint(seqs) != "[3 4 5]" {
		t.Fatalf("tail should hold the cached records [3 4 5], not %v", seqs)
	}

	records, err = tail(j, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Seq != 4 {
		t.Fatalf("tail of 2 should start at 4, got %v", records)
	}

	empty, err := tail(journal.NewInmemJournal(2), tailSize)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("tail of an empty journal should be empty, got %v", empty)
	}
}

package glomers

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/mosaicnetworks/glomers/src/common"
	"github.com/mosaicnetworks/glomers/src/config"
	"github.com/mosaicnetworks/glomers/src/journal"
	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/node"
	"github.com/mosaicnetworks/glomers/src/transport"
	"github.com/sirupsen/logrus"
)

// tailSize is the number of journal records logged when Run fails.
const tailSize = 10

// Engine is a node ready to be started, whatever its payload family.
type Engine interface {
	Init() error
	Run() error
	Close() error
}

// Glomers wires a workload to its streams, its journal and its node.
type Glomers[P message.Payload] struct {
	Config  *config.Config
	Catalog *message.Catalog[P]
	Handler node.Handler[P]
	Codec   message.Codec[P]
	Journal journal.Journal
	Node    *node.Node[P]

	in     io.Reader
	out    io.Writer
	conn   net.Conn
	logger *logrus.Entry
}

// NewGlomers returns an engine running handler over catalog. It reads stdin
// and writes stdout unless SetStreams or Config.ListenAddr say otherwise.
func NewGlomers[P message.Payload](conf *config.Config, catalog *message.Catalog[P], handler node.Handler[P]) *Glomers[P] {
	return &Glomers[P]{
		Config:  conf,
		Catalog: catalog,
		Handler: handler,
		Codec:   message.NewJSONCodec(catalog),
		in:      os.Stdin,
		out:     os.Stdout,
		logger:  conf.Logger(),
	}
}

// SetStreams replaces stdin and stdout.
func (g *Glomers[P]) SetStreams(in io.Reader, out io.Writer) {
	g.in = in
	g.out = out
}

func (g *Glomers[P]) initTransport() error {
	if g.Config.ListenAddr == "" {
		return nil
	}

	listener, err := net.Listen("tcp", g.Config.ListenAddr)
	if err != nil {
		return err
	}
	defer listener.Close()

	g.logger.WithField("addr", listener.Addr().String()).Info("Waiting for connection")

	conn, err := listener.Accept()
	if err != nil {
		return err
	}

	g.logger.WithField("remote", conn.RemoteAddr().String()).Info("Accepted connection")

	g.conn = conn
	g.in = conn
	g.out = conn

	return nil
}

func (g *Glomers[P]) initJournal() error {
	switch {
	case g.Config.Journal:
		g.logger.WithField("path", g.Config.JournalDir).Debug("Opening badger journal")

		j, err := journal.NewBadgerJournal(g.Config.JournalDir, g.Config.Logger())
		if err != nil {
			return err
		}
		g.Journal = j

		if j.Len() > 0 {
			g.logger.WithField("records", j.Len()).Debug("Appending to existing journal")
		}
	case g.Config.CacheSize > 0:
		g.Journal = journal.NewInmemJournal(g.Config.CacheSize)

		g.logger.WithField("cache_size", g.Config.CacheSize).Debug("Created in-mem journal")
	}

	return nil
}

func (g *Glomers[P]) initNode() error {
	var (
		source transport.Source[P] = transport.NewLineSource(g.in, g.Codec, g.logger.WithField("prefix", "source"))
		sink   transport.Sink[P]   = transport.NewLineSink(g.out, g.Codec, g.logger.WithField("prefix", "sink"))
	)

	if g.Journal != nil {
		source = journal.NewSource(source, g.Codec, g.Journal, g.logger)
		sink = journal.NewSink(sink, g.Codec, g.Journal, g.logger)
	}

	g.Node = node.NewNode(g.Config.NodeConfig(), g.Catalog, source, sink, g.Handler)

	if err := g.Node.Init(); err != nil {
		return fmt.Errorf("failed to initialize node: %s", err)
	}

	return nil
}

// Init opens the streams and the journal and prepares the node. With a listen
// address it blocks until a client connects.
func (g *Glomers[P]) Init() error {
	if err := g.initJournal(); err != nil {
		return err
	}

	if err := g.initTransport(); err != nil {
		return err
	}

	if err := g.initNode(); err != nil {
		return err
	}

	return nil
}

// Run runs the node until its input ends. A contract violation by the peer is
// returned as an error wrapping node.ErrMissingInitMsgID.
func (g *Glomers[P]) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if !node.IsContractViolation(r) {
				panic(r)
			}
			err = fmt.Errorf("contract violation: %w", r.(error))
		}

		if err != nil {
			g.logTail()
		}
	}()

	return g.Node.Run()
}

// Close releases the connection and the journal.
func (g *Glomers[P]) Close() error {
	var err error

	if g.conn != nil {
		err = g.conn.Close()
	}

	if g.Journal != nil {
		if jerr := g.Journal.Close(); jerr != nil && err == nil {
			err = jerr
		}
	}

	return err
}

// logTail logs the last journal records, to help understand a failed run.
func (g *Glomers[P]) logTail() {
	if g.Journal == nil {
		return
	}

	records, err := tail(g.Journal, tailSize)
	if err != nil {
		g.logger.WithError(err).Error("Reading journal tail")
		return
	}

	for _, rec := range records {
		g.logger.WithFields(logrus.Fields{
			"seq": rec.Seq,
			"dir": rec.Direction,
		}).Warn(string(rec.Raw))
	}
}

// tail returns up to n of the most recent records of j. Records evicted from a
// bounded journal are skipped.
func tail(j journal.Journal, n uint64) ([]journal.Record, error) {
	last := j.Len()

	from := uint64(1)
	if last > n {
		from = last - n + 1
	}

	for ; from <= last; from++ {
		records := []journal.Record{}

		err := j.Range(from, func(rec journal.Record) error {
			records = append(records, rec)
			return nil
		})
		if common.IsStore(err, common.TooLate) {
			continue
		}

		return records, err
	}

	return []journal.Record{}, nil
}

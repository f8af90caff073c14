package commands

import (
	"io"
	"time"

	"github.com/mosaicnetworks/glomers/src/journal"
	"github.com/spf13/cobra"
	"github.com/ugorji/go/codec"
)

var dumpFrom uint64

// NewJournalCmd returns the command that inspects the journal
func NewJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the envelope journal",
	}

	cmd.AddCommand(newJournalDumpCmd())

	return cmd
}

func newJournalDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dump",
		Short:   "Print journal records as JSON lines",
		PreRunE: loadConfig,
		RunE:    dumpJournal,
	}

	cmd.Flags().String("datadir", _config.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("journal-dir", _config.JournalDir, "Journal directory")
	cmd.Flags().Uint64Var(&dumpFrom, "from", 1, "First record to print")

	return cmd
}

// dumpRecord is the JSON form of a journal record. The envelope is embedded
// as is.
type dumpRecord struct {
	Seq       uint64            `codec:"seq"`
	Direction journal.Direction `codec:"dir"`
	Time      time.Time         `codec:"time"`
	Envelope  codec.Raw         `codec:"envelope"`
}

func dumpJournal(cmd *cobra.Command, args []string) error {
	j, err := journal.NewBadgerJournal(_config.JournalDir, _config.Logger())
	if err != nil {
		return err
	}
	defer j.Close()

	return dumpRecords(j, dumpFrom, cmd.OutOrStdout())
}

func dumpRecords(j journal.Journal, from uint64, out io.Writer) error {
	jh := new(codec.JsonHandle)
	jh.Raw = true

	return j.Range(from, func(rec journal.Record) error {
		var b []byte
		enc := codec.NewEncoderBytes(&b, jh)

		err := enc.Encode(dumpRecord{
			Seq:       rec.Seq,
			Direction: rec.Direction,
			Time:      rec.Time,
			Envelope:  codec.Raw(rec.Raw),
		})
		if err != nil {
			return err
		}

		_, err = out.Write(append(b, '\n'))
		return err
	})
}

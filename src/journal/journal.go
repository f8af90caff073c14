package journal

import (
	"errors"
	"fmt"
	"time"
)

// ErrStop may be returned by the function passed to Range to stop the
// iteration without error.
var ErrStop = errors.New("stop")

// Direction tells whether a record was read or written by the node.
type Direction uint8

const (
	// In is an envelope read from the source.
	In Direction = iota
	// Out is an envelope written to the sink.
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return "unknown"
	}
}

// MarshalText ...
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText ...
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in":
		*d = In
	case "out":
		*d = Out
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Record is one envelope as seen at the node boundary. Raw holds its wire
// encoding, without the trailing newline.
type Record struct {
	Seq       uint64    `codec:"seq"`
	Direction Direction `codec:"dir"`
	Time      time.Time `codec:"time"`
	Src       string    `codec:"src"`
	Dest      string    `codec:"dest"`
	Type      string    `codec:"type"`
	MsgID     *uint64   `codec:"msg_id,omitempty"`
	InReplyTo *uint64   `codec:"in_reply_to,omitempty"`
	Raw       []byte    `codec:"raw"`
}

// Journal is an append-only log of records.
type Journal interface {
	// Append numbers rec with the next sequence number, stores it and returns
	// the number. The Seq of rec is ignored.
	Append(rec Record) (uint64, error)
	// Get returns the record numbered seq.
	Get(seq uint64) (Record, error)
	// Range calls fn for every record numbered from seq onwards, in order. An
	// error returned by fn stops the iteration and is returned, unless it is
	// ErrStop.
	Range(from uint64, fn func(Record) error) error
	// Len returns the number of records ever appended, which is also the last
	// sequence number.
	Len() uint64
	// Close releases the resources of the journal.
	Close() error
}

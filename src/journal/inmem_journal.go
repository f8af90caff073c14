package journal

import (
	"errors"

	cm "github.com/mosaicnetworks/glomers/src/common"
)

// InmemJournal implements Journal in memory. When cacheSize is positive only
// the most recent records are kept, between cacheSize and 2*cacheSize of them;
// older ones are reported as cm.TooLate.
type InmemJournal struct {
	records *cm.RollingIndex[Record]
	closed  bool
}

// NewInmemJournal ...
func NewInmemJournal(cacheSize int) *InmemJournal {
	return &InmemJournal{
		records: cm.NewRollingIndex[Record]("Record", cacheSize),
	}
}

// Append implements Journal.
func (j *InmemJournal) Append(rec Record) (uint64, error) {
	if j.closed {
		return 0, cm.NewStoreErr("Journal", cm.Closed, "")
	}
	rec.Seq = j.records.LastIndex() + 1
	return j.records.Append(rec), nil
}

// Get implements Journal.
func (j *InmemJournal) Get(seq uint64) (Record, error) {
	return j.records.GetItem(seq)
}

// Range implements Journal.
func (j *InmemJournal) Range(from uint64, fn func(Record) error) error {
	skip := uint64(0)
	if from > 0 {
		skip = from - 1
	}

	records, err := j.records.Get(skip)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := fn(rec); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}

	return nil
}

// Len implements Journal.
func (j *InmemJournal) Len() uint64 {
	return j.records.LastIndex()
}

// Close implements Journal. Records remain readable.
func (j *InmemJournal) Close() error {
	j.closed = true
	return nil
}

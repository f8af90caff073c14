package journal

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dgraph-io/badger"
	cm "github.com/mosaicnetworks/glomers/src/common"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

const recordPrefix = "rec"

func recordKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s_%020d", recordPrefix, seq))
}

func recordSeq(key []byte) (uint64, error) {
	prefix := len(recordPrefix) + 1
	if len(key) <= prefix {
		return 0, fmt.Errorf("invalid record key %q", key)
	}
	return strconv.ParseUint(string(key[prefix:]), 10, 64)
}

// BadgerJournal implements Journal on top of a badger database. Records are
// stored under keys ordered by sequence number, msgpack-encoded.
type BadgerJournal struct {
	db     *badger.DB
	path   string
	seq    uint64
	closed bool
	logger *logrus.Entry
}

// NewBadgerJournal opens the journal stored in path, creating it if nothing is
// found there. Numbering resumes after the last stored record.
func NewBadgerJournal(path string, logger *logrus.Entry) (*BadgerJournal, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		opts = opts.WithLogger(logger.WithFields(logrus.Fields{"ns": "badger"}))
	} else {
		logger = logrus.NewEntry(logrus.New())
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	j := &BadgerJournal{
		db:     handle,
		path:   path,
		logger: logger,
	}

	if err := j.loadSeq(); err != nil {
		handle.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"path": path,
		"seq":  j.seq,
	}).Debug("Opened journal")

	return j, nil
}

// Path returns the directory of the database.
func (j *BadgerJournal) Path() string {
	return j.path
}

// Append implements Journal.
func (j *BadgerJournal) Append(rec Record) (uint64, error) {
	if j.closed {
		return 0, cm.NewStoreErr("Journal", cm.Closed, j.path)
	}

	rec.Seq = j.seq + 1

	val, err := marshalRecord(&rec)
	if err != nil {
		return 0, err
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.Seq), val)
	})
	if err != nil {
		return 0, err
	}

	j.seq = rec.Seq

	return rec.Seq, nil
}

// Get implements Journal.
func (j *BadgerJournal) Get(seq uint64) (Record, error) {
	var data []byte
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(seq))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if isDBKeyNotFound(err) {
			return Record{}, cm.NewStoreErr("Record", cm.KeyNotFound, strconv.FormatUint(seq, 10))
		}
		return Record{}, err
	}

	rec := Record{}
	if err := unmarshalRecord(data, &rec); err != nil {
		return Record{}, err
	}

	return rec, nil
}

// Range implements Journal.
func (j *BadgerJournal) Range(from uint64, fn func(Record) error) error {
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recordPrefix + "_")
		for it.Seek(recordKey(from)); it.ValidForPrefix(prefix); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			rec := Record{}
			if err := unmarshalRecord(data, &rec); err != nil {
				return err
			}

			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})

	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

// Len implements Journal.
func (j *BadgerJournal) Len() uint64 {
	return j.seq
}

// Close implements Journal.
func (j *BadgerJournal) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

// loadSeq finds the last stored sequence number by seeking backwards from the
// largest possible key.
func (j *BadgerJournal) loadSeq() error {
	return j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(recordKey(math.MaxUint64))
		if !it.ValidForPrefix([]byte(recordPrefix + "_")) {
			return nil
		}

		seq, err := recordSeq(it.Item().Key())
		if err != nil {
			return err
		}
		j.seq = seq

		return nil
	})
}

func isDBKeyNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

//++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++++
//Encoding

func msgpackHandle() *codec.MsgpackHandle {
	mh := new(codec.MsgpackHandle)
	mh.WriteExt = true
	return mh
}

func marshalRecord(rec *Record) ([]byte, error) {
	var b []byte
	enc := codec.NewEncoderBytes(&b, msgpackHandle())
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return b, nil
}

func unmarshalRecord(data []byte, rec *Record) error {
	dec := codec.NewDecoderBytes(data, msgpackHandle())
	return dec.Decode(rec)
}

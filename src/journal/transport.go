package journal

import (
	"time"

	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/mosaicnetworks/glomers/src/transport"
	"github.com/sirupsen/logrus"
)

// recorder appends envelopes to a journal on behalf of Source and Sink.
type recorder[P message.Payload] struct {
	journal Journal
	codec   message.Codec[P]
	logger  *logrus.Entry
	now     func() time.Time
}

func (r *recorder[P]) record(dir Direction, env message.Envelope[P]) {
	raw, err := r.codec.Encode(env)
	if err != nil {
		r.logger.WithError(err).WithField("dir", dir).Error("Encoding journal record")
		return
	}

	seq, err := r.journal.Append(NewRecord(dir, r.now(), env, raw))
	if err != nil {
		r.logger.WithError(err).WithField("dir", dir).Error("Appending journal record")
		return
	}

	r.logger.WithFields(logrus.Fields{
		"seq":  seq,
		"dir":  dir,
		"type": env.Type(),
	}).Debug("Journaled")
}

// NewRecord builds the record of env, with raw as its wire encoding.
func NewRecord[P message.Payload](dir Direction, t time.Time, env message.Envelope[P], raw []byte) Record {
	rec := Record{
		Direction: dir,
		Time:      t.UTC(),
		Src:       env.Src(),
		Dest:      env.Dest(),
		Type:      env.Type(),
		Raw:       raw,
	}
	if id, ok := env.MsgID(); ok {
		rec.MsgID = message.ID(id)
	}
	if id, ok := env.InReplyTo(); ok {
		rec.InReplyTo = message.ID(id)
	}
	return rec
}

// Source wraps a transport.Source and journals every envelope it yields.
type Source[P message.Payload] struct {
	recorder[P]
	inner transport.Source[P]
}

// NewSource ...
func NewSource[P message.Payload](inner transport.Source[P], codec message.Codec[P], journal Journal, logger *logrus.Entry) *Source[P] {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Source[P]{
		recorder: recorder[P]{
			journal: journal,
			codec:   codec,
			logger:  logger.WithField("prefix", "journal"),
			now:     time.Now,
		},
		inner: inner,
	}
}

// Next implements transport.Source.
func (s *Source[P]) Next() (message.Envelope[P], error) {
	env, err := s.inner.Next()
	if err != nil {
		return env, err
	}
	s.record(In, env)
	return env, nil
}

// Sink wraps a transport.Sink and journals every envelope it writes
// successfully.
type Sink[P message.Payload] struct {
	recorder[P]
	inner transport.Sink[P]
}

// NewSink ...
func NewSink[P message.Payload](inner transport.Sink[P], codec message.Codec[P], journal Journal, logger *logrus.Entry) *Sink[P] {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Sink[P]{
		recorder: recorder[P]{
			journal: journal,
			codec:   codec,
			logger:  logger.WithField("prefix", "journal"),
			now:     time.Now,
		},
		inner: inner,
	}
}

// Write implements transport.Sink.
func (s *Sink[P]) Write(env message.Envelope[P]) error {
	if err := s.inner.Write(env); err != nil {
		return err
	}
	s.record(Out, env)
	return nil
}

package transport

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/mosaicnetworks/glomers/src/message"
	"github.com/sirupsen/logrus"
)

const (
	// Reserved input lines that stop the node.
	quitShort = "q"
	quitLong  = "quit"

	bufSize = 64 * 1024
)

func newDefaultEntry() *logrus.Entry {
	log := logrus.New()
	log.Level = logrus.DebugLevel
	return logrus.NewEntry(log)
}

// LineSource reads one envelope per line from an io.Reader.
type LineSource[P message.Payload] struct {
	r      *bufio.Reader
	codec  message.Codec[P]
	logger *logrus.Entry

	// line is reused across calls to Next.
	line []byte
	eof  bool
}

// NewLineSource returns a LineSource decoding lines of r with codec.
func NewLineSource[P message.Payload](r io.Reader, codec message.Codec[P], logger *logrus.Entry) *LineSource[P] {
	if logger == nil {
		logger = newDefaultEntry()
	}

	return &LineSource[P]{
		r:      bufio.NewReaderSize(r, bufSize),
		codec:  codec,
		logger: logger,
		line:   make([]byte, 0, bufSize),
	}
}

// Next implements Source.
func (s *LineSource[P]) Next() (message.Envelope[P], error) {
	var env message.Envelope[P]

	if s.eof {
		return env, ErrClosed
	}

	n, err := s.readLine()
	if err != nil {
		return env, NewFault(IOFault, err)
	}

	// Nothing left to read: the harness closed our input.
	if n == 0 {
		s.logger.Debug("EOF received")
		return env, ErrClosed
	}

	line := bytes.TrimSpace(s.line)

	s.logger.WithField("bytes", n).Debugf("read: %s", line)

	if string(line) == quitShort || string(line) == quitLong {
		s.logger.Info("quit received")
		return env, ErrQuit
	}

	env, err = s.codec.Decode(line)
	if err != nil {
		return env, &Fault{
			Kind: MalformedInput,
			Line: string(line),
			Err:  err,
		}
	}

	return env, nil
}

// readLine fills s.line with the next line, newline included, and returns the
// number of bytes read. A last line without a newline is returned as is and
// the following call reports end of stream.
func (s *LineSource[P]) readLine() (int, error) {
	s.line = s.line[:0]

	for {
		chunk, err := s.r.ReadSlice('\n')
		s.line = append(s.line, chunk...)

		switch {
		case err == nil:
			return len(s.line), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			s.eof = true
			return len(s.line), nil
		default:
			return len(s.line), err
		}
	}
}

// LineSink writes one envelope per line to an io.Writer.
type LineSink[P message.Payload] struct {
	w      *bufio.Writer
	codec  message.Codec[P]
	logger *logrus.Entry
}

// NewLineSink returns a LineSink encoding envelopes with codec onto w.
func NewLineSink[P message.Payload](w io.Writer, codec message.Codec[P], logger *logrus.Entry) *LineSink[P] {
	if logger == nil {
		logger = newDefaultEntry()
	}

	return &LineSink[P]{
		w:      bufio.NewWriterSize(w, bufSize),
		codec:  codec,
		logger: logger,
	}
}

// Write implements Sink.
func (s *LineSink[P]) Write(env message.Envelope[P]) error {
	data, err := s.codec.Encode(env)
	if err != nil {
		return NewFault(SerializationFault, err)
	}

	if _, err := s.w.Write(data); err != nil {
		return NewFault(IOFault, err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return NewFault(IOFault, err)
	}
	if err := s.w.Flush(); err != nil {
		return NewFault(IOFault, err)
	}

	s.logger.Debugf("wrote: %s", data)

	return nil
}

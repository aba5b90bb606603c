// Package transport binds a framing strategy to a duplex byte stream.
// It owns the read loop the framing layer deliberately does not have:
// ReadFrame pulls chunks of whatever size the connection delivers and
// feeds them to a framing.Reader until a frame completes.
package transport

import (
	"io"

	"github.com/seqio/framewire/framing"
)

const readChunkSize = 4096

func New(c io.ReadWriteCloser, s framing.Strategy) Transport {
	return &transport{
		c:      c,
		reader: framing.NewReader(s),
		writer: framing.NewWriter(c, s),
		chunk:  make([]byte, readChunkSize),
	}
}

type Transport interface {
	ReadFrame() (*framing.Frame, error)
	WriteFrame(typ byte, payload []byte) error
	Close() error
}

type transport struct {
	c      io.ReadWriteCloser
	reader *framing.Reader
	writer *framing.Writer
	chunk  []byte
}

// ReadFrame returns the next complete frame, reading from the
// connection as needed. Leftover bytes from any read stay buffered in
// the framing reader until their frame completes. At end of stream it
// returns io.EOF once every completed frame has been handed out; a
// stream that ends mid-frame fails with framing.ErrTruncatedMessage.
func (t *transport) ReadFrame() (*framing.Frame, error) {
	for {
		if f, ok := t.reader.Next(); ok {
			return f, nil
		}

		n, err := t.c.Read(t.chunk)
		if n > 0 {
			if ferr := t.reader.Feed(t.chunk[:n]); ferr != nil {
				return nil, ferr
			}
		}
		switch {
		case err == io.EOF || (err == nil && n == 0):
			if cerr := t.reader.CloseTransport(); cerr != nil {
				return nil, cerr
			}
			if f, ok := t.reader.Next(); ok {
				return f, nil
			}
			return nil, io.EOF
		case err != nil:
			return nil, err
		}
	}
}

func (t *transport) WriteFrame(typ byte, payload []byte) error {
	return t.writer.WriteType(typ, payload)
}

func (t *transport) Close() error {
	return t.c.Close()
}

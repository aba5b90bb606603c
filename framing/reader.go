// Package framing
package framing

import "io"

// Reader reconstructs message boundaries from arbitrarily chunked
// transport reads. It owns the only copy of bytes not yet resolved into
// complete frames: Feed never discards data short of a fatal framing
// error, and bytes already emitted as frames are never re-examined.
//
// One Reader exists per connection and lives as long as the connection;
// it is not safe for concurrent use.
type Reader struct {
	s      Strategy
	ex     Extractor
	buf    []byte
	off    int // consumed cursor into buf
	ready  *frameQueue
	err    error
	closed bool
}

func NewReader(s Strategy) *Reader {
	return &Reader{
		s:     s,
		ex:    s.NewExtractor(),
		ready: newFrameQueue(),
	}
}

// Feed appends one transport read to the pending buffer and extracts
// every frame it completes; a single call may ready zero, one or many
// frames. Fatal framing errors latch: once Feed fails, the reader
// returns the same error forever and the connection must be closed.
func (r *Reader) Feed(chunk []byte) error {
	if r.err != nil {
		return r.err
	}
	if r.closed {
		return io.ErrClosedPipe
	}
	if len(chunk) == 0 {
		return nil
	}

	r.compact()
	r.buf = append(r.buf, chunk...)

	for {
		f, n, err := r.ex.Extract(r.buf[r.off:])
		if err != nil {
			r.err = err
			return err
		}
		r.off += n
		if f != nil {
			r.ready.push(f)
			continue
		}
		if n > 0 {
			// header consumed, payload may already be buffered
			continue
		}
		break
	}

	if r.pendingBytes() > r.s.maxBuffered() {
		r.err = ErrBufferExceeded
		return r.err
	}
	return nil
}

// Next pops the oldest ready frame. ok is false when the queue is
// empty; more frames may become ready after further Feed calls. Popped
// frames are gone, the sequence is not restartable.
func (r *Reader) Next() (f *Frame, ok bool) {
	f = r.ready.pop()
	return f, f != nil
}

// CloseTransport records end-of-stream. A close landing inside a
// partial header or payload is a truncation; a close on a frame
// boundary is an ordinary end of stream and not an error.
func (r *Reader) CloseTransport() error {
	if r.err != nil {
		return r.err
	}
	r.closed = true
	if r.pendingBytes() > 0 || r.ex.pending() {
		r.err = ErrTruncatedMessage
		return r.err
	}
	return nil
}

// Ready is the number of frames waiting to be popped.
func (r *Reader) Ready() int {
	return r.ready.len()
}

// Buffered is the number of unresolved bytes retained across calls.
func (r *Reader) Buffered() int {
	return r.pendingBytes()
}

// Err returns the latched fatal error, if any.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) pendingBytes() int {
	return len(r.buf) - r.off
}

// compact reclaims space consumed by emitted frames before the buffer
// grows again. Bytes past the cursor are retained verbatim.
func (r *Reader) compact() {
	if r.off == 0 {
		return
	}
	if r.off == len(r.buf) {
		r.buf = r.buf[:0]
	} else {
		n := copy(r.buf, r.buf[r.off:])
		r.buf = r.buf[:n]
	}
	r.off = 0
}

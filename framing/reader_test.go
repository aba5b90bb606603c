// Package framing
package framing

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLengthPrefix(t *testing.T, opts ...Option) *LengthPrefix {
	t.Helper()
	l, err := NewLengthPrefix(opts...)
	require.NoError(t, err)
	return l
}

// encodeAll concatenates the wire form of every payload.
func encodeAll(t *testing.T, s Strategy, payloads ...[]byte) []byte {
	t.Helper()
	var wire []byte
	for _, p := range payloads {
		b, err := s.Encode(p, 0)
		require.NoError(t, err)
		wire = append(wire, b...)
	}
	return wire
}

// drain pops every ready frame.
func drain(r *Reader) [][]byte {
	var got [][]byte
	for {
		f, ok := r.Next()
		if !ok {
			return got
		}
		got = append(got, f.Payload)
	}
}

func TestReaderHelloScenario(t *testing.T) {
	// max_frame_size=1024, W=4 big-endian, no type byte; 10 wire bytes
	// fed as 3 + 7.
	s := mustLengthPrefix(t, WithMaxFrameSize(1024))
	wire := encodeAll(t, s, []byte("hello!"))
	require.Equal(t, []byte{0, 0, 0, 6, 'h', 'e', 'l', 'l', 'o', '!'}, wire)

	r := NewReader(s)
	require.NoError(t, r.Feed(wire[:3]))
	require.Equal(t, 0, r.Ready())

	require.NoError(t, r.Feed(wire[3:]))
	require.Equal(t, 1, r.Ready())

	f, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, "hello!", string(f.Payload))

	// back to awaiting a header with nothing pending
	require.Equal(t, 0, r.Buffered())
	require.False(t, r.ex.pending())
}

func TestReaderByteAtATime(t *testing.T) {
	payloads := [][]byte{[]byte("alpha"), {}, []byte("gamma-ray")}
	for name, s := range map[string]Strategy{
		"length-prefix": mustLengthPrefix(t),
		"delimiter":     NewDelimiter(),
	} {
		wire := encodeAll(t, s, payloads...)
		r := NewReader(s)
		for i := range wire {
			require.NoError(t, r.Feed(wire[i:i+1]), name)
		}
		got := drain(r)
		require.Len(t, got, len(payloads), name)
		for i := range payloads {
			require.Equal(t, string(payloads[i]), string(got[i]), name)
		}
		require.NoError(t, r.CloseTransport(), name)
	}
}

func TestReaderEverySplitPoint(t *testing.T) {
	s := mustLengthPrefix(t)
	wire := encodeAll(t, s, []byte("first"), []byte("second"))
	for i := 0; i <= len(wire); i++ {
		r := NewReader(s)
		require.NoError(t, r.Feed(wire[:i]), "split at %d", i)
		require.NoError(t, r.Feed(wire[i:]), "split at %d", i)
		got := drain(r)
		require.Len(t, got, 2, "split at %d", i)
		require.Equal(t, "first", string(got[0]), "split at %d", i)
		require.Equal(t, "second", string(got[1]), "split at %d", i)
	}
}

func TestReaderCoalescedFrames(t *testing.T) {
	s := mustLengthPrefix(t)
	wire := encodeAll(t, s, []byte("A"), []byte("B"))
	r := NewReader(s)
	require.NoError(t, r.Feed(wire))
	require.Equal(t, 2, r.Ready())
	got := drain(r)
	require.Equal(t, "A", string(got[0]))
	require.Equal(t, "B", string(got[1]))
}

func TestReaderFramePlusPartialTail(t *testing.T) {
	s := mustLengthPrefix(t)
	wire := encodeAll(t, s, []byte("whole"), []byte("partial"))
	r := NewReader(s)
	require.NoError(t, r.Feed(wire[:len(wire)-3]))
	require.Equal(t, 1, r.Ready())
	require.NoError(t, r.Feed(wire[len(wire)-3:]))
	require.Equal(t, 2, r.Ready())
}

func TestReaderFrameTooLarge(t *testing.T) {
	s := mustLengthPrefix(t, WithMaxFrameSize(1024))
	r := NewReader(s)
	err := r.Feed([]byte{0, 0, 4, 1}) // announces 1025 bytes
	require.ErrorIs(t, err, ErrFrameTooLarge)
	require.Equal(t, 0, r.Ready())

	// fatal errors latch
	require.ErrorIs(t, r.Feed([]byte{0}), ErrFrameTooLarge)
	require.ErrorIs(t, r.CloseTransport(), ErrFrameTooLarge)
}

func TestReaderBufferExceeded(t *testing.T) {
	s := NewDelimiter(WithMaxFrameSize(8))
	r := NewReader(s)
	chunk := []byte("abcdefghij") // 10 bytes, no sentinel, bound is 8+1
	require.ErrorIs(t, r.Feed(chunk), ErrBufferExceeded)
}

func TestReaderTruncatedHeader(t *testing.T) {
	r := NewReader(mustLengthPrefix(t))
	require.NoError(t, r.Feed([]byte{0, 0}))
	require.ErrorIs(t, r.CloseTransport(), ErrTruncatedMessage)
}

func TestReaderTruncatedPayload(t *testing.T) {
	r := NewReader(mustLengthPrefix(t))
	require.NoError(t, r.Feed([]byte{0, 0, 0, 5, 'a', 'b'}))
	require.ErrorIs(t, r.CloseTransport(), ErrTruncatedMessage)
}

func TestReaderTruncatedAfterExactHeader(t *testing.T) {
	// header fully consumed, payload never arrives: the buffer is empty
	// but the extractor still holds partial-frame state
	r := NewReader(mustLengthPrefix(t))
	require.NoError(t, r.Feed([]byte{0, 0, 0, 5}))
	require.Equal(t, 0, r.Buffered())
	require.ErrorIs(t, r.CloseTransport(), ErrTruncatedMessage)
}

func TestReaderCleanClose(t *testing.T) {
	s := mustLengthPrefix(t)
	r := NewReader(s)
	require.NoError(t, r.Feed(encodeAll(t, s, []byte("done"))))
	require.NoError(t, r.CloseTransport())

	// queued frames remain consumable after a clean close
	f, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, "done", string(f.Payload))

	require.ErrorIs(t, r.Feed([]byte{1}), io.ErrClosedPipe)
}

func TestReaderCloseWithEmptyBufferIsNotAnError(t *testing.T) {
	r := NewReader(mustLengthPrefix(t))
	require.NoError(t, r.CloseTransport())
}

func TestReaderEmptyChunkIsNoop(t *testing.T) {
	r := NewReader(mustLengthPrefix(t))
	require.NoError(t, r.Feed(nil))
	require.NoError(t, r.Feed([]byte{}))
	require.Equal(t, 0, r.Buffered())
}

func TestReaderDelimiterFrames(t *testing.T) {
	s := NewDelimiter()
	r := NewReader(s)
	require.NoError(t, r.Feed([]byte{'o', 'n', 'e', 0x00, 't', 'w'}))
	f, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, "one", string(f.Payload))
	require.Equal(t, 2, r.Buffered())

	require.NoError(t, r.Feed([]byte{'o', 0x00}))
	f, ok = r.Next()
	require.True(t, ok)
	require.Equal(t, "two", string(f.Payload))
	require.NoError(t, r.CloseTransport())
}

func TestReaderMaxSizedFrame(t *testing.T) {
	s := mustLengthPrefix(t, WithMaxFrameSize(64))
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	r := NewReader(s)
	require.NoError(t, r.Feed(encodeAll(t, s, payload)))
	f, ok := r.Next()
	require.True(t, ok)
	require.Equal(t, payload, f.Payload)
}

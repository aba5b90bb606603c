// Package framing imposes discrete, recoverable message boundaries on a
// continuous duplex byte stream. Transport reads and writes may split or
// coalesce messages arbitrarily; a Reader reconstructs exact payloads
// regardless of chunking, and a Writer emits self-delimiting wire bytes.
//
// The package performs no I/O of its own beyond the Writer's target
// io.Writer: Feed and Write are synchronous buffer transformations, so
// everything here is testable without a live socket.
package framing

import "errors"

// DefaultMaxFrameSize bounds payload size when no explicit limit is set.
const DefaultMaxFrameSize = 10 << 20 // 10 MiB

var (
	// ErrTransportClosed reports a zero-byte transport write before a
	// frame was fully sent.
	ErrTransportClosed = errors.New("framing: transport closed before frame fully sent")

	// ErrTruncatedMessage reports end-of-stream inside a partial frame.
	ErrTruncatedMessage = errors.New("framing: stream ended inside a partial frame")

	// ErrFrameTooLarge reports a decoded length above the frame size limit.
	ErrFrameTooLarge = errors.New("framing: decoded frame length exceeds limit")

	// ErrBufferExceeded reports unresolved bytes above the buffer bound
	// with no frame boundary in sight.
	ErrBufferExceeded = errors.New("framing: buffered bytes exceed limit without a frame boundary")

	// ErrInvalidPayload rejects a delimiter-framed payload containing
	// the sentinel byte.
	ErrInvalidPayload = errors.New("framing: payload contains the sentinel byte")

	// ErrPayloadTooLarge rejects a payload that the configured width or
	// frame size limit cannot carry.
	ErrPayloadTooLarge = errors.New("framing: payload exceeds encodable frame size")
)

// Frame is one complete decoded message. Type is zero unless the
// strategy carries a type tag.
type Frame struct {
	Type    byte
	Payload []byte
}

// Strategy is one wire format: it encodes whole payloads and produces
// extractors that recover frames from the stream.
type Strategy interface {
	// Encode serializes one payload into its self-delimiting wire form.
	// Strategies without a type tag ignore typ.
	Encode(payload []byte, typ byte) ([]byte, error)

	// NewExtractor returns a fresh extraction state machine. An
	// extractor belongs to exactly one connection.
	NewExtractor() Extractor

	// MaxFrameSize is the largest payload this strategy encodes or decodes.
	MaxFrameSize() int

	// maxBuffered bounds the unresolved bytes a Reader may accumulate
	// before the stream is declared unframeable.
	maxBuffered() int
}

// Extractor recovers frames from the front of an accumulation buffer.
// Extract consumes zero or more leading bytes of buf and returns a frame
// once one is complete. A nil frame with nil error means more bytes are
// needed; consumed bytes must never be passed in again.
type Extractor interface {
	Extract(buf []byte) (frame *Frame, consumed int, err error)

	// pending reports whether the extractor holds state from a frame
	// whose bytes have been partly consumed, e.g. a decoded header
	// awaiting its payload.
	pending() bool
}

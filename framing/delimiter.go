// Package framing
package framing

import "bytes"

// Delimiter frames messages by appending a sentinel byte (default 0x00).
// Payloads must not contain the sentinel; an embedded sentinel is
// rejected at encode time rather than escaped, so the wire form is
// always payload bytes followed by exactly one sentinel.
type Delimiter struct {
	sentinel byte
	max      int
}

func NewDelimiter(opts ...Option) *Delimiter {
	o := defaultOptions()
	o.apply(opts)
	max := o.maxFrameSize
	if max <= 0 {
		max = DefaultMaxFrameSize
	}
	return &Delimiter{sentinel: o.sentinel, max: max}
}

func (d *Delimiter) Encode(payload []byte, typ byte) ([]byte, error) {
	if len(payload) > d.max {
		return nil, ErrPayloadTooLarge
	}
	if bytes.IndexByte(payload, d.sentinel) >= 0 {
		return nil, ErrInvalidPayload
	}
	buf := make([]byte, len(payload)+1)
	copy(buf, payload)
	buf[len(payload)] = d.sentinel
	return buf, nil
}

func (d *Delimiter) NewExtractor() Extractor {
	return &delimiterExtractor{d: d}
}

func (d *Delimiter) MaxFrameSize() int {
	return d.max
}

func (d *Delimiter) maxBuffered() int {
	return d.max + 1
}

// delimiterExtractor scans for the sentinel. The scan is stateless: the
// buffer head always sits on a frame boundary, so each call starts over.
type delimiterExtractor struct {
	d *Delimiter
}

func (e *delimiterExtractor) Extract(buf []byte) (*Frame, int, error) {
	k := bytes.IndexByte(buf, e.d.sentinel)
	if k < 0 {
		return nil, 0, nil
	}
	if k > e.d.max {
		return nil, 0, ErrFrameTooLarge
	}
	payload := make([]byte, k)
	copy(payload, buf[:k])
	return &Frame{Payload: payload}, k + 1, nil
}

func (e *delimiterExtractor) pending() bool {
	return false
}

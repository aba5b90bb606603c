// Package framing
package framing

import (
	"encoding/binary"
	"fmt"
	"math"
)

// LengthPrefix frames messages with a fixed-width binary length,
// optionally preceded by a one-byte type tag:
//
//	[type: 1 byte, if configured] [length: W bytes] [payload: length bytes]
//
// The default is the recommended wire format: 4-byte big-endian length,
// no type tag.
type LengthPrefix struct {
	width   int
	order   binary.ByteOrder
	typeTag bool
	max     int
}

func NewLengthPrefix(opts ...Option) (*LengthPrefix, error) {
	o := defaultOptions()
	o.apply(opts)
	switch o.width {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("framing: invalid length width %d", o.width)
	}
	max := o.maxFrameSize
	if max <= 0 {
		max = DefaultMaxFrameSize
	}
	return &LengthPrefix{
		width:   o.width,
		order:   o.byteOrder,
		typeTag: o.typeTag,
		max:     max,
	}, nil
}

func (l *LengthPrefix) headerSize() int {
	if l.typeTag {
		return l.width + 1
	}
	return l.width
}

// maxRepresentable is the largest length the configured width can carry.
func (l *LengthPrefix) maxRepresentable() uint64 {
	if l.width == 8 {
		return math.MaxUint64
	}
	return 1<<(8*uint(l.width)) - 1
}

func (l *LengthPrefix) Encode(payload []byte, typ byte) ([]byte, error) {
	n := uint64(len(payload))
	if len(payload) > l.max || n > l.maxRepresentable() {
		return nil, ErrPayloadTooLarge
	}

	buf := make([]byte, l.headerSize()+len(payload))
	i := 0
	if l.typeTag {
		buf[0] = typ
		i = 1
	}
	l.putLength(buf[i:i+l.width], n)
	copy(buf[i+l.width:], payload)
	return buf, nil
}

func (l *LengthPrefix) NewExtractor() Extractor {
	return &lengthPrefixExtractor{l: l}
}

func (l *LengthPrefix) MaxFrameSize() int {
	return l.max
}

func (l *LengthPrefix) maxBuffered() int {
	return l.max + l.headerSize()
}

func (l *LengthPrefix) putLength(b []byte, n uint64) {
	switch l.width {
	case 1:
		b[0] = byte(n)
	case 2:
		l.order.PutUint16(b, uint16(n))
	case 4:
		l.order.PutUint32(b, uint32(n))
	case 8:
		l.order.PutUint64(b, n)
	}
}

func (l *LengthPrefix) getLength(b []byte) uint64 {
	switch l.width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(l.order.Uint16(b))
	case 4:
		return uint64(l.order.Uint32(b))
	default:
		return l.order.Uint64(b)
	}
}

// lengthPrefixExtractor alternates between two states: awaiting a full
// header, then awaiting the payload the header announced. The decoded
// length is kept across calls so a header is never re-decoded when the
// payload trickles in.
type lengthPrefixExtractor struct {
	l        *LengthPrefix
	awaiting bool // payload phase
	typ      byte
	need     int
}

func (e *lengthPrefixExtractor) Extract(buf []byte) (*Frame, int, error) {
	if !e.awaiting {
		h := e.l.headerSize()
		if len(buf) < h {
			return nil, 0, nil
		}
		i := 0
		if e.l.typeTag {
			e.typ = buf[0]
			i = 1
		}
		n := e.l.getLength(buf[i : i+e.l.width])
		if n > uint64(e.l.max) {
			return nil, 0, ErrFrameTooLarge
		}
		e.need = int(n)
		e.awaiting = true
		return nil, h, nil
	}

	if len(buf) < e.need {
		return nil, 0, nil
	}
	payload := make([]byte, e.need)
	copy(payload, buf[:e.need])
	f := &Frame{Type: e.typ, Payload: payload}
	consumed := e.need
	e.awaiting = false
	e.typ = 0
	e.need = 0
	return f, consumed, nil
}

func (e *lengthPrefixExtractor) pending() bool {
	return e.awaiting
}

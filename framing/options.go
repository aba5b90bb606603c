// Package framing
package framing

import "encoding/binary"

type Option = func(*options)

type options struct {
	maxFrameSize int
	sentinel     byte
	width        int
	byteOrder    binary.ByteOrder
	typeTag      bool
}

func defaultOptions() *options {
	return &options{
		maxFrameSize: DefaultMaxFrameSize,
		sentinel:     0x00,
		width:        4,
		byteOrder:    binary.BigEndian,
	}
}

func (o *options) apply(opts []Option) {
	for _, f := range opts {
		f(o)
	}
}

// WithMaxFrameSize bounds payload size for both encode and decode.
func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		o.maxFrameSize = n
	}
}

// WithSentinel sets the delimiter byte. Ignored by length-prefix framing.
func WithSentinel(b byte) Option {
	return func(o *options) {
		o.sentinel = b
	}
}

// WithWidth sets the length field width in bytes: 1, 2, 4 or 8.
func WithWidth(w int) Option {
	return func(o *options) {
		o.width = w
	}
}

// WithByteOrder sets the length field byte order.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(o *options) {
		o.byteOrder = order
	}
}

// WithTypeTag prefixes every frame with a one-byte type tag.
func WithTypeTag() Option {
	return func(o *options) {
		o.typeTag = true
	}
}

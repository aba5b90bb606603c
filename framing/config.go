// Package framing
package framing

import (
	"encoding/binary"
	"fmt"
)

const (
	ModeDelimiter    = "delimiter"
	ModeLengthPrefix = "length-prefix"
)

// Config is a serializable description of a framing strategy, suitable
// for exchanging during connection negotiation. Zero-valued fields fall
// back to the documented defaults.
type Config struct {
	Mode         string `json:"mode"`
	Sentinel     byte   `json:"sentinel,omitempty"`
	Width        int    `json:"width,omitempty"`
	ByteOrder    string `json:"byte_order,omitempty"` // "big" or "little"
	TypeTag      bool   `json:"type_tag,omitempty"`
	MaxFrameSize int    `json:"max_frame_size,omitempty"`
}

// DefaultConfig is the recommended wire format: 4-byte big-endian
// length prefix, no type tag, 10 MiB frame limit.
func DefaultConfig() Config {
	return Config{
		Mode:         ModeLengthPrefix,
		Width:        4,
		ByteOrder:    "big",
		MaxFrameSize: DefaultMaxFrameSize,
	}
}

// Strategy builds the strategy this config describes.
func (c Config) Strategy() (Strategy, error) {
	opts := []Option{}
	if c.MaxFrameSize > 0 {
		opts = append(opts, WithMaxFrameSize(c.MaxFrameSize))
	}

	switch c.Mode {
	case ModeDelimiter:
		return NewDelimiter(append(opts, WithSentinel(c.Sentinel))...), nil

	case ModeLengthPrefix:
		if c.Width != 0 {
			opts = append(opts, WithWidth(c.Width))
		}
		switch c.ByteOrder {
		case "", "big":
		case "little":
			opts = append(opts, WithByteOrder(binary.LittleEndian))
		default:
			return nil, fmt.Errorf("framing: unknown byte order %q", c.ByteOrder)
		}
		if c.TypeTag {
			opts = append(opts, WithTypeTag())
		}
		return NewLengthPrefix(opts...)
	}
	return nil, fmt.Errorf("framing: unknown mode %q", c.Mode)
}

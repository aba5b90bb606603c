// Package framing
package framing

import "io"

// Writer encodes payloads and drives them fully onto the transport,
// absorbing partial writes of any granularity. It keeps no state
// between calls; each Write is independent.
type Writer struct {
	s Strategy
	w io.Writer
}

func NewWriter(w io.Writer, s Strategy) *Writer {
	return &Writer{s: s, w: w}
}

// Write frames payload with a zero type tag.
func (fw *Writer) Write(payload []byte) error {
	return fw.WriteType(0, payload)
}

// WriteType frames payload with the given type tag and loops until the
// transport has accepted every encoded byte. Encode rejections
// (ErrInvalidPayload, ErrPayloadTooLarge) surface before any transport
// write happens; a zero-byte transport write reports ErrTransportClosed
// and any other transport error propagates unchanged.
func (fw *Writer) WriteType(typ byte, payload []byte) error {
	wire, err := fw.s.Encode(payload, typ)
	if err != nil {
		return err
	}
	for len(wire) > 0 {
		n, err := fw.w.Write(wire)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrTransportClosed
		}
		wire = wire[n:]
	}
	return nil
}

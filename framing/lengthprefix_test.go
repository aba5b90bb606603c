// Package framing
package framing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestLengthPrefixDefaultWireFormat(t *testing.T) {
	l, err := NewLengthPrefix(WithMaxFrameSize(1024))
	if err != nil {
		t.Fatal(err)
	}
	wire, err := l.Encode([]byte("hello!"), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0, 0, 0, 6, 'h', 'e', 'l', 'l', 'o', '!'}
	if !bytes.Equal(wire, want) {
		t.Fatalf("wire mismatch: got %v want %v", wire, want)
	}
}

func TestLengthPrefixWidths(t *testing.T) {
	payload := []byte("xy")
	for _, tc := range []struct {
		width  int
		header []byte
	}{
		{1, []byte{2}},
		{2, []byte{0, 2}},
		{4, []byte{0, 0, 0, 2}},
		{8, []byte{0, 0, 0, 0, 0, 0, 0, 2}},
	} {
		l, err := NewLengthPrefix(WithWidth(tc.width))
		if err != nil {
			t.Fatalf("width %d: %v", tc.width, err)
		}
		wire, err := l.Encode(payload, 0)
		if err != nil {
			t.Fatalf("width %d encode: %v", tc.width, err)
		}
		want := append(append([]byte{}, tc.header...), payload...)
		if !bytes.Equal(wire, want) {
			t.Fatalf("width %d: got %v want %v", tc.width, wire, want)
		}
	}
}

func TestLengthPrefixLittleEndian(t *testing.T) {
	l, err := NewLengthPrefix(WithWidth(2), WithByteOrder(binary.LittleEndian))
	if err != nil {
		t.Fatal(err)
	}
	wire, err := l.Encode(make([]byte, 300), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if wire[0] != 0x2C || wire[1] != 0x01 {
		t.Fatalf("expected little-endian 300, got % x", wire[:2])
	}
}

func TestLengthPrefixTypeTag(t *testing.T) {
	l, err := NewLengthPrefix(WithTypeTag())
	if err != nil {
		t.Fatal(err)
	}
	wire, err := l.Encode([]byte("ok"), 7)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{7, 0, 0, 0, 2, 'o', 'k'}
	if !bytes.Equal(wire, want) {
		t.Fatalf("wire mismatch: got %v want %v", wire, want)
	}

	ex := l.NewExtractor()
	f, n, err := ex.Extract(wire)
	if f != nil || n != 5 || err != nil {
		t.Fatalf("expected header consumed, got (%v, %d, %v)", f, n, err)
	}
	f, n, err = ex.Extract(wire[n:])
	if err != nil || f == nil {
		t.Fatalf("extract: (%v, %v)", f, err)
	}
	if f.Type != 7 || string(f.Payload) != "ok" || n != 2 {
		t.Fatalf("got type=%d payload=%q n=%d", f.Type, f.Payload, n)
	}
}

func TestLengthPrefixInvalidWidth(t *testing.T) {
	if _, err := NewLengthPrefix(WithWidth(3)); err == nil {
		t.Fatal("expected error for width 3")
	}
}

func TestLengthPrefixEncodeRejectsUnrepresentableLength(t *testing.T) {
	l, err := NewLengthPrefix(WithWidth(1))
	if err != nil {
		t.Fatal(err)
	}
	_, err = l.Encode(make([]byte, 256), 0)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestLengthPrefixEncodeRejectsOverLimit(t *testing.T) {
	l, err := NewLengthPrefix(WithMaxFrameSize(16))
	if err != nil {
		t.Fatal(err)
	}
	_, err = l.Encode(make([]byte, 17), 0)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestLengthPrefixExtractorKeepsHeaderState(t *testing.T) {
	l, err := NewLengthPrefix()
	if err != nil {
		t.Fatal(err)
	}
	ex := l.NewExtractor()

	// full header, no payload yet: header is consumed and remembered
	f, n, err := ex.Extract([]byte{0, 0, 0, 3})
	if f != nil || err != nil {
		t.Fatalf("got (%v, %v)", f, err)
	}
	if n != 4 {
		t.Fatalf("expected header consumed, n=%d", n)
	}
	if !ex.pending() {
		t.Fatal("extractor should be awaiting payload")
	}

	f, n, err = ex.Extract([]byte{'a', 'b'})
	if f != nil || n != 0 || err != nil {
		t.Fatalf("expected need-more-data, got (%v, %d, %v)", f, n, err)
	}

	f, n, err = ex.Extract([]byte{'a', 'b', 'c'})
	if err != nil || f == nil {
		t.Fatalf("extract: (%v, %v)", f, err)
	}
	if string(f.Payload) != "abc" || n != 3 {
		t.Fatalf("got payload=%q n=%d", f.Payload, n)
	}
	if ex.pending() {
		t.Fatal("extractor should be back awaiting a header")
	}
}

func TestLengthPrefixExtractOversizedLength(t *testing.T) {
	l, err := NewLengthPrefix(WithMaxFrameSize(1024))
	if err != nil {
		t.Fatal(err)
	}
	header := []byte{0, 0, 4, 1} // 1025
	_, _, err = l.NewExtractor().Extract(header)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestLengthPrefixEmptyPayloadRoundTrip(t *testing.T) {
	l, err := NewLengthPrefix()
	if err != nil {
		t.Fatal(err)
	}
	wire, err := l.Encode(nil, 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ex := l.NewExtractor()
	var f *Frame
	rest := wire
	for f == nil {
		var n int
		f, n, err = ex.Extract(rest)
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if f == nil && n == 0 {
			t.Fatal("extractor stalled on complete wire bytes")
		}
		rest = rest[n:]
	}
	if len(f.Payload) != 0 {
		t.Fatalf("expected empty payload, got %q", f.Payload)
	}
}

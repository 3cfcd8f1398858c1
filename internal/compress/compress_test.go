package compress

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func roundTrip(t *testing.T, framing Framing) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWriter(&buf, framing, false)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write([]byte("hello nbt")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestGZipRoundTrip(t *testing.T) {
	compressed := roundTrip(t, GZip)
	r, err := NewReader(bytes.NewReader(compressed), GZip)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello nbt" {
		t.Errorf("got %q", got)
	}
}

func TestZLibRoundTrip(t *testing.T) {
	compressed := roundTrip(t, ZLib)
	r, err := NewReader(bytes.NewReader(compressed), ZLib)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello nbt" {
		t.Errorf("got %q", got)
	}
}

func TestAutoDetectGZip(t *testing.T) {
	compressed := roundTrip(t, GZip)
	r, err := NewReader(bytes.NewReader(compressed), AutoDetect)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil || string(got) != "hello nbt" {
		t.Errorf("got %q, err %v", got, err)
	}
}

func TestAutoDetectZLib(t *testing.T) {
	compressed := roundTrip(t, ZLib)
	r, err := NewReader(bytes.NewReader(compressed), AutoDetect)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil || string(got) != "hello nbt" {
		t.Errorf("got %q, err %v", got, err)
	}
}

func TestAutoDetectPlain(t *testing.T) {
	plain := []byte("\x0a\x00\x00raw nbt bytes")
	r, err := NewReader(bytes.NewReader(plain), AutoDetect)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil || !bytes.Equal(got, plain) {
		t.Errorf("got %q, err %v", got, err)
	}
}

func TestAutoDetectRejectsUnrecognizedLeadByte(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte{0xff, 0x00}), AutoDetect)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestZLibChecksumMismatchMapsToErrMalformed(t *testing.T) {
	compressed := roundTrip(t, ZLib)
	corrupted := append([]byte(nil), compressed...)
	corrupted[len(corrupted)-1] ^= 0xff // flip the trailing Adler-32 byte
	r, err := NewReader(bytes.NewReader(corrupted), ZLib)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := io.ReadAll(r); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestWriterCloseUnderlying(t *testing.T) {
	buf := &closeTrackingBuffer{}
	w, err := NewWriter(buf, None, true)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !buf.closed {
		t.Errorf("expected underlying stream to be closed")
	}
}

func TestWriterDoesNotCloseUnderlyingByDefault(t *testing.T) {
	buf := &closeTrackingBuffer{}
	w, err := NewWriter(buf, None, false)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.closed {
		t.Errorf("expected underlying stream to stay open")
	}
}

type closeTrackingBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeTrackingBuffer) Close() error {
	c.closed = true
	return nil
}

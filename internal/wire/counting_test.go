package wire

import (
	"bufio"
	"bytes"
	"io"
	"testing"
)

// byteThroughReadReader implements ReadByte in terms of Read, the
// opposite direction of bufio.Reader, to exercise both reentrancy guards.
type byteThroughReadReader struct {
	r io.Reader
}

func (b *byteThroughReadReader) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *byteThroughReadReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := b.Read(buf[:])
	return buf[0], err
}

func TestCountingReaderNoDoubleCount_Bulk(t *testing.T) {
	data := []byte("0123456789")
	cr := NewCountingReader(bytes.NewReader(data))
	buf := make([]byte, len(data))
	if _, err := io.ReadFull(cr, buf); err != nil {
		t.Fatal(err)
	}
	if cr.BytesRead() != int64(len(data)) {
		t.Fatalf("got %d, want %d", cr.BytesRead(), len(data))
	}
}

func TestCountingReaderNoDoubleCount_BufioDrivesReadByte(t *testing.T) {
	// bufio.Reader's ReadByte is implemented by filling its internal
	// buffer via Read, then slicing one byte off — so wrapping a
	// bufio.Reader and calling ReadByte repeatedly must still count each
	// byte exactly once through the outer CountingReader.
	data := []byte("abcdefghij")
	br := bufio.NewReaderSize(bytes.NewReader(data), 4)
	cr := NewCountingReader(br)
	for i := 0; i < len(data); i++ {
		if _, err := cr.ReadByte(); err != nil {
			t.Fatal(err)
		}
	}
	if cr.BytesRead() != int64(len(data)) {
		t.Fatalf("got %d, want %d", cr.BytesRead(), len(data))
	}
}

func TestCountingReaderNoDoubleCount_ReadByteDrivesRead(t *testing.T) {
	data := []byte("abcdefghij")
	inner := &byteThroughReadReader{r: bytes.NewReader(data)}
	cr := NewCountingReader(inner)
	buf := make([]byte, len(data))
	if _, err := io.ReadFull(cr, buf); err != nil {
		t.Fatal(err)
	}
	if cr.BytesRead() != int64(len(data)) {
		t.Fatalf("got %d, want %d", cr.BytesRead(), len(data))
	}
}

func TestCountingWriterNoDoubleCount(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCountingWriter(&buf)
	for i := 0; i < 5; i++ {
		if err := cw.WriteByte(byte(i)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := cw.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if cw.BytesWritten() != 8 {
		t.Fatalf("got %d, want 8", cw.BytesWritten())
	}
}

package wire

import (
	"bytes"
	"strings"
	"testing"
)

func TestStringEncoderChunking(t *testing.T) {
	var buf bytes.Buffer
	s := strings.Repeat("a", stringChunkSize*2+7)
	var enc stringEncoder
	if err := enc.writeString(&buf, s); err != nil {
		t.Fatal(err)
	}
	if buf.String() != s {
		t.Fatalf("got %d bytes, want %d", buf.Len(), len(s))
	}
}

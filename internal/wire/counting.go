package wire

import "io"

// CountingReader wraps an io.Reader and reports the number of bytes
// consumed from it. Bulk Read and single-byte ReadByte must not
// double-count even when the wrapped reader implements one in terms of
// the other (a *bufio.Reader's Read can be driven through ReadByte
// internally, and vice versa for hand-written readers); reentrancy flags
// guard against that.
type CountingReader struct {
	r         io.Reader
	n         int64
	inRead    bool
	inReadByte bool
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

// BytesRead returns the total number of bytes consumed so far.
func (c *CountingReader) BytesRead() int64 { return c.n }

func (c *CountingReader) Read(p []byte) (int, error) {
	if c.inReadByte {
		return c.r.Read(p)
	}
	c.inRead = true
	n, err := c.r.Read(p)
	c.inRead = false
	c.n += int64(n)
	return n, err
}

// ReadByte reads a single byte, using the wrapped reader's ReadByte when
// available and falling back to Read otherwise.
func (c *CountingReader) ReadByte() (byte, error) {
	if br, ok := c.r.(io.ByteReader); ok {
		if !c.inRead {
			c.inReadByte = true
			defer func() { c.inReadByte = false }()
		}
		b, err := br.ReadByte()
		if err == nil && !c.inRead {
			c.n++
		}
		return b, err
	}
	var buf [1]byte
	if !c.inRead {
		c.inReadByte = true
		defer func() { c.inReadByte = false }()
	}
	_, err := io.ReadFull(c.r, buf[:])
	if err == nil && !c.inRead {
		c.n++
	}
	return buf[0], err
}

// CountingWriter wraps an io.Writer and reports the number of bytes
// written to it, with the same bulk/single-byte reentrancy guard as
// CountingReader.
type CountingWriter struct {
	w          io.Writer
	n          int64
	inWrite     bool
	inWriteByte bool
}

// NewCountingWriter wraps w.
func NewCountingWriter(w io.Writer) *CountingWriter {
	return &CountingWriter{w: w}
}

// BytesWritten returns the total number of bytes written so far.
func (c *CountingWriter) BytesWritten() int64 { return c.n }

func (c *CountingWriter) Write(p []byte) (int, error) {
	if c.inWriteByte {
		return c.w.Write(p)
	}
	c.inWrite = true
	n, err := c.w.Write(p)
	c.inWrite = false
	c.n += int64(n)
	return n, err
}

// WriteByte writes a single byte, using the wrapped writer's WriteByte
// when available and falling back to Write otherwise.
func (c *CountingWriter) WriteByte(b byte) error {
	if bw, ok := c.w.(io.ByteWriter); ok {
		if !c.inWrite {
			c.inWriteByte = true
			defer func() { c.inWriteByte = false }()
		}
		err := bw.WriteByte(b)
		if err == nil && !c.inWrite {
			c.n++
		}
		return err
	}
	if !c.inWrite {
		c.inWriteByte = true
		defer func() { c.inWriteByte = false }()
	}
	_, err := c.w.Write([]byte{b})
	if err == nil && !c.inWrite {
		c.n++
	}
	return err
}

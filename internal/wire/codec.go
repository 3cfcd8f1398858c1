// Package wire implements the bidirectional primitive codec shared by the
// tree reader/writer, the pull reader and the push writer: endianness-aware
// fixed-width primitives, length-prefixed strings, and bounded-chunk bulk
// transfers.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// maxChunkSize bounds a single underlying Read/Write call so bulk transfers
// keep predictable memory use and play well with buffered streams.
const maxChunkSize = 4 << 20 // 4 MiB

// maxStringBytes is the largest UTF-8 byte length a u16 length prefix can
// encode.
const maxStringBytes = 1<<15 - 1 // 32767

// ErrTruncated is returned when the underlying stream ends before a
// fixed-width value or a declared-length payload has been fully read.
var ErrTruncated = fmt.Errorf("wire: truncated input")

// ErrMalformed is returned for structurally invalid input: negative
// lengths, non-UTF-8 string bytes, or a string payload too large for a u16
// length prefix.
var ErrMalformed = fmt.Errorf("wire: malformed input")

// Codec wraps a byte stream with an endianness and the primitive
// read/write operations the NBT wire format needs. It borrows the stream;
// closing it is the caller's responsibility.
type Codec struct {
	r     io.Reader
	w     io.Writer
	order binary.ByteOrder
	enc   stringEncoder
	buf   [8]byte
}

// NewCodec returns a Codec reading from r and writing to w (either may be
// nil for a read-only or write-only codec). bigEndian selects the wire
// byte order; NBT defaults to big-endian.
func NewCodec(r io.Reader, w io.Writer, bigEndian bool) *Codec {
	order := binary.ByteOrder(binary.BigEndian)
	if !bigEndian {
		order = binary.LittleEndian
	}
	return &Codec{r: r, w: w, order: order}
}

// ReadU8 reads a single unsigned byte.
func (c *Codec) ReadU8() (byte, error) {
	if _, err := io.ReadFull(c.r, c.buf[:1]); err != nil {
		return 0, wrapRead(err)
	}
	return c.buf[0], nil
}

// ReadI16 reads a signed 16-bit integer.
func (c *Codec) ReadI16() (int16, error) {
	if _, err := io.ReadFull(c.r, c.buf[:2]); err != nil {
		return 0, wrapRead(err)
	}
	return int16(c.order.Uint16(c.buf[:2])), nil
}

// ReadI32 reads a signed 32-bit integer.
func (c *Codec) ReadI32() (int32, error) {
	if _, err := io.ReadFull(c.r, c.buf[:4]); err != nil {
		return 0, wrapRead(err)
	}
	return int32(c.order.Uint32(c.buf[:4])), nil
}

// ReadI64 reads a signed 64-bit integer.
func (c *Codec) ReadI64() (int64, error) {
	if _, err := io.ReadFull(c.r, c.buf[:8]); err != nil {
		return 0, wrapRead(err)
	}
	return int64(c.order.Uint64(c.buf[:8])), nil
}

// ReadF32 reads an IEEE-754 single-precision float.
func (c *Codec) ReadF32() (float32, error) {
	v, err := c.ReadI32()
	if err != nil {
		return 0, err
	}
	return int32ToFloat32(v), nil
}

// ReadF64 reads an IEEE-754 double-precision float.
func (c *Codec) ReadF64() (float64, error) {
	v, err := c.ReadI64()
	if err != nil {
		return 0, err
	}
	return int64ToFloat64(v), nil
}

// ReadString reads a u16 byte length followed by that many UTF-8 bytes.
func (c *Codec) ReadString() (string, error) {
	n, err := c.ReadI16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("wire: negative string length %d: %w", n, ErrMalformed)
	}
	if n == 0 {
		return "", nil
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(c.r, data); err != nil {
		return "", wrapRead(err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("wire: invalid UTF-8 in string: %w", ErrMalformed)
	}
	return string(data), nil
}

// SkipString discards a u16-prefixed string without allocating it.
func (c *Codec) SkipString() error {
	n, err := c.ReadI16()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("wire: negative string length %d: %w", n, ErrMalformed)
	}
	return c.Skip(int64(n))
}

// Skip discards n bytes without materializing them.
func (c *Codec) Skip(n int64) error {
	if n < 0 {
		return fmt.Errorf("wire: negative skip length %d: %w", n, ErrMalformed)
	}
	if seeker, ok := c.r.(io.Seeker); ok {
		if _, err := seeker.Seek(n, io.SeekCurrent); err == nil {
			return nil
		}
		// fall through to read-through skip if the seek itself failed
	}
	var scratch [4096]byte
	for n > 0 {
		chunk := int64(len(scratch))
		if n < chunk {
			chunk = n
		}
		if _, err := io.ReadFull(c.r, scratch[:chunk]); err != nil {
			return wrapRead(err)
		}
		n -= chunk
	}
	return nil
}

// WriteU8 writes a single unsigned byte.
func (c *Codec) WriteU8(v byte) error {
	c.buf[0] = v
	_, err := c.w.Write(c.buf[:1])
	return err
}

// WriteI16 writes a signed 16-bit integer.
func (c *Codec) WriteI16(v int16) error {
	c.order.PutUint16(c.buf[:2], uint16(v))
	_, err := c.w.Write(c.buf[:2])
	return err
}

// WriteI32 writes a signed 32-bit integer.
func (c *Codec) WriteI32(v int32) error {
	c.order.PutUint32(c.buf[:4], uint32(v))
	_, err := c.w.Write(c.buf[:4])
	return err
}

// WriteI64 writes a signed 64-bit integer.
func (c *Codec) WriteI64(v int64) error {
	c.order.PutUint64(c.buf[:8], uint64(v))
	_, err := c.w.Write(c.buf[:8])
	return err
}

// WriteF32 writes an IEEE-754 single-precision float.
func (c *Codec) WriteF32(v float32) error {
	return c.WriteI32(float32ToInt32(v))
}

// WriteF64 writes an IEEE-754 double-precision float.
func (c *Codec) WriteF64(v float64) error {
	return c.WriteI64(float64ToInt64(v))
}

// WriteString writes a u16 byte length followed by the UTF-8 bytes of s.
// Long strings are written through a streaming encoder so a single call
// never has to allocate the whole byte-length buffer twice.
func (c *Codec) WriteString(s string) error {
	n := len(s)
	if n > maxStringBytes {
		return fmt.Errorf("wire: string length %d exceeds %d bytes: %w", n, maxStringBytes, ErrMalformed)
	}
	if err := c.WriteI16(int16(n)); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return c.enc.writeString(c.w, s)
}

// WriteByteSlice writes raw bytes in chunks bounded by maxChunkSize.
func (c *Codec) WriteByteSlice(b []byte) error {
	for len(b) > 0 {
		chunk := b
		if len(chunk) > maxChunkSize {
			chunk = b[:maxChunkSize]
		}
		if _, err := c.w.Write(chunk); err != nil {
			return err
		}
		b = b[len(chunk):]
	}
	return nil
}

// WriteBytesFrom copies count bytes from r into the codec's sink in
// maxChunkSize-bounded chunks, using buf as scratch space (an 8 KiB buffer
// is allocated if buf is nil).
func (c *Codec) WriteBytesFrom(r io.Reader, count int64, buf []byte) error {
	if buf == nil {
		buf = make([]byte, 8<<10)
	}
	for count > 0 {
		chunk := int64(len(buf))
		if chunk > maxChunkSize {
			chunk = maxChunkSize
		}
		if count < chunk {
			chunk = count
		}
		if _, err := io.ReadFull(r, buf[:chunk]); err != nil {
			return wrapRead(err)
		}
		if _, err := c.w.Write(buf[:chunk]); err != nil {
			return err
		}
		count -= chunk
	}
	return nil
}

// ReadByteSlice reads exactly n bytes and returns them as a new slice.
func (c *Codec) ReadByteSlice(n int32) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: negative array length %d: %w", n, ErrMalformed)
	}
	data := make([]byte, n)
	if n == 0 {
		return data, nil
	}
	if _, err := io.ReadFull(c.r, data); err != nil {
		return nil, wrapRead(err)
	}
	return data, nil
}

// ReadIntArray reads a sequence of n signed 32-bit integers.
func (c *Codec) ReadIntArray(n int32) ([]int32, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: negative array length %d: %w", n, ErrMalformed)
	}
	out := make([]int32, n)
	for i := range out {
		v, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteIntArray writes v as a sequence of signed 32-bit integers, with no
// length prefix (the caller writes that separately as part of the tag
// framing).
func (c *Codec) WriteIntArray(v []int32) error {
	for _, x := range v {
		if err := c.WriteI32(x); err != nil {
			return err
		}
	}
	return nil
}

// ReadLongArray reads a sequence of n signed 64-bit integers.
func (c *Codec) ReadLongArray(n int32) ([]int64, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: negative array length %d: %w", n, ErrMalformed)
	}
	out := make([]int64, n)
	for i := range out {
		v, err := c.ReadI64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteLongArray writes v as a sequence of signed 64-bit integers, with no
// length prefix.
func (c *Codec) WriteLongArray(v []int64) error {
	for _, x := range v {
		if err := c.WriteI64(x); err != nil {
			return err
		}
	}
	return nil
}

// ByteOrder exposes the codec's configured byte order, mainly for callers
// building their own fixed-width arrays (int/long arrays) in bulk.
func (c *Codec) ByteOrder() binary.ByteOrder { return c.order }

func wrapRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("wire: %w: %v", ErrTruncated, err)
	}
	return err
}

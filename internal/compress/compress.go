// Package compress wraps github.com/klauspost/compress's gzip and zlib
// implementations behind a small pair of types shared by the NBT file
// façade: a Reader that auto-detects or is told its framing, and a
// WriteCloser that optionally takes ownership of the underlying stream.
package compress

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	kgzip "github.com/klauspost/compress/gzip"
	kzlib "github.com/klauspost/compress/zlib"
)

// ErrMalformed reports a corrupt compressed stream: a bad magic number,
// header, or checksum mismatch.
var ErrMalformed = errors.New("compress: malformed stream")

// Framing selects which compression, if any, wraps a stream.
type Framing int

const (
	// None passes bytes through unmodified.
	None Framing = iota
	GZip
	ZLib
	// AutoDetect inspects the stream's first byte to choose GZip, ZLib,
	// or None. Valid only for readers.
	AutoDetect
)

// Lead bytes recognized by AutoDetect: gzip's magic number, zlib's most
// common CMF byte (32K window, deflate), and the NBT tag type for an
// uncompressed Compound root.
const (
	gzipMagic       = 0x1f
	zlibMagic       = 0x78
	compoundTagByte = 0x0a
)

// NewReader returns a reader that decompresses r according to framing.
// AutoDetect peeks one byte through a small buffered reader to decide;
// any lead byte other than the three recognized magics is ErrMalformed.
func NewReader(r io.Reader, framing Framing) (io.Reader, error) {
	switch framing {
	case None:
		return r, nil
	case GZip:
		gr, err := kgzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("compress: %w: %v", ErrMalformed, err)
		}
		return gr, nil
	case ZLib:
		zr, err := kzlib.NewReader(r)
		if err != nil {
			return nil, mapZlibErr(err)
		}
		return &checksummedReader{r: zr}, nil
	case AutoDetect:
		br := bufio.NewReaderSize(r, 16)
		lead, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return br, nil
			}
			return nil, err
		}
		switch lead[0] {
		case gzipMagic:
			return NewReader(br, GZip)
		case zlibMagic:
			return NewReader(br, ZLib)
		case compoundTagByte:
			return br, nil
		default:
			return nil, fmt.Errorf("compress: %w: unrecognized lead byte 0x%02x", ErrMalformed, lead[0])
		}
	default:
		return nil, fmt.Errorf("compress: unknown framing %d", framing)
	}
}

// checksummedReader surfaces klauspost/compress/zlib's ErrChecksum as
// ErrMalformed instead of leaking the stdlib sentinel.
type checksummedReader struct {
	r io.ReadCloser
}

func (c *checksummedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if err != nil && err != io.EOF {
		return n, mapZlibErr(err)
	}
	return n, err
}

func mapZlibErr(err error) error {
	if errors.Is(err, kzlib.ErrChecksum) || errors.Is(err, kzlib.ErrHeader) || errors.Is(err, kzlib.ErrDictionary) {
		return fmt.Errorf("compress: %w: %v", ErrMalformed, err)
	}
	return err
}

// WriteCloser wraps a compressing writer. Close flushes the compression
// trailer and, if CloseUnderlying was requested, also closes the wrapped
// stream (only when it implements io.Closer).
type WriteCloser struct {
	inner           io.WriteCloser
	underlying      io.Writer
	closeUnderlying bool
}

// NewWriter returns a WriteCloser compressing into w according to
// framing (None or GZip or ZLib; AutoDetect is invalid here).
// closeUnderlying controls whether Close also closes w.
func NewWriter(w io.Writer, framing Framing, closeUnderlying bool) (*WriteCloser, error) {
	switch framing {
	case None:
		return &WriteCloser{inner: nopWriteCloser{w}, underlying: w, closeUnderlying: closeUnderlying}, nil
	case GZip:
		return &WriteCloser{inner: kgzip.NewWriter(w), underlying: w, closeUnderlying: closeUnderlying}, nil
	case ZLib:
		return &WriteCloser{inner: kzlib.NewWriter(w), underlying: w, closeUnderlying: closeUnderlying}, nil
	default:
		return nil, fmt.Errorf("compress: framing %d invalid for a writer", framing)
	}
}

func (wc *WriteCloser) Write(p []byte) (int, error) { return wc.inner.Write(p) }

// Close flushes the compression trailer, then closes the underlying
// stream if the writer was constructed with closeUnderlying set.
func (wc *WriteCloser) Close() error {
	if err := wc.inner.Close(); err != nil {
		return err
	}
	if wc.closeUnderlying {
		if closer, ok := wc.underlying.(io.Closer); ok {
			return closer.Close()
		}
	}
	return nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

package nbt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AchrafSoltani/nbt/internal/compress"
	"github.com/AchrafSoltani/nbt/internal/wire"
)

func toCompressFraming(c Compression) compress.Framing {
	switch c {
	case CompressionGZip:
		return compress.GZip
	case CompressionZLib:
		return compress.ZLib
	case CompressionAutoDetect:
		return compress.AutoDetect
	default:
		return compress.None
	}
}

// Load reads and decodes the tag tree stored at path.
func Load(path string, opts ...Option) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f, opts...)
}

// LoadReader decodes a tag tree from r, applying compression
// auto-detection (peeking the stream's first bytes) per the configured
// Compression option.
func LoadReader(r io.Reader, opts ...Option) (*Tag, error) {
	o := resolveOptions(opts)
	if o.bufferSize > 0 {
		r = bufio.NewReaderSize(r, o.bufferSize)
	}
	decompressed, err := compress.NewReader(r, toCompressFraming(o.compression))
	if err != nil {
		if errors.Is(err, compress.ErrMalformed) {
			return nil, fmt.Errorf("nbt: Load: %w: %w", ErrMalformed, err)
		}
		return nil, fmt.Errorf("nbt: Load: %w", err)
	}
	codec := wire.NewCodec(decompressed, nil, o.bigEndian)
	root, err := ReadTree(codec, o.selector)
	if err != nil && errors.Is(err, compress.ErrMalformed) {
		return nil, fmt.Errorf("nbt: Load: %w: %w", ErrMalformed, err)
	}
	return root, err
}

// Save encodes root and writes it to path, creating or truncating the
// file.
func Save(path string, root *Tag, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return SaveWriter(f, root, opts...)
}

// SaveWriter encodes root to w under the configured Compression framing.
// CompressionAutoDetect is invalid on a write path.
func SaveWriter(w io.Writer, root *Tag, opts ...Option) error {
	o := resolveOptions(opts)
	if o.compression == CompressionAutoDetect {
		return fmt.Errorf("nbt: SaveWriter: AutoDetect is only valid for loads: %w", ErrInvalidArgument)
	}
	compressed, err := compress.NewWriter(w, toCompressFraming(o.compression), false)
	if err != nil {
		return fmt.Errorf("nbt: SaveWriter: %w", err)
	}
	codec := wire.NewCodec(nil, compressed, o.bigEndian)
	if err := WriteTree(codec, root); err != nil {
		return err
	}
	return compressed.Close()
}

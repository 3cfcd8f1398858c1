package nbt

import (
	"errors"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

// Sentinel error kinds surfaced at the package boundary. Call sites wrap
// these with context via fmt.Errorf("nbt: ...: %w", ErrX) so callers can
// still match with errors.Is while getting a useful message.
var (
	// ErrMalformed covers structurally invalid input: negative lengths,
	// an invalid tag-type byte, invalid UTF-8, a bad root tag type, or,
	// on Load/LoadReader, a corrupt compression header, an unrecognized
	// lead byte, or a zlib Adler-32 mismatch. It is the wire codec's own
	// sentinel, so codec-level failures match it too.
	ErrMalformed = wire.ErrMalformed

	// ErrTruncated means the byte source ended in the middle of a tag.
	// Like ErrMalformed, it is the wire codec's own sentinel.
	ErrTruncated = wire.ErrTruncated

	// ErrTypeMismatch means a widening accessor was asked for a
	// conversion the source tag type doesn't support.
	ErrTypeMismatch = errors.New("nbt: type mismatch")

	// ErrInvalidState means the pull-reader operation is illegal given
	// the reader's current position (e.g. ReadValue outside a value tag,
	// ReadAsTag or Skip on an End marker).
	ErrInvalidState = errors.New("nbt: invalid state")

	// ErrInvalidArgument means a parameter was nil or out of range.
	ErrInvalidArgument = errors.New("nbt: invalid argument")

	// ErrFormat means a push-writer or tree-writer structural
	// constraint was violated (unclosed frame, missing or forbidden
	// name, EndCompound/EndList outside its frame, a list given more or
	// fewer elements than declared, list with an undetermined element
	// type at serialize time).
	ErrFormat = errors.New("nbt: format error")

	// ErrInvalidReaderState means a pull reader previously latched into
	// an error state and is refusing further non-idempotent operations.
	ErrInvalidReaderState = errors.New("nbt: reader is in an error state")
)

package nbt

import "sync"

// Compression selects the framing applied when loading or saving through
// the file façade (file.go).
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZip
	CompressionZLib
	// CompressionAutoDetect is only legal on read; it is rejected with
	// ErrInvalidArgument if passed to a Save/SaveWriter/NewPushWriter call.
	CompressionAutoDetect
)

var defaultsMu sync.RWMutex
var defaultBufferSize = 4096
var defaultIndent = "    "

// DefaultBufferSize returns the process-wide default internal read-buffer
// size used by file/stream loaders that don't specify WithBufferSize.
func DefaultBufferSize() int {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultBufferSize
}

// SetDefaultBufferSize changes the process-wide default. It does not
// affect readers/writers already constructed — Options snapshot the
// default at construction time. Callers mutating this from more than one
// goroutine must still synchronize with their own calls to NewPullReader,
// NewPushWriter, Load, etc., externally; the internal lock only prevents a
// torn read of the integer itself.
func SetDefaultBufferSize(n int) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultBufferSize = n
}

// DefaultIndent returns the process-wide default indent string used by
// PrettyPrint when no explicit indent is supplied.
func DefaultIndent() string {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultIndent
}

// SetDefaultIndent changes the process-wide default indent string. See
// SetDefaultBufferSize for the synchronization caveat.
func SetDefaultIndent(s string) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultIndent = s
}

// TagHeader is the partially-populated view of a tag a Selector inspects
// before its payload is decoded: type, name and the parent chain are
// known, but list/compound contents are not yet read.
type TagHeader struct {
	Type   TagType
	Name   string
	Path   string
	Parent *Tag
}

// Selector is a per-tag predicate applied while loading a tree (ReadTree,
// Load, LoadReader). Returning false skips the tag's payload without
// materializing it. The pull reader does not consult it.
type Selector func(h *TagHeader) bool

// options holds the resolved configuration for a reader, writer, or
// file-façade call, snapshotted from the process-wide defaults plus
// whatever Options were passed.
type options struct {
	bigEndian      bool
	bufferSize     int
	compression    Compression
	selector       Selector
	skipEndTags    bool
	cacheTagValues bool
}

func newOptions() options {
	return options{
		bigEndian:   true,
		bufferSize:  DefaultBufferSize(),
		compression: CompressionNone,
		skipEndTags: true,
	}
}

// Option configures a reader, writer, or file-façade call.
type Option func(*options)

// WithBigEndian selects the wire byte order. NBT defaults to big-endian;
// pass false to read/write little-endian streams.
func WithBigEndian(bigEndian bool) Option {
	return func(o *options) { o.bigEndian = bigEndian }
}

// WithBufferSize sets the internal read-buffer size for file/stream
// loaders. 0 means unbuffered.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithCompression selects the compression framing for a Load/Save call.
// CompressionAutoDetect is only valid for loads.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithSelector installs a per-tag filter applied during tree loads. A
// pull reader ignores it.
func WithSelector(s Selector) Option {
	return func(o *options) { o.selector = s }
}

// WithSkipEndTags controls whether a pull reader hides TagEnd markers
// from ReadToFollowing et al. Defaults to true.
func WithSkipEndTags(skip bool) Option {
	return func(o *options) { o.skipEndTags = skip }
}

// WithCacheTagValues enables memoizing ReadValue's result on a pull
// reader so repeated reads of the same position don't re-read the stream.
func WithCacheTagValues(cache bool) Option {
	return func(o *options) { o.cacheTagValues = cache }
}

func resolveOptions(opts []Option) options {
	o := newOptions()
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

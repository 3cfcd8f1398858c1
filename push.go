package nbt

import (
	"fmt"
	"io"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

// writerFrame records one open compound or list on the push writer's
// frame stack.
type writerFrame struct {
	isList       bool
	listElemType TagType
	listSize     int32
	listIndex    int32
}

// Writer is a sink that accepts a sequence of emit calls corresponding
// to tag output and enforces every structural rule — name presence,
// list element type, list arity — at call time, writing directly to the
// wire as each call is made rather than building an in-memory tree first.
type Writer struct {
	codec    *wire.Codec
	counting *wire.CountingWriter
	opts     options
	frames   []writerFrame
	finished bool
}

// NewPushWriter returns a Writer that opens a root compound named
// rootName and writes through w.
func NewPushWriter(w io.Writer, rootName string, opts ...Option) (*Writer, error) {
	o := resolveOptions(opts)
	if o.compression == CompressionAutoDetect {
		return nil, fmt.Errorf("nbt: NewPushWriter: AutoDetect is only valid for loads: %w", ErrInvalidArgument)
	}
	counting := wire.NewCountingWriter(w)
	codec := wire.NewCodec(nil, counting, o.bigEndian)
	if err := codec.WriteU8(byte(TagCompound)); err != nil {
		return nil, err
	}
	if err := codec.WriteString(rootName); err != nil {
		return nil, err
	}
	return &Writer{codec: codec, counting: counting, opts: o, frames: []writerFrame{{}}}, nil
}

// BytesWritten returns the total number of bytes emitted to the
// underlying stream so far, including the root header written by
// NewPushWriter.
func (w *Writer) BytesWritten() int64 { return w.counting.BytesWritten() }

// enforce validates a candidate emit against the current frame's rules
// and, for a list frame, advances its element index on success.
func (w *Writer) enforce(name string, desired TagType) error {
	if w.finished {
		return fmt.Errorf("nbt: write after Finish: %w", ErrFormat)
	}
	if len(w.frames) == 0 {
		return fmt.Errorf("nbt: no open frame: %w", ErrFormat)
	}
	top := &w.frames[len(w.frames)-1]
	if top.isList {
		if name != "" {
			return fmt.Errorf("nbt: name %q given for a list element, names are not permitted in list context: %w", name, ErrFormat)
		}
		if desired != top.listElemType {
			return fmt.Errorf("nbt: list element type %s does not match declared type %s: %w", desired, top.listElemType, ErrFormat)
		}
		if top.listIndex >= top.listSize {
			return fmt.Errorf("nbt: list already has its declared %d elements: %w", top.listSize, ErrFormat)
		}
		top.listIndex++
		return nil
	}
	if name == "" {
		return fmt.Errorf("nbt: compound member requires a name: %w", ErrFormat)
	}
	return nil
}

func (w *Writer) emitHeader(name string, typ TagType) error {
	top := &w.frames[len(w.frames)-1]
	if top.isList {
		return nil
	}
	if err := w.codec.WriteU8(byte(typ)); err != nil {
		return err
	}
	return w.codec.WriteString(name)
}

// WriteByte emits a Byte tag named name (name must be "" in list
// context).
func (w *Writer) WriteByte(name string, v byte) error {
	if err := w.enforce(name, TagByte); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagByte); err != nil {
		return err
	}
	return w.codec.WriteU8(v)
}

func (w *Writer) WriteShort(name string, v int16) error {
	if err := w.enforce(name, TagShort); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagShort); err != nil {
		return err
	}
	return w.codec.WriteI16(v)
}

func (w *Writer) WriteInt(name string, v int32) error {
	if err := w.enforce(name, TagInt); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagInt); err != nil {
		return err
	}
	return w.codec.WriteI32(v)
}

func (w *Writer) WriteLong(name string, v int64) error {
	if err := w.enforce(name, TagLong); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagLong); err != nil {
		return err
	}
	return w.codec.WriteI64(v)
}

func (w *Writer) WriteFloat(name string, v float32) error {
	if err := w.enforce(name, TagFloat); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagFloat); err != nil {
		return err
	}
	return w.codec.WriteF32(v)
}

func (w *Writer) WriteDouble(name string, v float64) error {
	if err := w.enforce(name, TagDouble); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagDouble); err != nil {
		return err
	}
	return w.codec.WriteF64(v)
}

func (w *Writer) WriteString(name string, v string) error {
	if err := w.enforce(name, TagString); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagString); err != nil {
		return err
	}
	return w.codec.WriteString(v)
}

// WriteByteArray emits a complete ByteArray tag from v.
func (w *Writer) WriteByteArray(name string, v []byte) error {
	if err := w.enforce(name, TagByteArray); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagByteArray); err != nil {
		return err
	}
	if err := w.codec.WriteI32(int32(len(v))); err != nil {
		return err
	}
	return w.codec.WriteByteSlice(v)
}

// WriteByteArrayFrom emits a ByteArray tag of count bytes streamed from
// r, using buf as scratch space (an 8 KiB buffer is allocated if buf is
// nil).
func (w *Writer) WriteByteArrayFrom(name string, r io.Reader, count int64, buf []byte) error {
	if count < 0 || count > 1<<31-1 {
		return fmt.Errorf("nbt: byte array count %d out of range: %w", count, ErrInvalidArgument)
	}
	if err := w.enforce(name, TagByteArray); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagByteArray); err != nil {
		return err
	}
	if err := w.codec.WriteI32(int32(count)); err != nil {
		return err
	}
	return w.codec.WriteBytesFrom(r, count, buf)
}

func (w *Writer) WriteIntArray(name string, v []int32) error {
	if err := w.enforce(name, TagIntArray); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagIntArray); err != nil {
		return err
	}
	if err := w.codec.WriteI32(int32(len(v))); err != nil {
		return err
	}
	return w.codec.WriteIntArray(v)
}

func (w *Writer) WriteLongArray(name string, v []int64) error {
	if err := w.enforce(name, TagLongArray); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagLongArray); err != nil {
		return err
	}
	if err := w.codec.WriteI32(int32(len(v))); err != nil {
		return err
	}
	return w.codec.WriteLongArray(v)
}

// BeginCompound opens a nested compound named name.
func (w *Writer) BeginCompound(name string) error {
	if err := w.enforce(name, TagCompound); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagCompound); err != nil {
		return err
	}
	w.frames = append(w.frames, writerFrame{})
	return nil
}

// EndCompound closes the innermost open compound, writing its End byte.
func (w *Writer) EndCompound() error {
	if len(w.frames) == 0 {
		return fmt.Errorf("nbt: EndCompound: no open frame: %w", ErrFormat)
	}
	top := w.frames[len(w.frames)-1]
	if top.isList {
		return fmt.Errorf("nbt: EndCompound: innermost open frame is a list: %w", ErrFormat)
	}
	if err := w.codec.WriteU8(byte(TagEnd)); err != nil {
		return err
	}
	w.frames = w.frames[:len(w.frames)-1]
	if len(w.frames) == 0 {
		w.finished = true
	}
	return nil
}

// BeginList opens a list named name with the given element type and
// declared size. elementType may be TagEnd or TagUnknown only when
// size == 0.
func (w *Writer) BeginList(name string, elementType TagType, size int32) error {
	if size < 0 {
		return fmt.Errorf("nbt: BeginList: negative size %d: %w", size, ErrInvalidArgument)
	}
	if !elementType.IsValidWireType() && elementType != TagUnknown {
		return fmt.Errorf("nbt: BeginList: invalid element type %s: %w", elementType, ErrInvalidArgument)
	}
	if (elementType == TagEnd || elementType == TagUnknown) && size != 0 {
		return fmt.Errorf("nbt: BeginList: element type %s requires size 0, got %d: %w", elementType, size, ErrInvalidArgument)
	}
	if err := w.enforce(name, TagList); err != nil {
		return err
	}
	if err := w.emitHeader(name, TagList); err != nil {
		return err
	}
	wireElemType := elementType
	if wireElemType == TagUnknown {
		wireElemType = TagEnd
	}
	if err := w.codec.WriteU8(byte(wireElemType)); err != nil {
		return err
	}
	if err := w.codec.WriteI32(size); err != nil {
		return err
	}
	w.frames = append(w.frames, writerFrame{isList: true, listElemType: wireElemType, listSize: size})
	return nil
}

// EndList closes the innermost open list. Fails with ErrFormat unless
// every declared element has been written.
func (w *Writer) EndList() error {
	if len(w.frames) == 0 {
		return fmt.Errorf("nbt: EndList: no open frame: %w", ErrFormat)
	}
	top := w.frames[len(w.frames)-1]
	if !top.isList {
		return fmt.Errorf("nbt: EndList: innermost open frame is a compound: %w", ErrFormat)
	}
	if top.listIndex != top.listSize {
		return fmt.Errorf("nbt: EndList: not all list elements written: expected %d, written %d: %w", top.listSize, top.listIndex, ErrFormat)
	}
	w.frames = w.frames[:len(w.frames)-1]
	return nil
}

// WriteTag emits t in whatever context (named/unnamed) the writer
// currently expects: named when inside a compound, unnamed when inside a
// list. Compound/List tags are emitted recursively via BeginCompound/
// BeginList and their children.
//
// Per the documented historical behavior this rewrite preserves, a
// compound nested inside a list is NOT checked for duplicate member
// names by this call — only Compound.Add (tree-building) enforces that.
func (w *Writer) WriteTag(name string, t *Tag) error {
	switch t.typ {
	case TagByte:
		return w.WriteByte(name, t.b)
	case TagShort:
		return w.WriteShort(name, t.i16)
	case TagInt:
		return w.WriteInt(name, t.i32)
	case TagLong:
		return w.WriteLong(name, t.i64)
	case TagFloat:
		return w.WriteFloat(name, t.f32)
	case TagDouble:
		return w.WriteDouble(name, t.f64)
	case TagString:
		return w.WriteString(name, t.str)
	case TagByteArray:
		return w.WriteByteArray(name, t.bytes)
	case TagIntArray:
		return w.WriteIntArray(name, t.ints)
	case TagLongArray:
		return w.WriteLongArray(name, t.longs)
	case TagCompound:
		if err := w.BeginCompound(name); err != nil {
			return err
		}
		for _, child := range t.children {
			if err := w.WriteTag(child.name, child); err != nil {
				return err
			}
		}
		return w.EndCompound()
	case TagList:
		elemType := t.elemType
		if elemType == TagUnknown {
			elemType = TagEnd
		}
		if err := w.BeginList(name, elemType, int32(len(t.children))); err != nil {
			return err
		}
		for _, child := range t.children {
			if err := w.WriteTag("", child); err != nil {
				return err
			}
		}
		return w.EndList()
	default:
		return fmt.Errorf("nbt: cannot write tag of type %s: %w", t.typ, ErrFormat)
	}
}

// Finish verifies every compound/list frame has been closed. It writes
// no bytes of its own.
func (w *Writer) Finish() error {
	if len(w.frames) != 0 {
		return fmt.Errorf("nbt: Finish: %d frame(s) still open: %w", len(w.frames), ErrFormat)
	}
	w.finished = true
	return nil
}

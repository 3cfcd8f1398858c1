// Package nbt implements the Named Binary Tag format: an in-memory tag
// tree with structural invariants (tag.go, compound.go, list.go), a
// recursive tree reader/writer (tree_reader.go, tree_writer.go), a
// token-style pull reader (pull.go), a constraint-enforcing push writer
// (push.go), and a file façade with compression auto-detection (file.go).
package nbt

import (
	"fmt"
	"strconv"
)

// Tag is a single node of an NBT tree: a discriminated union over the
// twelve wire tag types plus the in-memory-only Unknown list marker.
// Scalars and arrays are stored inline; List and Compound store their
// children directly. A Tag created by one of the New* constructors is
// detached (Parent() == nil) until it is added to a Compound or List.
type Tag struct {
	typ   TagType
	name  string
	named bool

	parent *Tag

	b   byte
	i16 int16
	i32 int32
	i64 int64
	f32 float32
	f64 float64
	str string

	bytes []byte
	ints  []int32
	longs []int64

	elemType TagType
	children []*Tag

	index map[string]*Tag // Compound only: name -> child
}

// NewByte returns a detached Byte tag.
func NewByte(v byte) *Tag { return &Tag{typ: TagByte, b: v} }

// NewShort returns a detached Short tag.
func NewShort(v int16) *Tag { return &Tag{typ: TagShort, i16: v} }

// NewInt returns a detached Int tag.
func NewInt(v int32) *Tag { return &Tag{typ: TagInt, i32: v} }

// NewLong returns a detached Long tag.
func NewLong(v int64) *Tag { return &Tag{typ: TagLong, i64: v} }

// NewFloat returns a detached Float tag.
func NewFloat(v float32) *Tag { return &Tag{typ: TagFloat, f32: v} }

// NewDouble returns a detached Double tag.
func NewDouble(v float64) *Tag { return &Tag{typ: TagDouble, f64: v} }

// NewString returns a detached String tag.
func NewString(v string) *Tag { return &Tag{typ: TagString, str: v} }

// NewByteArray returns a detached ByteArray tag. The slice is used
// directly, not copied.
func NewByteArray(v []byte) *Tag {
	if v == nil {
		v = []byte{}
	}
	return &Tag{typ: TagByteArray, bytes: v}
}

// NewIntArray returns a detached IntArray tag. The slice is used
// directly, not copied.
func NewIntArray(v []int32) *Tag {
	if v == nil {
		v = []int32{}
	}
	return &Tag{typ: TagIntArray, ints: v}
}

// NewLongArray returns a detached LongArray tag. The slice is used
// directly, not copied.
func NewLongArray(v []int64) *Tag {
	if v == nil {
		v = []int64{}
	}
	return &Tag{typ: TagLongArray, longs: v}
}

// NewList returns a detached, empty List tag with the given element
// type. Pass TagUnknown for "undetermined until the first element is
// added"; TagEnd is also accepted on an empty list for compatibility with
// historical files that encode empty lists that way.
func NewList(elementType TagType) *Tag {
	return &Tag{typ: TagList, elemType: elementType, children: []*Tag{}}
}

// NewCompound returns a detached, empty Compound tag.
func NewCompound() *Tag {
	return &Tag{typ: TagCompound, children: []*Tag{}, index: map[string]*Tag{}}
}

// Type returns the tag's own wire type. For a List tag this is always
// TagList; use ElementType for the list's element type.
func (t *Tag) Type() TagType { return t.typ }

// Name returns the tag's name, or "" if it has none. Use HasName to
// distinguish an empty name from no name at all.
func (t *Tag) Name() string { return t.name }

// HasName reports whether the tag has been given a name: true for every
// tag owned by a Compound and for a root read from the wire (a Clone keeps
// the flag), false for list elements, tags made by the New* constructors,
// and tags removed from a parent.
func (t *Tag) HasName() bool { return t.named }

// Parent returns the tag's parent, or nil if the tag is detached.
func (t *Tag) Parent() *Tag { return t.parent }

// Path returns a dotted/bracketed path uniquely identifying the tag
// within its root: a child of a compound contributes ".name", a child of
// a list contributes "[index]".
func (t *Tag) Path() string {
	if t.parent == nil {
		if t.named {
			return t.name
		}
		return ""
	}
	switch t.parent.typ {
	case TagCompound:
		return t.parent.Path() + "." + t.name
	case TagList:
		idx := t.parent.IndexOf(t)
		return fmt.Sprintf("%s[%d]", t.parent.Path(), idx)
	default:
		return t.parent.Path()
	}
}

// Clone returns a deep, fully detached copy of t and its entire subtree.
func (t *Tag) Clone() *Tag {
	c := &Tag{
		typ: t.typ, name: t.name, named: t.named,
		b: t.b, i16: t.i16, i32: t.i32, i64: t.i64, f32: t.f32, f64: t.f64, str: t.str,
		elemType: t.elemType,
	}
	if t.bytes != nil {
		c.bytes = append([]byte(nil), t.bytes...)
	}
	if t.ints != nil {
		c.ints = append([]int32(nil), t.ints...)
	}
	if t.longs != nil {
		c.longs = append([]int64(nil), t.longs...)
	}
	if t.children != nil {
		c.children = make([]*Tag, len(t.children))
		for i, ch := range t.children {
			cc := ch.Clone()
			cc.parent = c
			c.children[i] = cc
		}
	}
	if t.typ == TagCompound {
		c.index = map[string]*Tag{}
		for _, ch := range c.children {
			c.index[ch.name] = ch
		}
	}
	return c
}

// --- Native (unchecked) per-variant accessors ---
//
// These return the tag's own stored value and the zero value if the tag
// is not of the matching type — no widening, no error. They exist for
// callers (the tree/pull/push machinery) that already know the tag's
// exact type from TagType() and want the payload without ceremony.

func (t *Tag) ByteValue() byte {
	if t.typ == TagByte {
		return t.b
	}
	return 0
}

func (t *Tag) ShortValue() int16 {
	if t.typ == TagShort {
		return t.i16
	}
	return 0
}

func (t *Tag) IntValue() int32 {
	if t.typ == TagInt {
		return t.i32
	}
	return 0
}

func (t *Tag) LongValue() int64 {
	if t.typ == TagLong {
		return t.i64
	}
	return 0
}

func (t *Tag) FloatValue() float32 {
	if t.typ == TagFloat {
		return t.f32
	}
	return 0
}

func (t *Tag) DoubleValue() float64 {
	if t.typ == TagDouble {
		return t.f64
	}
	return 0
}

func (t *Tag) StringValue() string {
	if t.typ == TagString {
		return t.str
	}
	return ""
}

func (t *Tag) ByteArrayValue() []byte {
	if t.typ == TagByteArray {
		return t.bytes
	}
	return nil
}

func (t *Tag) IntArrayValue() []int32 {
	if t.typ == TagIntArray {
		return t.ints
	}
	return nil
}

func (t *Tag) LongArrayValue() []int64 {
	if t.typ == TagLongArray {
		return t.longs
	}
	return nil
}

// ElementType returns a List tag's element type (TagUnknown or TagEnd for
// an empty list that hasn't settled on a concrete type). Returns
// TagUnknown for any non-List tag.
func (t *Tag) ElementType() TagType {
	if t.typ == TagList {
		return t.elemType
	}
	return TagUnknown
}

// Len returns the number of elements for List, ByteArray, IntArray,
// LongArray and Compound tags, and 0 for scalars.
func (t *Tag) Len() int {
	switch t.typ {
	case TagList, TagCompound:
		return len(t.children)
	case TagByteArray:
		return len(t.bytes)
	case TagIntArray:
		return len(t.ints)
	case TagLongArray:
		return len(t.longs)
	default:
		return 0
	}
}

// --- Widening accessors (§4.C) ---
//
// AsByte widens only from Byte. Every other As* accessor widens from a
// strictly growing set of source types as documented in SPEC_FULL.md
// §4.C; any other source type fails with ErrTypeMismatch.

func (t *Tag) AsByte() (byte, error) {
	if t.typ == TagByte {
		return t.b, nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Byte: %w", t.typ, ErrTypeMismatch)
}

func (t *Tag) AsShort() (int16, error) {
	switch t.typ {
	case TagByte:
		return int16(t.b), nil
	case TagShort:
		return t.i16, nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Short: %w", t.typ, ErrTypeMismatch)
}

func (t *Tag) AsInt() (int32, error) {
	switch t.typ {
	case TagByte:
		return int32(t.b), nil
	case TagShort:
		return int32(t.i16), nil
	case TagInt:
		return t.i32, nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Int: %w", t.typ, ErrTypeMismatch)
}

func (t *Tag) AsLong() (int64, error) {
	switch t.typ {
	case TagByte:
		return int64(t.b), nil
	case TagShort:
		return int64(t.i16), nil
	case TagInt:
		return int64(t.i32), nil
	case TagLong:
		return t.i64, nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Long: %w", t.typ, ErrTypeMismatch)
}

// AsFloat32 widens Byte/Short/Int/Long/Float exactly or with precision
// loss, and narrows Double to Float32 (permitted per spec for
// compatibility with historical accessors).
func (t *Tag) AsFloat32() (float32, error) {
	switch t.typ {
	case TagByte:
		return float32(t.b), nil
	case TagShort:
		return float32(t.i16), nil
	case TagInt:
		return float32(t.i32), nil
	case TagLong:
		return float32(t.i64), nil
	case TagFloat:
		return t.f32, nil
	case TagDouble:
		return float32(t.f64), nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Float: %w", t.typ, ErrTypeMismatch)
}

func (t *Tag) AsFloat64() (float64, error) {
	switch t.typ {
	case TagByte:
		return float64(t.b), nil
	case TagShort:
		return float64(t.i16), nil
	case TagInt:
		return float64(t.i32), nil
	case TagLong:
		return float64(t.i64), nil
	case TagFloat:
		return float64(t.f32), nil
	case TagDouble:
		return t.f64, nil
	}
	return 0, fmt.Errorf("nbt: cannot widen %s to Double: %w", t.typ, ErrTypeMismatch)
}

// AsString renders any scalar tag's value as a string; String tags
// return their value unchanged.
func (t *Tag) AsString() (string, error) {
	switch t.typ {
	case TagByte:
		return strconv.FormatUint(uint64(t.b), 10), nil
	case TagShort:
		return strconv.FormatInt(int64(t.i16), 10), nil
	case TagInt:
		return strconv.FormatInt(int64(t.i32), 10), nil
	case TagLong:
		return strconv.FormatInt(t.i64, 10), nil
	case TagFloat:
		return strconv.FormatFloat(float64(t.f32), 'g', -1, 32), nil
	case TagDouble:
		return strconv.FormatFloat(t.f64, 'g', -1, 64), nil
	case TagString:
		return t.str, nil
	}
	return "", fmt.Errorf("nbt: cannot widen %s to String: %w", t.typ, ErrTypeMismatch)
}

// detach clears t's parent link without touching the (former) parent's
// child storage; used internally by Compound/List removal, which handle
// their own storage update before or after calling this.
func (t *Tag) detach() {
	t.parent = nil
	t.named = false
	t.name = ""
}

package nbt

import (
	"fmt"
	"io"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

// readerFrame records one open container (compound or list) on the pull
// reader's frame stack.
type readerFrame struct {
	parentType   TagType
	parentName   string
	listElemType TagType
	listLength   int32
	listIndex    int32
}

// Reader is a cursor-style, token-at-a-time pull reader over a
// wire.Codec: it advances through tag headers in document order without
// materializing the whole tree.
type Reader struct {
	codec    *wire.Codec
	counting *wire.CountingReader
	opts     options

	positioned  bool
	atStreamEnd bool
	errState    error

	frames []readerFrame

	curType         TagType
	curName         string
	curNamed        bool
	curListElemType TagType
	curLength       int32
	hasLength       bool
	curListIndex    int32
	isListElement   bool
	pendingEnter    bool
	valueConsumed   bool
	cachedValue     any

	tagsRead       int64
	tagStartOffset int64
	rootName       string
}

// NewPullReader returns a Reader positioned before the first tag of r.
func NewPullReader(r io.Reader, opts ...Option) *Reader {
	o := resolveOptions(opts)
	counting := wire.NewCountingReader(r)
	return &Reader{
		codec:    wire.NewCodec(counting, nil, o.bigEndian),
		counting: counting,
		opts:     o,
	}
}

// --- Observable state ---

func (r *Reader) TagType() TagType     { return r.curType }
func (r *Reader) TagName() string      { return r.curName }
func (r *Reader) HasName() bool        { return r.curNamed }
func (r *Reader) HasValue() bool       { return isValueType(r.curType) }
func (r *Reader) HasLength() bool      { return r.hasLength }
func (r *Reader) TagLength() int32     { return r.curLength }
func (r *Reader) IsList() bool         { return r.curType == TagList }
func (r *Reader) IsCompound() bool     { return r.curType == TagCompound }
func (r *Reader) IsListElement() bool  { return r.isListElement }
func (r *Reader) ListIndex() int32     { return r.curListIndex }
func (r *Reader) Depth() int           { return len(r.frames) }
func (r *Reader) TagsRead() int64      { return r.tagsRead }
func (r *Reader) TagStartOffset() int64 { return r.tagStartOffset }
func (r *Reader) RootName() string     { return r.rootName }
func (r *Reader) IsInErrorState() bool { return r.errState != nil }
func (r *Reader) IsAtStreamEnd() bool  { return r.atStreamEnd }

// ListType returns the element type of the current List tag, or
// TagUnknown if the reader is not positioned on a List.
func (r *Reader) ListType() TagType {
	if r.curType == TagList {
		return r.curListElemType
	}
	return TagUnknown
}

// ParentType returns the type of the innermost open container, or
// TagUnknown at the root.
func (r *Reader) ParentType() TagType {
	if len(r.frames) == 0 {
		return TagUnknown
	}
	return r.frames[len(r.frames)-1].parentType
}

// ParentName returns the name of the innermost open container.
func (r *Reader) ParentName() string {
	if len(r.frames) == 0 {
		return ""
	}
	return r.frames[len(r.frames)-1].parentName
}

// ParentTagLength returns the declared element count of the innermost
// open list, or 0 outside list context.
func (r *Reader) ParentTagLength() int32 {
	if len(r.frames) == 0 || r.frames[len(r.frames)-1].parentType != TagList {
		return 0
	}
	return r.frames[len(r.frames)-1].listLength
}

func isValueType(t TagType) bool {
	switch t {
	case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble, TagString, TagByteArray, TagIntArray, TagLongArray:
		return true
	default:
		return false
	}
}

// --- Error latching ---

func (r *Reader) checkOperable() error {
	if r.errState != nil {
		return fmt.Errorf("nbt: reader latched on %v: %w", r.errState, ErrInvalidReaderState)
	}
	return nil
}

func (r *Reader) latch(err error) {
	if r.errState == nil {
		r.errState = err
	}
}

// --- Navigation ---

// ReadToFollowing advances to the next tag header in document order,
// descending into compounds and lists as needed. Returns false once the
// stream is exhausted.
func (r *Reader) ReadToFollowing() (bool, error) {
	if err := r.checkOperable(); err != nil {
		return false, err
	}
	if r.atStreamEnd {
		return false, nil
	}

	if !r.positioned {
		if err := r.readRoot(); err != nil {
			r.latch(err)
			return false, err
		}
		r.positioned = true
		return true, nil
	}

	if err := r.finalizeCurrent(); err != nil {
		r.latch(err)
		return false, err
	}

	for {
		if r.pendingEnter {
			if r.curType == TagCompound {
				r.frames = append(r.frames, readerFrame{parentType: TagCompound, parentName: r.curName})
			} else {
				r.frames = append(r.frames, readerFrame{parentType: TagList, parentName: r.curName, listElemType: r.curListElemType, listLength: r.curLength})
			}
			r.pendingEnter = false
		}
		if len(r.frames) == 0 {
			r.atStreamEnd = true
			return false, nil
		}
		top := &r.frames[len(r.frames)-1]
		if top.parentType == TagCompound {
			r.tagStartOffset = r.counting.BytesRead()
			childTypByte, err := r.codec.ReadU8()
			if err != nil {
				r.latch(err)
				return false, err
			}
			childTyp := TagType(childTypByte)
			if childTyp == TagEnd {
				r.frames = r.frames[:len(r.frames)-1]
				if !r.opts.skipEndTags {
					r.setEndMarker(*top)
					return true, nil
				}
				continue
			}
			if !childTyp.IsValidWireType() {
				err := fmt.Errorf("nbt: invalid tag type %d: %w", childTypByte, ErrMalformed)
				r.latch(err)
				return false, err
			}
			name, err := r.codec.ReadString()
			if err != nil {
				r.latch(err)
				return false, err
			}
			if err := r.setCurrentChild(childTyp, name, true, false, 0); err != nil {
				r.latch(err)
				return false, err
			}
			return true, nil
		}

		if top.listIndex >= top.listLength {
			r.frames = r.frames[:len(r.frames)-1]
			continue
		}
		idx := top.listIndex
		top.listIndex++
		r.tagStartOffset = r.counting.BytesRead()
		if err := r.setCurrentChild(top.listElemType, "", false, true, idx); err != nil {
			r.latch(err)
			return false, err
		}
		return true, nil
	}
}

// ReadToFollowingNamed repeats ReadToFollowing until a tag named name is
// found or the stream ends.
func (r *Reader) ReadToFollowingNamed(name string) (bool, error) {
	for {
		ok, err := r.ReadToFollowing()
		if err != nil || !ok {
			return ok, err
		}
		if r.curName == name {
			return true, nil
		}
	}
}

// ReadToDescendant advances only among descendants of the tag current
// when the call began, stopping when name is found or that container is
// exited.
func (r *Reader) ReadToDescendant(name string) (bool, error) {
	baseDepth := len(r.frames)
	for {
		ok, err := r.ReadToFollowing()
		if err != nil || !ok {
			return ok, err
		}
		if len(r.frames) <= baseDepth {
			return false, nil
		}
		if r.curName == name {
			return true, nil
		}
	}
}

// ReadToNextSibling skips to the next sibling of the current tag,
// exiting intermediate containers it may be positioned inside of.
// Reading past the last sibling returns false, leaving state positioned
// on the parent's successor.
func (r *Reader) ReadToNextSibling() (bool, error) {
	depth := len(r.frames)
	if _, err := r.Skip(); err != nil {
		return false, err
	}
	ok, err := r.ReadToFollowing()
	if err != nil || !ok {
		return false, err
	}
	if len(r.frames) < depth {
		return false, nil
	}
	return true, nil
}

// ReadToNextSiblingNamed repeats ReadToNextSibling until a matching name
// is found or siblings are exhausted.
func (r *Reader) ReadToNextSiblingNamed(name string) (bool, error) {
	for {
		ok, err := r.ReadToNextSibling()
		if err != nil || !ok {
			return ok, err
		}
		if r.curName == name {
			return true, nil
		}
	}
}

func (r *Reader) readRoot() error {
	r.tagStartOffset = r.counting.BytesRead()
	typByte, err := r.codec.ReadU8()
	if err != nil {
		return err
	}
	typ := TagType(typByte)
	if typ != TagCompound {
		return fmt.Errorf("nbt: root tag must be Compound, got %s: %w", typ, ErrMalformed)
	}
	name, err := r.codec.ReadString()
	if err != nil {
		return err
	}
	r.rootName = name
	return r.setCurrentChild(typ, name, true, false, 0)
}

// setCurrentChild positions the reader on a newly-encountered tag whose
// type byte (and, for a compound child, name) have just been consumed.
// For List and array types it also eagerly reads the length portion of
// the payload so TagLength/ListType are immediately observable.
func (r *Reader) setCurrentChild(typ TagType, name string, named bool, isListElement bool, listIndex int32) error {
	r.curType = typ
	r.curName = name
	r.curNamed = named
	r.isListElement = isListElement
	r.curListIndex = listIndex
	r.valueConsumed = false
	r.cachedValue = nil
	r.pendingEnter = false
	r.curListElemType = TagUnknown
	r.curLength = 0
	r.hasLength = false
	r.tagsRead++

	switch typ {
	case TagList:
		elemTypeByte, err := r.codec.ReadU8()
		if err != nil {
			return err
		}
		elemType := TagType(elemTypeByte)
		if elemType != TagEnd && !elemType.IsValidWireType() {
			return fmt.Errorf("nbt: invalid list element type %d: %w", elemTypeByte, ErrMalformed)
		}
		count, err := r.codec.ReadI32()
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("nbt: negative list length %d: %w", count, ErrMalformed)
		}
		r.curListElemType = elemType
		r.curLength = count
		r.hasLength = true
		r.pendingEnter = true
	case TagCompound:
		r.pendingEnter = true
	case TagByteArray, TagIntArray, TagLongArray:
		count, err := r.codec.ReadI32()
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("nbt: negative array length %d: %w", count, ErrMalformed)
		}
		r.curLength = count
		r.hasLength = true
	}
	return nil
}

func (r *Reader) setEndMarker(parent readerFrame) {
	r.curType = TagEnd
	r.curName = ""
	r.curNamed = false
	r.isListElement = false
	r.pendingEnter = false
	r.valueConsumed = true
	r.hasLength = false
}

// finalizeCurrent skips whatever remains of the current tag's payload if
// the caller never consumed it via ReadValue/ReadAsTag/Skip.
func (r *Reader) finalizeCurrent() error {
	if r.valueConsumed || r.pendingEnter {
		return nil
	}
	switch r.curType {
	case TagByte:
		return r.codec.Skip(1)
	case TagShort:
		return r.codec.Skip(2)
	case TagInt:
		return r.codec.Skip(4)
	case TagLong:
		return r.codec.Skip(8)
	case TagFloat:
		return r.codec.Skip(4)
	case TagDouble:
		return r.codec.Skip(8)
	case TagString:
		return r.codec.SkipString()
	case TagByteArray:
		return r.codec.Skip(int64(r.curLength))
	case TagIntArray:
		return r.codec.Skip(int64(r.curLength) * 4)
	case TagLongArray:
		return r.codec.Skip(int64(r.curLength) * 8)
	}
	return nil
}

// --- Value access ---

func readScalarValue(c *wire.Codec, typ TagType) (any, error) {
	switch typ {
	case TagByte:
		return c.ReadU8()
	case TagShort:
		return c.ReadI16()
	case TagInt:
		return c.ReadI32()
	case TagLong:
		return c.ReadI64()
	case TagFloat:
		return c.ReadF32()
	case TagDouble:
		return c.ReadF64()
	case TagString:
		return c.ReadString()
	}
	return nil, fmt.Errorf("nbt: %s is not a scalar type: %w", typ, ErrInvalidState)
}

func valueToTag(typ TagType, v any) *Tag {
	switch typ {
	case TagByte:
		return NewByte(v.(byte))
	case TagShort:
		return NewShort(v.(int16))
	case TagInt:
		return NewInt(v.(int32))
	case TagLong:
		return NewLong(v.(int64))
	case TagFloat:
		return NewFloat(v.(float32))
	case TagDouble:
		return NewDouble(v.(float64))
	case TagString:
		return NewString(v.(string))
	}
	return &Tag{typ: TagUnknown}
}

// ReadValue consumes the current value tag's payload and returns it as a
// native any (byte, int16, int32, int64, float32, float64, string,
// []byte, []int32, or []int64). Valid only on value tags.
func (r *Reader) ReadValue() (any, error) {
	if err := r.checkOperable(); err != nil {
		return nil, err
	}
	if !r.positioned || r.pendingEnter || !isValueType(r.curType) {
		return nil, fmt.Errorf("nbt: ReadValue: not positioned on a value tag: %w", ErrInvalidState)
	}
	if r.valueConsumed {
		if r.opts.cacheTagValues {
			return r.cachedValue, nil
		}
		return nil, fmt.Errorf("nbt: ReadValue: payload already consumed: %w", ErrInvalidState)
	}

	var v any
	var err error
	switch r.curType {
	case TagByteArray:
		v, err = r.codec.ReadByteSlice(r.curLength)
	case TagIntArray:
		v, err = r.codec.ReadIntArray(r.curLength)
	case TagLongArray:
		v, err = r.codec.ReadLongArray(r.curLength)
	default:
		v, err = readScalarValue(r.codec, r.curType)
	}
	if err != nil {
		r.latch(err)
		return nil, err
	}
	r.valueConsumed = true
	if r.opts.cacheTagValues {
		r.cachedValue = v
	}
	return v, nil
}

// ReadValueAsInt64 reads the current value and widens it to int64 using
// the same widening rules as Tag.AsLong.
func (r *Reader) ReadValueAsInt64() (int64, error) {
	typ := r.curType
	v, err := r.ReadValue()
	if err != nil {
		return 0, err
	}
	return valueToTag(typ, v).AsLong()
}

// ReadValueAsFloat64 reads the current value and widens it to float64
// using the same widening rules as Tag.AsFloat64.
func (r *Reader) ReadValueAsFloat64() (float64, error) {
	typ := r.curType
	v, err := r.ReadValue()
	if err != nil {
		return 0, err
	}
	return valueToTag(typ, v).AsFloat64()
}

// ReadValueAsString reads the current value and renders it as a string
// using the same widening rules as Tag.AsString.
func (r *Reader) ReadValueAsString() (string, error) {
	typ := r.curType
	v, err := r.ReadValue()
	if err != nil {
		return "", err
	}
	return valueToTag(typ, v).AsString()
}

// ReadListAsInt32Slice reads every element of the current List tag,
// widening each to int32. Fails with ErrInvalidState if the reader isn't
// positioned on a List, or the list's elements are Compound/List.
func (r *Reader) ReadListAsInt32Slice() ([]int32, error) {
	if err := r.checkOperable(); err != nil {
		return nil, err
	}
	if r.curType != TagList {
		return nil, fmt.Errorf("nbt: ReadListAsInt32Slice: not positioned on a List: %w", ErrInvalidState)
	}
	if r.curListElemType == TagCompound || r.curListElemType == TagList {
		return nil, fmt.Errorf("nbt: ReadListAsInt32Slice: element type %s cannot widen: %w", r.curListElemType, ErrInvalidState)
	}
	out := make([]int32, r.curLength)
	for i := int32(0); i < r.curLength; i++ {
		v, err := readScalarValue(r.codec, r.curListElemType)
		if err != nil {
			r.latch(err)
			return nil, err
		}
		widened, err := valueToTag(r.curListElemType, v).AsInt()
		if err != nil {
			return nil, err
		}
		out[i] = widened
	}
	r.pendingEnter = false
	r.valueConsumed = true
	return out, nil
}

// ReadListAsInt64Slice is ReadListAsInt32Slice widening to int64.
func (r *Reader) ReadListAsInt64Slice() ([]int64, error) {
	if err := r.checkOperable(); err != nil {
		return nil, err
	}
	if r.curType != TagList {
		return nil, fmt.Errorf("nbt: ReadListAsInt64Slice: not positioned on a List: %w", ErrInvalidState)
	}
	if r.curListElemType == TagCompound || r.curListElemType == TagList {
		return nil, fmt.Errorf("nbt: ReadListAsInt64Slice: element type %s cannot widen: %w", r.curListElemType, ErrInvalidState)
	}
	out := make([]int64, r.curLength)
	for i := int32(0); i < r.curLength; i++ {
		v, err := readScalarValue(r.codec, r.curListElemType)
		if err != nil {
			r.latch(err)
			return nil, err
		}
		widened, err := valueToTag(r.curListElemType, v).AsLong()
		if err != nil {
			return nil, err
		}
		out[i] = widened
	}
	r.pendingEnter = false
	r.valueConsumed = true
	return out, nil
}

// ReadListAsStringSlice renders each element of the current List tag as
// a string.
func (r *Reader) ReadListAsStringSlice() ([]string, error) {
	if err := r.checkOperable(); err != nil {
		return nil, err
	}
	if r.curType != TagList {
		return nil, fmt.Errorf("nbt: ReadListAsStringSlice: not positioned on a List: %w", ErrInvalidState)
	}
	if r.curListElemType == TagCompound || r.curListElemType == TagList {
		return nil, fmt.Errorf("nbt: ReadListAsStringSlice: element type %s cannot widen: %w", r.curListElemType, ErrInvalidState)
	}
	out := make([]string, r.curLength)
	for i := int32(0); i < r.curLength; i++ {
		v, err := readScalarValue(r.codec, r.curListElemType)
		if err != nil {
			r.latch(err)
			return nil, err
		}
		widened, err := valueToTag(r.curListElemType, v).AsString()
		if err != nil {
			return nil, err
		}
		out[i] = widened
	}
	r.pendingEnter = false
	r.valueConsumed = true
	return out, nil
}

// ReadAsTag materializes the current tag, and its entire subtree, as a
// detached *Tag and advances the reader past it.
func (r *Reader) ReadAsTag() (*Tag, error) {
	if err := r.checkOperable(); err != nil {
		return nil, err
	}
	if !r.positioned {
		return nil, fmt.Errorf("nbt: ReadAsTag: reader is not positioned: %w", ErrInvalidState)
	}
	if r.curType == TagEnd {
		return nil, fmt.Errorf("nbt: ReadAsTag: positioned on an End marker: %w", ErrInvalidState)
	}
	if !r.pendingEnter && r.valueConsumed {
		return nil, fmt.Errorf("nbt: ReadAsTag: payload already consumed: %w", ErrInvalidState)
	}

	var tag *Tag
	var err error
	switch r.curType {
	case TagCompound:
		tag, err = readCompoundValue(r.codec, r.curName, r.curNamed, nil, nil)
	case TagList:
		tag, err = r.materializeList()
	default:
		tag, err = r.materializeValue()
	}
	if err != nil {
		r.latch(err)
		return nil, err
	}
	r.pendingEnter = false
	r.valueConsumed = true
	return tag, nil
}

func (r *Reader) materializeList() (*Tag, error) {
	list := &Tag{typ: TagList, name: r.curName, named: r.curNamed, elemType: r.curListElemType, children: make([]*Tag, 0, r.curLength)}
	for i := int32(0); i < r.curLength; i++ {
		child, err := readValue(r.codec, r.curListElemType, "", false, list, nil)
		if err != nil {
			return nil, err
		}
		list.children = append(list.children, child)
	}
	return list, nil
}

func (r *Reader) materializeValue() (*Tag, error) {
	switch r.curType {
	case TagByteArray:
		data, err := r.codec.ReadByteSlice(r.curLength)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: TagByteArray, name: r.curName, named: r.curNamed, bytes: data}, nil
	case TagIntArray:
		data, err := r.codec.ReadIntArray(r.curLength)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: TagIntArray, name: r.curName, named: r.curNamed, ints: data}, nil
	case TagLongArray:
		data, err := r.codec.ReadLongArray(r.curLength)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: TagLongArray, name: r.curName, named: r.curNamed, longs: data}, nil
	default:
		v, err := readScalarValue(r.codec, r.curType)
		if err != nil {
			return nil, err
		}
		t := valueToTag(r.curType, v)
		t.name = r.curName
		t.named = r.curNamed
		return t, nil
	}
}

// --- Skip ---

// Skip discards the current tag and its entire subtree, returning the
// number of tags skipped (including the current one, excluding End
// markers).
func (r *Reader) Skip() (int64, error) {
	if err := r.checkOperable(); err != nil {
		return 0, err
	}
	if r.curType == TagEnd {
		return 0, fmt.Errorf("nbt: Skip: positioned on an End marker: %w", ErrInvalidState)
	}

	var n int64
	var err error
	switch r.curType {
	case TagCompound:
		n, err = skipCompoundRemainder(r.codec)
	case TagList:
		n = 1
		for i := int32(0); i < r.curLength && err == nil; i++ {
			var m int64
			m, err = skipAndCount(r.codec, r.curListElemType)
			n += m
		}
	default:
		if e := r.finalizeCurrent(); e != nil {
			err = e
		} else {
			n = 1
		}
	}
	if err != nil {
		r.latch(err)
		return 0, err
	}
	r.pendingEnter = false
	r.valueConsumed = true
	return n, nil
}

// skipAndCount discards a tag's payload (type byte and, for a named
// context, name already consumed by the caller) and returns 1 plus the
// count of every descendant tag skipped.
func skipAndCount(c *wire.Codec, typ TagType) (int64, error) {
	switch typ {
	case TagByte, TagShort, TagInt, TagLong, TagFloat, TagDouble, TagString, TagByteArray, TagIntArray, TagLongArray:
		if err := skipPayload(c, typ); err != nil {
			return 0, err
		}
		return 1, nil
	case TagList:
		elemTypeByte, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		count, err := c.ReadI32()
		if err != nil {
			return 0, err
		}
		if count < 0 {
			return 0, fmt.Errorf("nbt: negative list length %d: %w", count, ErrMalformed)
		}
		total := int64(1)
		for i := int32(0); i < count; i++ {
			n, err := skipAndCount(c, TagType(elemTypeByte))
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case TagCompound:
		return skipCompoundRemainder(c)
	default:
		return 0, fmt.Errorf("nbt: invalid tag type %d: %w", typ, ErrMalformed)
	}
}

func skipCompoundRemainder(c *wire.Codec) (int64, error) {
	total := int64(1)
	for {
		childTypByte, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		if TagType(childTypByte) == TagEnd {
			return total, nil
		}
		if err := c.SkipString(); err != nil {
			return 0, err
		}
		n, err := skipAndCount(c, TagType(childTypByte))
		if err != nil {
			return 0, err
		}
		total += n
	}
}

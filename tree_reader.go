package nbt

import (
	"fmt"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

// ReadTree reads a complete tag tree from c: a type byte, a name, and a
// payload, recursing into List and Compound payloads. The root tag must
// be a Compound (I-ROOT-COMPOUND); any other root type is ErrMalformed.
// selector may be nil; when non-nil, it is consulted before each tag's
// payload is read and a false result skips the payload without
// materializing it (the tag does not appear in the returned tree).
func ReadTree(c *wire.Codec, selector Selector) (*Tag, error) {
	typByte, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	typ := TagType(typByte)
	if typ != TagCompound {
		return nil, fmt.Errorf("nbt: root tag must be Compound, got %s: %w", typ, ErrMalformed)
	}
	name, err := c.ReadString()
	if err != nil {
		return nil, err
	}
	return readValue(c, typ, name, true, nil, selector)
}

// readValue reads the payload for a tag of the given type whose type
// byte and name have already been consumed, attaching it to parent (nil
// for the root). The tag's name/parent are set up front so that nested
// List/Compound payloads can compute correct Path values for their own
// children's selector headers.
func readValue(c *wire.Codec, typ TagType, name string, named bool, parent *Tag, selector Selector) (*Tag, error) {
	switch typ {
	case TagByte:
		v, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, b: v}, nil
	case TagShort:
		v, err := c.ReadI16()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, i16: v}, nil
	case TagInt:
		v, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, i32: v}, nil
	case TagLong:
		v, err := c.ReadI64()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, i64: v}, nil
	case TagFloat:
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, f32: v}, nil
	case TagDouble:
		v, err := c.ReadF64()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, f64: v}, nil
	case TagString:
		v, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, str: v}, nil
	case TagByteArray:
		n, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		data, err := c.ReadByteSlice(n)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, bytes: data}, nil
	case TagIntArray:
		n, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		data, err := c.ReadIntArray(n)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, ints: data}, nil
	case TagLongArray:
		n, err := c.ReadI32()
		if err != nil {
			return nil, err
		}
		data, err := c.ReadLongArray(n)
		if err != nil {
			return nil, err
		}
		return &Tag{typ: typ, name: name, named: named, parent: parent, longs: data}, nil
	case TagList:
		return readListValue(c, name, named, parent, selector)
	case TagCompound:
		return readCompoundValue(c, name, named, parent, selector)
	default:
		return nil, fmt.Errorf("nbt: invalid tag type %d: %w", byte(typ), ErrMalformed)
	}
}

func readListValue(c *wire.Codec, name string, named bool, parent *Tag, selector Selector) (*Tag, error) {
	elemTypeByte, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	elemType := TagType(elemTypeByte)
	if elemType != TagEnd && !elemType.IsValidWireType() {
		return nil, fmt.Errorf("nbt: invalid list element type %d: %w", elemTypeByte, ErrMalformed)
	}
	count, err := c.ReadI32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("nbt: negative list length %d: %w", count, ErrMalformed)
	}
	if elemType == TagEnd && count > 0 {
		return nil, fmt.Errorf("nbt: list declares End element type with %d elements: %w", count, ErrMalformed)
	}

	list := &Tag{typ: TagList, name: name, named: named, parent: parent, elemType: elemType, children: make([]*Tag, 0, count)}
	for i := int32(0); i < count; i++ {
		if selector != nil {
			header := &TagHeader{Type: elemType, Name: "", Path: fmt.Sprintf("%s[%d]", list.Path(), i), Parent: list}
			if !selector(header) {
				if err := skipPayload(c, elemType); err != nil {
					return nil, err
				}
				continue
			}
		}
		child, err := readValue(c, elemType, "", false, list, selector)
		if err != nil {
			return nil, err
		}
		list.children = append(list.children, child)
	}
	return list, nil
}

func readCompoundValue(c *wire.Codec, name string, named bool, parent *Tag, selector Selector) (*Tag, error) {
	compound := &Tag{typ: TagCompound, name: name, named: named, parent: parent, children: []*Tag{}, index: map[string]*Tag{}}
	for {
		childTypByte, err := c.ReadU8()
		if err != nil {
			return nil, err
		}
		childTyp := TagType(childTypByte)
		if childTyp == TagEnd {
			return compound, nil
		}
		if !childTyp.IsValidWireType() {
			return nil, fmt.Errorf("nbt: invalid tag type %d: %w", childTypByte, ErrMalformed)
		}
		childName, err := c.ReadString()
		if err != nil {
			return nil, err
		}
		if _, dup := compound.index[childName]; dup {
			return nil, fmt.Errorf("nbt: duplicate name %q in compound %q: %w", childName, compound.Path(), ErrMalformed)
		}
		if selector != nil {
			header := &TagHeader{Type: childTyp, Name: childName, Path: compound.Path() + "." + childName, Parent: compound}
			if !selector(header) {
				if err := skipPayload(c, childTyp); err != nil {
					return nil, err
				}
				continue
			}
		}
		child, err := readValue(c, childTyp, childName, true, compound, selector)
		if err != nil {
			return nil, err
		}
		compound.children = append(compound.children, child)
		compound.index[childName] = child
	}
}

// skipPayload discards a tag's payload without materializing it, given
// that its type byte (and, for a compound child, its name) have already
// been consumed.
func skipPayload(c *wire.Codec, typ TagType) error {
	switch typ {
	case TagByte:
		return c.Skip(1)
	case TagShort:
		return c.Skip(2)
	case TagInt:
		return c.Skip(4)
	case TagLong:
		return c.Skip(8)
	case TagFloat:
		return c.Skip(4)
	case TagDouble:
		return c.Skip(8)
	case TagString:
		return c.SkipString()
	case TagByteArray:
		n, err := c.ReadI32()
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("nbt: negative array length %d: %w", n, ErrMalformed)
		}
		return c.Skip(int64(n))
	case TagIntArray:
		n, err := c.ReadI32()
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("nbt: negative array length %d: %w", n, ErrMalformed)
		}
		return c.Skip(int64(n) * 4)
	case TagLongArray:
		n, err := c.ReadI32()
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("nbt: negative array length %d: %w", n, ErrMalformed)
		}
		return c.Skip(int64(n) * 8)
	case TagList:
		elemTypeByte, err := c.ReadU8()
		if err != nil {
			return err
		}
		count, err := c.ReadI32()
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("nbt: negative list length %d: %w", count, ErrMalformed)
		}
		for i := int32(0); i < count; i++ {
			if err := skipPayload(c, TagType(elemTypeByte)); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		for {
			childTypByte, err := c.ReadU8()
			if err != nil {
				return err
			}
			if TagType(childTypByte) == TagEnd {
				return nil
			}
			if err := c.SkipString(); err != nil {
				return err
			}
			if err := skipPayload(c, TagType(childTypByte)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("nbt: invalid tag type %d: %w", typ, ErrMalformed)
	}
}

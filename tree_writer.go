package nbt

import (
	"fmt"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

// WriteTree serializes t, a Compound tag, to c: its type byte, its name,
// and its payload, recursing into every List and Compound descendant.
// Writing a tag whose tree contains a List with an undetermined element
// type (TagUnknown) fails with ErrFormat.
func WriteTree(c *wire.Codec, t *Tag) error {
	if t == nil {
		return fmt.Errorf("nbt: WriteTree: nil tag: %w", ErrInvalidArgument)
	}
	if t.typ != TagCompound {
		return fmt.Errorf("nbt: root tag must be Compound, got %s: %w", t.typ, ErrFormat)
	}
	if err := c.WriteU8(byte(t.typ)); err != nil {
		return err
	}
	if err := c.WriteString(t.name); err != nil {
		return err
	}
	return writeValue(c, t)
}

// writeNamedTag writes a compound child's type byte, name, and payload.
func writeNamedTag(c *wire.Codec, t *Tag) error {
	if err := c.WriteU8(byte(t.typ)); err != nil {
		return err
	}
	if err := c.WriteString(t.name); err != nil {
		return err
	}
	return writeValue(c, t)
}

// writeValue writes only the payload of t; the caller is responsible for
// the type byte and (for a named tag) the name that precede it on the
// wire.
func writeValue(c *wire.Codec, t *Tag) error {
	switch t.typ {
	case TagByte:
		return c.WriteU8(t.b)
	case TagShort:
		return c.WriteI16(t.i16)
	case TagInt:
		return c.WriteI32(t.i32)
	case TagLong:
		return c.WriteI64(t.i64)
	case TagFloat:
		return c.WriteF32(t.f32)
	case TagDouble:
		return c.WriteF64(t.f64)
	case TagString:
		return c.WriteString(t.str)
	case TagByteArray:
		if err := c.WriteI32(int32(len(t.bytes))); err != nil {
			return err
		}
		return c.WriteByteSlice(t.bytes)
	case TagIntArray:
		if err := c.WriteI32(int32(len(t.ints))); err != nil {
			return err
		}
		return c.WriteIntArray(t.ints)
	case TagLongArray:
		if err := c.WriteI32(int32(len(t.longs))); err != nil {
			return err
		}
		return c.WriteLongArray(t.longs)
	case TagList:
		return writeListValue(c, t)
	case TagCompound:
		return writeCompoundValue(c, t)
	default:
		return fmt.Errorf("nbt: cannot serialize tag of type %s: %w", t.typ, ErrFormat)
	}
}

func writeListValue(c *wire.Codec, t *Tag) error {
	elemType := t.elemType
	if elemType == TagUnknown {
		return fmt.Errorf("nbt: list %q has an undetermined element type: %w", t.Path(), ErrFormat)
	}
	if elemType == TagEnd {
		// An empty list may legally carry the historical End element type.
		if len(t.children) != 0 {
			return fmt.Errorf("nbt: list %q declares End element type but has %d elements: %w", t.Path(), len(t.children), ErrFormat)
		}
		if err := c.WriteU8(byte(TagEnd)); err != nil {
			return err
		}
		return c.WriteI32(0)
	}
	if err := c.WriteU8(byte(elemType)); err != nil {
		return err
	}
	if err := c.WriteI32(int32(len(t.children))); err != nil {
		return err
	}
	for _, child := range t.children {
		if child.typ != elemType {
			return fmt.Errorf("nbt: list %q element %s does not match declared element type %s: %w", t.Path(), child.typ, elemType, ErrFormat)
		}
		if err := writeValue(c, child); err != nil {
			return err
		}
	}
	return nil
}

func writeCompoundValue(c *wire.Codec, t *Tag) error {
	for _, child := range t.children {
		if err := writeNamedTag(c, child); err != nil {
			return err
		}
	}
	return c.WriteU8(byte(TagEnd))
}

package nbt

import (
	"fmt"
	"io"
	"strings"
)

// PrettyPrint writes a human-readable rendering of t to w: one line per
// primitive or array tag, and an indented block for each compound or
// list. indent is repeated once per nesting level; an empty string
// falls back to DefaultIndent.
func PrettyPrint(w io.Writer, t *Tag, indent string) error {
	if indent == "" {
		indent = DefaultIndent()
	}
	return printTag(w, t, indent, 0)
}

func printTag(w io.Writer, t *Tag, indent string, depth int) error {
	prefix := strings.Repeat(indent, depth)
	label := t.typ.String()
	if t.named {
		label = fmt.Sprintf("%s(%q)", label, t.name)
	}

	switch t.typ {
	case TagCompound:
		if _, err := fmt.Fprintf(w, "%s%s: %d entries\n%s{\n", prefix, label, len(t.children), prefix); err != nil {
			return err
		}
		for _, child := range t.children {
			if err := printTag(w, child, indent, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s}\n", prefix)
		return err
	case TagList:
		if _, err := fmt.Fprintf(w, "%s%s: %d entries of type %s\n%s{\n", prefix, label, len(t.children), t.elemType, prefix); err != nil {
			return err
		}
		for _, child := range t.children {
			if err := printTag(w, child, indent, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s}\n", prefix)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s%s: %s\n", prefix, label, formatScalar(t))
		return err
	}
}

func formatScalar(t *Tag) string {
	switch t.typ {
	case TagByte:
		return fmt.Sprintf("%d", t.b)
	case TagShort:
		return fmt.Sprintf("%d", t.i16)
	case TagInt:
		return fmt.Sprintf("%d", t.i32)
	case TagLong:
		return fmt.Sprintf("%d", t.i64)
	case TagFloat:
		return fmt.Sprintf("%g", t.f32)
	case TagDouble:
		return fmt.Sprintf("%g", t.f64)
	case TagString:
		return fmt.Sprintf("%q", t.str)
	case TagByteArray:
		return fmt.Sprintf("[%d bytes]", len(t.bytes))
	case TagIntArray:
		return fmt.Sprintf("[%d ints]", len(t.ints))
	case TagLongArray:
		return fmt.Sprintf("[%d longs]", len(t.longs))
	default:
		return "?"
	}
}

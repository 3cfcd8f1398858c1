package nbt

import "fmt"

// TagType identifies the wire type of a tag. The numeric values are the
// wire IDs defined by the NBT format and must not be reordered.
type TagType byte

const (
	TagEnd       TagType = 0
	TagByte      TagType = 1
	TagShort     TagType = 2
	TagInt       TagType = 3
	TagLong      TagType = 4
	TagFloat     TagType = 5
	TagDouble    TagType = 6
	TagByteArray TagType = 7
	TagString    TagType = 8
	TagList      TagType = 9
	TagCompound  TagType = 10
	TagIntArray  TagType = 11
	TagLongArray TagType = 12

	// TagUnknown is a local, in-memory-only sentinel for a list whose
	// element type hasn't been determined yet (an empty list that has
	// never had SetElementType called with a concrete type). It is never
	// written to the wire.
	TagUnknown TagType = 255
)

var tagTypeNames = map[TagType]string{
	TagEnd:       "End",
	TagByte:      "Byte",
	TagShort:     "Short",
	TagInt:       "Int",
	TagLong:      "Long",
	TagFloat:     "Float",
	TagDouble:    "Double",
	TagByteArray: "ByteArray",
	TagString:    "String",
	TagList:      "List",
	TagCompound:  "Compound",
	TagIntArray:  "IntArray",
	TagLongArray: "LongArray",
	TagUnknown:   "Unknown",
}

func (t TagType) String() string {
	if name, ok := tagTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TagType(%d)", byte(t))
}

// IsValidWireType reports whether t is a real wire tag type (i.e. not the
// in-memory-only Unknown sentinel). TagEnd is considered valid since it is
// a legal, if unusual, list element type on an empty list.
func (t TagType) IsValidWireType() bool {
	return t <= TagLongArray
}

// isArrayType reports whether t's payload is a length-prefixed primitive
// array (as opposed to a scalar, a list, or a compound).
func (t TagType) isArrayType() bool {
	switch t {
	case TagByteArray, TagIntArray, TagLongArray:
		return true
	default:
		return false
	}
}

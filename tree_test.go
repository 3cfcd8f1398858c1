package nbt

import (
	"bytes"
	"testing"

	"github.com/AchrafSoltani/nbt/internal/wire"
)

func addOrPanic(compound *Tag, name string, child *Tag) {
	if err := compound.Add(name, child); err != nil {
		panic(err)
	}
}

func listAddOrPanic(list *Tag, child *Tag) {
	if err := list.Append(child); err != nil {
		panic(err)
	}
}

func buildSampleTree() *Tag {
	root := NewCompound()
	addOrPanic(root, "name", NewString("bananrama"))
	addOrPanic(root, "health", NewFloat(20))
	addOrPanic(root, "inventory", buildSampleList())
	nested := NewCompound()
	addOrPanic(nested, "x", NewInt(10))
	addOrPanic(nested, "y", NewInt(64))
	addOrPanic(nested, "z", NewInt(-3))
	addOrPanic(root, "position", nested)
	addOrPanic(root, "inventoryIds", NewIntArray([]int32{1, 2, 3}))
	return root
}

func buildSampleList() *Tag {
	list := NewList(TagUnknown)
	for i := 0; i < 3; i++ {
		item := NewCompound()
		addOrPanic(item, "slot", NewByte(byte(i)))
		addOrPanic(item, "id", NewString("minecraft:stone"))
		listAddOrPanic(list, item)
	}
	return list
}

func TestTreeRoundTrip(t *testing.T) {
	root := buildSampleTree()

	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	if err := WriteTree(writer, root); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, true)
	got, err := ReadTree(reader, nil)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	name, _ := got.TryGet("name")
	if name.StringValue() != "bananrama" {
		t.Errorf("name = %q, want bananrama", name.StringValue())
	}
	health, _ := got.TryGet("health")
	if health.FloatValue() != 20 {
		t.Errorf("health = %v, want 20", health.FloatValue())
	}
	inv, _ := got.TryGet("inventory")
	if inv.Len() != 3 {
		t.Fatalf("inventory length = %d, want 3", inv.Len())
	}
	first, _ := inv.At(0)
	id, _ := first.TryGet("id")
	if id.StringValue() != "minecraft:stone" {
		t.Errorf("first item id = %q", id.StringValue())
	}
	ids, _ := got.TryGet("inventoryIds")
	if got := ids.IntArrayValue(); len(got) != 3 || got[2] != 3 {
		t.Errorf("inventoryIds = %v", got)
	}
}

func TestTreeRoundTripLittleEndian(t *testing.T) {
	root := NewCompound()
	addOrPanic(root, "v", NewLong(-123456789))

	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, false)
	if err := WriteTree(writer, root); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, false)
	got, err := ReadTree(reader, nil)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	v, _ := got.TryGet("v")
	if v.LongValue() != -123456789 {
		t.Errorf("v = %d, want -123456789", v.LongValue())
	}
}

func TestTreeWriteRejectsUndeterminedListType(t *testing.T) {
	root := NewCompound()
	addOrPanic(root, "empty", NewList(TagUnknown))

	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	if err := WriteTree(writer, root); err == nil {
		t.Fatalf("expected error writing a list with an undetermined element type")
	}
}

func TestTreeWriteAcceptsEmptyEndTypedList(t *testing.T) {
	root := NewCompound()
	addOrPanic(root, "empty", NewList(TagEnd))

	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	if err := WriteTree(writer, root); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, true)
	got, err := ReadTree(reader, nil)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	empty, _ := got.TryGet("empty")
	if empty.ElementType() != TagEnd {
		t.Errorf("round-tripped element type = %s, want End", empty.ElementType())
	}
}

func TestTreeReadRejectsNonCompoundRoot(t *testing.T) {
	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	_ = writer.WriteU8(byte(TagInt))
	_ = writer.WriteString("")
	_ = writer.WriteI32(1)

	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, true)
	if _, err := ReadTree(reader, nil); err == nil {
		t.Fatalf("expected error reading a non-Compound root")
	}
}

func TestTreeReadRejectsDuplicateName(t *testing.T) {
	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	_ = writer.WriteU8(byte(TagCompound))
	_ = writer.WriteString("")
	_ = writer.WriteU8(byte(TagByte))
	_ = writer.WriteString("a")
	_ = writer.WriteU8(1)
	_ = writer.WriteU8(byte(TagByte))
	_ = writer.WriteString("a")
	_ = writer.WriteU8(2)
	_ = writer.WriteU8(byte(TagEnd))

	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, true)
	if _, err := ReadTree(reader, nil); err == nil {
		t.Fatalf("expected error reading a compound with a duplicate name")
	}
}

func TestTreeReadWithSelectorSkipsFilteredTags(t *testing.T) {
	root := buildSampleTree()
	var buf bytes.Buffer
	writer := wire.NewCodec(nil, &buf, true)
	if err := WriteTree(writer, root); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	selector := func(h *TagHeader) bool { return h.Name != "inventory" }
	reader := wire.NewCodec(bytes.NewReader(buf.Bytes()), nil, true)
	got, err := ReadTree(reader, selector)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if got.ContainsName("inventory") {
		t.Errorf("filtered tag still present")
	}
	if !got.ContainsName("name") {
		t.Errorf("unfiltered tag missing")
	}
}

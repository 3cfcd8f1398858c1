package nbt

import "testing"

func TestCompoundAddAndLookup(t *testing.T) {
	root := NewCompound()
	if err := root.Add("name", NewString("Steve")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := root.Add("health", NewFloat(20)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, ok := root.TryGet("name")
	if !ok {
		t.Fatalf("TryGet(name): not found")
	}
	if got.StringValue() != "Steve" {
		t.Errorf("got %q, want Steve", got.StringValue())
	}
	if !root.ContainsName("health") {
		t.Errorf("ContainsName(health) = false")
	}
	assertNames(t, root, []string{"name", "health"})
}

func TestCompoundAddDuplicateNameRejected(t *testing.T) {
	root := NewCompound()
	mustAdd(t, root, "x", NewByte(1))
	if err := root.Add("x", NewByte(2)); err == nil {
		t.Fatalf("expected error on duplicate name")
	}
}

func TestCompoundAddAlreadyAttachedRejected(t *testing.T) {
	root := NewCompound()
	child := NewByte(1)
	mustAdd(t, root, "a", child)

	other := NewCompound()
	if err := other.Add("b", child); err == nil {
		t.Fatalf("expected error adding an already-attached tag")
	}
}

func TestCompoundAddCycleRejected(t *testing.T) {
	root := NewCompound()
	inner := NewCompound()
	mustAdd(t, root, "inner", inner)

	if err := inner.Add("loop", root); err == nil {
		t.Fatalf("expected error adding an ancestor as a child")
	}
}

func TestCompoundRemoveByName(t *testing.T) {
	root := NewCompound()
	mustAdd(t, root, "a", NewByte(1))
	mustAdd(t, root, "b", NewByte(2))

	removed, ok := root.RemoveByName("a")
	if !ok {
		t.Fatalf("RemoveByName(a): not found")
	}
	if removed.Parent() != nil {
		t.Errorf("removed tag still has a parent")
	}
	if root.ContainsName("a") {
		t.Errorf("ContainsName(a) still true after removal")
	}
	assertNames(t, root, []string{"b"})

	if _, ok := root.RemoveByName("a"); ok {
		t.Errorf("RemoveByName(a) on absent name should report false")
	}
}

func TestCompoundRename(t *testing.T) {
	root := NewCompound()
	child := NewByte(1)
	mustAdd(t, root, "old", child)

	if err := root.Rename(child, "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if root.ContainsName("old") {
		t.Errorf("old name still present after Rename")
	}
	if got, ok := root.TryGet("new"); !ok || got != child {
		t.Errorf("TryGet(new) did not return the renamed child")
	}
}

func TestListElementTypeFixedOnFirstAdd(t *testing.T) {
	list := NewList(TagUnknown)
	mustListAdd(t, list, NewInt(1))
	if list.ElementType() != TagInt {
		t.Fatalf("element type = %s, want Int", list.ElementType())
	}
	if err := list.Append(NewString("nope")); err == nil {
		t.Fatalf("expected error adding a String to an Int list")
	}
}

func TestNewListAcceptsEndElementTypeWhenEmpty(t *testing.T) {
	list := NewList(TagEnd)
	if list.ElementType() != TagEnd {
		t.Fatalf("element type = %s, want End", list.ElementType())
	}
	if list.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", list.Len())
	}
}

func TestListInsertAndRemoveAt(t *testing.T) {
	list := NewList(TagInt)
	mustListAdd(t, list, NewInt(1))
	mustListAdd(t, list, NewInt(3))
	if err := list.Insert(1, NewInt(2)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	assertIntList(t, list, []int32{1, 2, 3})

	removed, err := list.RemoveAt(1)
	if err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if removed.IntValue() != 2 {
		t.Errorf("removed value = %d, want 2", removed.IntValue())
	}
	assertIntList(t, list, []int32{1, 3})
}

func TestListClearResetsElementType(t *testing.T) {
	list := NewList(TagUnknown)
	mustListAdd(t, list, NewInt(1))
	if err := list.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if list.ElementType() != TagUnknown {
		t.Fatalf("element type after Clear = %s, want Unknown", list.ElementType())
	}
	mustListAdd(t, list, NewString("ok"))
	if list.ElementType() != TagString {
		t.Fatalf("element type after re-populating = %s, want String", list.ElementType())
	}
}

func TestListRejectsEndElement(t *testing.T) {
	list := NewList(TagUnknown)
	end := &Tag{typ: TagEnd}
	if err := list.Append(end); err == nil {
		t.Fatalf("expected error adding an End tag as a list element")
	}
}

func TestTagPath(t *testing.T) {
	root := NewCompound()
	inner := NewCompound()
	mustAdd(t, root, "inner", inner)
	list := NewList(TagUnknown)
	mustAdd(t, inner, "items", list)
	item := NewInt(7)
	mustListAdd(t, list, item)

	if got := item.Path(); got != ".inner.items[0]" {
		t.Errorf("Path() = %q, want %q", got, ".inner.items[0]")
	}
}

func TestWideningAccessors(t *testing.T) {
	b := NewByte(5)
	if v, err := b.AsShort(); err != nil || v != 5 {
		t.Errorf("AsShort: got (%d, %v)", v, err)
	}
	if v, err := b.AsLong(); err != nil || v != 5 {
		t.Errorf("AsLong: got (%d, %v)", v, err)
	}
	if v, err := b.AsString(); err != nil || v != "5" {
		t.Errorf("AsString: got (%q, %v)", v, err)
	}

	l := NewLong(42)
	if _, err := l.AsInt(); err == nil {
		t.Errorf("expected error narrowing Long to Int")
	}
	if v, err := l.AsFloat64(); err != nil || v != 42 {
		t.Errorf("AsFloat64: got (%v, %v)", v, err)
	}

	d := NewDouble(3.5)
	if _, err := d.AsFloat32(); err != nil {
		t.Errorf("AsFloat32 on Double should be permitted (narrowing): %v", err)
	}

	s := NewString("hi")
	if _, err := s.AsByte(); err == nil {
		t.Errorf("expected error widening String to Byte")
	}
}

func TestCloneIsDeepAndDetached(t *testing.T) {
	root := NewCompound()
	mustAdd(t, root, "a", NewByteArray([]byte{1, 2, 3}))

	clone := root.Clone()
	if clone.Parent() != nil {
		t.Errorf("clone has a parent")
	}
	child, _ := clone.TryGet("a")
	child.ByteArrayValue()[0] = 99
	orig, _ := root.TryGet("a")
	if orig.ByteArrayValue()[0] == 99 {
		t.Errorf("mutating the clone's array mutated the original")
	}
}

// --- helpers ---

func mustAdd(t *testing.T, compound *Tag, name string, child *Tag) {
	t.Helper()
	if err := compound.Add(name, child); err != nil {
		t.Fatalf("Add(%q): %v", name, err)
	}
}

func mustListAdd(t *testing.T, list *Tag, child *Tag) {
	t.Helper()
	if err := list.Append(child); err != nil {
		t.Fatalf("list Append: %v", err)
	}
}

func assertNames(t *testing.T, compound *Tag, want []string) {
	t.Helper()
	got := compound.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", got, want)
		}
	}
}

func assertIntList(t *testing.T, list *Tag, want []int32) {
	t.Helper()
	if list.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", list.Len(), len(want))
	}
	for i, w := range want {
		tag, err := list.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if tag.IntValue() != w {
			t.Fatalf("At(%d) = %d, want %d", i, tag.IntValue(), w)
		}
	}
}

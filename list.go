package nbt

import "fmt"

// Append adds child to the end of a List tag. The first element added to
// a list whose element type is still undetermined (TagUnknown, or TagEnd
// on an empty list) fixes the list's element type; every subsequent
// element must match it exactly.
func (t *Tag) Append(child *Tag) error { return t.listAdd(len(t.children), child) }

// Insert inserts child at position i (0 <= i <= Len()), shifting later
// elements up by one.
func (t *Tag) Insert(i int, child *Tag) error { return t.listAdd(i, child) }

func (t *Tag) listAdd(i int, child *Tag) error {
	if t.typ != TagList {
		return fmt.Errorf("nbt: list Add/Insert on a %s tag, not List: %w", t.typ, ErrInvalidArgument)
	}
	if child == nil {
		return fmt.Errorf("nbt: list Add: nil child: %w", ErrInvalidArgument)
	}
	if child.parent != nil {
		return fmt.Errorf("nbt: list Add: child already has a parent: %w", ErrInvalidArgument)
	}
	if child.typ == TagEnd {
		return fmt.Errorf("nbt: list Add: End is not a valid element type: %w", ErrInvalidArgument)
	}
	if wouldCycle(t, child) {
		return fmt.Errorf("nbt: list Add: child is an ancestor of the list: %w", ErrInvalidArgument)
	}
	if i < 0 || i > len(t.children) {
		return fmt.Errorf("nbt: list Insert: index %d out of range [0,%d]: %w", i, len(t.children), ErrInvalidArgument)
	}
	if t.elemType == TagUnknown || (t.elemType == TagEnd && len(t.children) == 0) {
		t.elemType = child.typ
	} else if child.typ != t.elemType {
		return fmt.Errorf("nbt: list Add: element type %s does not match list element type %s: %w", child.typ, t.elemType, ErrFormat)
	}
	child.parent = t
	child.named = false
	child.name = ""
	t.children = append(t.children, nil)
	copy(t.children[i+1:], t.children[i:])
	t.children[i] = child
	return nil
}

// RemoveAt removes and returns the element at index i of a List.
func (t *Tag) RemoveAt(i int) (*Tag, error) {
	if t.typ != TagList {
		return nil, fmt.Errorf("nbt: RemoveAt on a %s tag, not List: %w", t.typ, ErrInvalidArgument)
	}
	if i < 0 || i >= len(t.children) {
		return nil, fmt.Errorf("nbt: RemoveAt: index %d out of range [0,%d): %w", i, len(t.children), ErrInvalidArgument)
	}
	child := t.children[i]
	t.removeChildAt(i)
	child.detach()
	return child, nil
}

// Clear removes every element from a List. The list's element type is
// reset to TagUnknown so the next Add may fix a new one.
func (t *Tag) Clear() error {
	if t.typ != TagList {
		return fmt.Errorf("nbt: Clear on a %s tag, not List: %w", t.typ, ErrInvalidArgument)
	}
	for _, c := range t.children {
		c.detach()
	}
	t.children = t.children[:0]
	t.elemType = TagUnknown
	return nil
}

// IndexOf returns the index of child within t (a List or a Compound), or
// -1 if child is not currently a child of t.
func (t *Tag) IndexOf(child *Tag) int {
	if t.typ != TagList && t.typ != TagCompound {
		return -1
	}
	return t.childIndex(child)
}

// Contains reports whether child is currently an element of t (a List).
func (t *Tag) Contains(child *Tag) bool {
	if t.typ != TagList || child == nil {
		return false
	}
	return child.parent == t
}

// At returns the element at index i of a List or Compound.
func (t *Tag) At(i int) (*Tag, error) {
	if t.typ != TagList && t.typ != TagCompound {
		return nil, fmt.Errorf("nbt: At on a %s tag: %w", t.typ, ErrInvalidArgument)
	}
	if i < 0 || i >= len(t.children) {
		return nil, fmt.Errorf("nbt: At: index %d out of range [0,%d): %w", i, len(t.children), ErrInvalidArgument)
	}
	return t.children[i], nil
}

// Set replaces the element at index i of a List with child, detaching
// the old element. child must match the list's element type.
func (t *Tag) Set(i int, child *Tag) error {
	if t.typ != TagList {
		return fmt.Errorf("nbt: Set on a %s tag, not List: %w", t.typ, ErrInvalidArgument)
	}
	if i < 0 || i >= len(t.children) {
		return fmt.Errorf("nbt: Set: index %d out of range [0,%d): %w", i, len(t.children), ErrInvalidArgument)
	}
	if child == nil || child.parent != nil {
		return fmt.Errorf("nbt: Set: child is nil or already attached: %w", ErrInvalidArgument)
	}
	if child.typ != t.elemType {
		return fmt.Errorf("nbt: Set: element type %s does not match list element type %s: %w", child.typ, t.elemType, ErrFormat)
	}
	old := t.children[i]
	old.detach()
	child.parent = t
	t.children[i] = child
	return nil
}

// SetElementType sets the element type of a List. An empty list accepts
// any type, including one that replaces an earlier choice; a non-empty
// list fails with ErrFormat unless elementType equals its current type.
func (t *Tag) SetElementType(elementType TagType) error {
	if t.typ != TagList {
		return fmt.Errorf("nbt: SetElementType on a %s tag, not List: %w", t.typ, ErrInvalidArgument)
	}
	if len(t.children) > 0 && t.elemType != elementType {
		return fmt.Errorf("nbt: SetElementType: list is non-empty with element type %s: %w", t.elemType, ErrFormat)
	}
	t.elemType = elementType
	return nil
}

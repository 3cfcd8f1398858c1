package nbt

import "fmt"

// Add inserts child under t with the given name, appending it after any
// existing children. Add returns ErrInvalidArgument if t is not a
// Compound, if child is nil, already attached to a tree, or is t itself
// somewhere up its own ancestry (acyclicity), and ErrFormat if name is
// already in use (name-uniqueness).
func (t *Tag) Add(name string, child *Tag) error {
	if t.typ != TagCompound {
		return fmt.Errorf("nbt: Add on a %s tag, not Compound: %w", t.typ, ErrInvalidArgument)
	}
	if child == nil {
		return fmt.Errorf("nbt: Add: nil child: %w", ErrInvalidArgument)
	}
	if child.parent != nil {
		return fmt.Errorf("nbt: Add: child already has a parent: %w", ErrInvalidArgument)
	}
	if wouldCycle(t, child) {
		return fmt.Errorf("nbt: Add: child is an ancestor of the compound: %w", ErrInvalidArgument)
	}
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("nbt: Add: name %q already present: %w", name, ErrFormat)
	}
	child.name = name
	child.named = true
	child.parent = t
	t.children = append(t.children, child)
	t.index[name] = child
	return nil
}

// wouldCycle reports whether attaching child under t would make a tag its
// own ancestor, i.e. whether t is child or a descendant of child.
func wouldCycle(t, child *Tag) bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur == child {
			return true
		}
	}
	return false
}

// RemoveByName detaches and returns the named child, or (nil, false) if
// no such child exists. A no-op Compound stays unaffected on a miss.
func (t *Tag) RemoveByName(name string) (*Tag, bool) {
	if t.typ != TagCompound {
		return nil, false
	}
	child, ok := t.index[name]
	if !ok {
		return nil, false
	}
	t.removeChildAt(t.childIndex(child))
	delete(t.index, name)
	child.detach()
	return child, true
}

// RemoveByIdentity detaches the given child from t (a Compound or a
// List) if and only if it is currently one of t's children (pointer
// identity, not name match). Reports whether a child was removed.
func (t *Tag) RemoveByIdentity(child *Tag) bool {
	if child == nil || child.parent != t {
		return false
	}
	if t.typ != TagCompound && t.typ != TagList {
		return false
	}
	idx := t.childIndex(child)
	if idx < 0 {
		return false
	}
	t.removeChildAt(idx)
	if t.typ == TagCompound {
		delete(t.index, child.name)
	}
	child.detach()
	return true
}

func (t *Tag) childIndex(child *Tag) int {
	for i, c := range t.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (t *Tag) removeChildAt(i int) {
	t.children = append(t.children[:i], t.children[i+1:]...)
}

// ContainsName reports whether t (a Compound) has a child with the given
// name.
func (t *Tag) ContainsName(name string) bool {
	if t.typ != TagCompound {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// ContainsTag reports whether child is currently one of t's children
// (pointer identity).
func (t *Tag) ContainsTag(child *Tag) bool {
	if t.typ != TagCompound || child == nil {
		return false
	}
	return child.parent == t
}

// Names returns the compound's child names in insertion order.
func (t *Tag) Names() []string {
	if t.typ != TagCompound {
		return nil
	}
	names := make([]string, len(t.children))
	for i, c := range t.children {
		names[i] = c.name
	}
	return names
}

// Tags returns the compound's children in insertion order. The returned
// slice is a copy; mutating it does not affect the compound.
func (t *Tag) Tags() []*Tag {
	if t.typ != TagCompound && t.typ != TagList {
		return nil
	}
	out := make([]*Tag, len(t.children))
	copy(out, t.children)
	return out
}

// TryGet returns the named child of a Compound and true, or (nil, false)
// if absent.
func (t *Tag) TryGet(name string) (*Tag, bool) {
	if t.typ != TagCompound {
		return nil, false
	}
	c, ok := t.index[name]
	return c, ok
}

// Rename changes the name a Compound uses to refer to one of its own
// children. Returns ErrFormat if newName collides with a different
// existing child, ErrInvalidArgument if child does not belong to t.
func (t *Tag) Rename(child *Tag, newName string) error {
	if t.typ != TagCompound || child == nil || child.parent != t {
		return fmt.Errorf("nbt: Rename: tag is not a child of this compound: %w", ErrInvalidArgument)
	}
	if existing, ok := t.index[newName]; ok && existing != child {
		return fmt.Errorf("nbt: Rename: name %q already present: %w", newName, ErrFormat)
	}
	delete(t.index, child.name)
	child.name = newName
	t.index[newName] = child
	return nil
}

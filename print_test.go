package nbt

import (
	"strings"
	"testing"
)

func TestPrettyPrintRendersNestedStructure(t *testing.T) {
	root := buildSampleTree()
	var buf strings.Builder
	if err := PrettyPrint(&buf, root, "  "); err != nil {
		t.Fatalf("PrettyPrint: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Compound", "String(\"name\")", "\"bananrama\"", "List(\"inventory\")", "3 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyPrintFallsBackToDefaultIndent(t *testing.T) {
	root := NewCompound()
	addOrPanic(root, "v", NewInt(1))
	var buf strings.Builder
	if err := PrettyPrint(&buf, root, ""); err != nil {
		t.Fatalf("PrettyPrint: %v", err)
	}
	if !strings.Contains(buf.String(), DefaultIndent()+"Int") {
		t.Errorf("expected default indent applied to child line:\n%s", buf.String())
	}
}

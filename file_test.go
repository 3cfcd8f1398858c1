package nbt

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTripUncompressed(t *testing.T) {
	root := buildSampleTree()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.nbt")
	if err := Save(path, root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	name, _ := got.TryGet("name")
	if name.StringValue() != "bananrama" {
		t.Errorf("name = %q", name.StringValue())
	}
}

func TestSaveLoadRoundTripGZip(t *testing.T) {
	root := buildSampleTree()
	var buf bytes.Buffer
	if err := SaveWriter(&buf, root, WithCompression(CompressionGZip)); err != nil {
		t.Fatalf("SaveWriter: %v", err)
	}
	got, err := LoadReader(bytes.NewReader(buf.Bytes()), WithCompression(CompressionGZip))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if !got.ContainsName("inventory") {
		t.Errorf("round-tripped tree missing inventory")
	}
}

func TestSaveLoadRoundTripZLibAutoDetect(t *testing.T) {
	root := buildSampleTree()
	var buf bytes.Buffer
	if err := SaveWriter(&buf, root, WithCompression(CompressionZLib)); err != nil {
		t.Fatalf("SaveWriter: %v", err)
	}
	got, err := LoadReader(bytes.NewReader(buf.Bytes()), WithCompression(CompressionAutoDetect))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if !got.ContainsName("inventory") {
		t.Errorf("round-tripped tree missing inventory")
	}
}

func TestSaveRejectsAutoDetectCompression(t *testing.T) {
	var buf bytes.Buffer
	if err := SaveWriter(&buf, NewCompound(), WithCompression(CompressionAutoDetect)); err == nil {
		t.Fatalf("expected an error saving with CompressionAutoDetect")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.nbt")); err == nil {
		t.Fatalf("expected an error loading a nonexistent file")
	}
}

package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFingerprintDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	first := Fingerprint(data)
	second := Fingerprint(bytes.Clone(data))

	if first != second {
		t.Errorf("identical bytes produced different fingerprints: %s vs %s", first, second)
	}
	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d (%q)", len(first), first)
	}
}

func TestFingerprintDistinct(t *testing.T) {
	inputs := [][]byte{
		[]byte("audio payload one"),
		[]byte("audio payload two"),
		[]byte("audio payload one "), // trailing space matters
		{},
		{0x00, 0x01, 0x02},
	}

	seen := make(map[string][]byte)
	for _, input := range inputs {
		fp := Fingerprint(input)
		if prior, dup := seen[fp]; dup {
			t.Errorf("distinct inputs %q and %q collided on %s", prior, input, fp)
		}
		seen[fp] = input
	}
}

func TestFingerprintFileMatchesInMemory(t *testing.T) {
	content := []byte("binary media content for hashing")
	path := filepath.Join(t.TempDir(), "input.mp3")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	fromFile, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("FingerprintFile failed: %v", err)
	}

	if fromFile != Fingerprint(content) {
		t.Errorf("file fingerprint %s does not match in-memory fingerprint %s", fromFile, Fingerprint(content))
	}
}

func TestFingerprintFileMissing(t *testing.T) {
	if _, err := FingerprintFile(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

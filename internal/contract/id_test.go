package contract

import (
	"strings"
	"testing"
)

func TestNewFileID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newFileID()
		if len(id) != 18 {
			t.Fatalf("expected 18 characters, got %d (%q)", len(id), id)
		}
		for _, c := range id {
			if !strings.ContainsRune(fileIDChars, c) {
				t.Fatalf("unexpected character %q in id %q", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

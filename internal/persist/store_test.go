package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := s.GetBool("session.dirty", false); got {
		t.Error("empty store returned true")
	}
	if got := s.GetFloat("zoom.focus", 1.5); got != 1.5 {
		t.Errorf("empty store GetFloat = %v, want default 1.5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetBool("session.dirty", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if err := s.SetFloat("zoom.focus", 2.5); err != nil {
		t.Fatalf("SetFloat() error = %v", err)
	}

	// Reopen from disk.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if !s2.GetBool("session.dirty", false) {
		t.Error("bool did not survive reopen")
	}
	if got := s2.GetFloat("zoom.focus", 0); got != 2.5 {
		t.Errorf("float after reopen = %v, want 2.5", got)
	}
}

func TestIntegerFloatCoercion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetFloat("zoom.focus", 2); err != nil {
		t.Fatalf("SetFloat() error = %v", err)
	}

	// A whole number decodes back as int64.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if got := s2.GetFloat("zoom.focus", 0); got != 2 {
		t.Errorf("whole-number float after reopen = %v, want 2", got)
	}
}

func TestDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetBool("session.dirty", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	if err := s.Delete("session.dirty"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.GetBool("session.dirty", false) {
		t.Error("value survived delete")
	}

	// Deleting again is a no-op.
	if err := s.Delete("session.dirty"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}

	// Empty parent tables are pruned from the file.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if s2.GetBool("session.dirty", false) {
		t.Error("deleted value reappeared after reopen")
	}
}

func TestMistypedValueFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	content := "[session]\ndirty = \"yes\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.GetBool("session.dirty", false) {
		t.Error("string value coerced to bool")
	}
}

func TestMalformedFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.GetBool("session.dirty", true) != true {
		t.Error("defaults not honored for malformed file")
	}

	// Writing recovers the file.
	if err := s.SetBool("session.dirty", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if !s2.GetBool("session.dirty", false) {
		t.Error("rewrite did not recover malformed file")
	}
}

func TestAtomicWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.toml")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SetBool("session.dirty", true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "state.toml" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

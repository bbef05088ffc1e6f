package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/skillthief/internal/errors"
)

func TestReadLimited(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small")
	if err := os.WriteFile(small, []byte("---\nname: a\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	big := filepath.Join(dir, "big")
	if err := os.WriteFile(big, []byte(strings.Repeat("x", 65)), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadLimited(small, 64)
	if err != nil {
		t.Fatalf("ReadLimited(small) error = %v", err)
	}
	if !strings.HasPrefix(string(data), "---") {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := ReadLimited(big, 64); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("ReadLimited(big) error = %v, want ErrFileTooLarge", err)
	}

	if _, err := ReadLimited(filepath.Join(dir, "none"), 64); !os.IsNotExist(err) {
		t.Errorf("ReadLimited(missing) error = %v, want not-exist", err)
	}
}

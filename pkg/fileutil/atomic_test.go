package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"text", []byte("hello world\n"), 0o644},
		{"empty", []byte{}, 0o644},
		{"private", []byte("secret"), 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file")
			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != tt.perm {
				t.Errorf("perm = %o, want %o", info.Mode().Perm(), tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_OverwriteLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q, want new", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file")
	if err := AtomicWriteFile(path, []byte("x"), 0o644); err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	type skill struct {
		Name   string `yaml:"name"`
		Source string `yaml:"source"`
	}
	doc := struct {
		Version int     `yaml:"version"`
		Skills  []skill `yaml:"skills"`
	}{1, []skill{{"alpha", "./vendor/alpha"}}}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := AtomicWriteYAML(path, doc); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	got, _ := os.ReadFile(path)
	want := "version: 1\nskills:\n  - name: alpha\n    source: ./vendor/alpha\n"
	if string(got) != want {
		t.Errorf("content =\n%s\nwant\n%s", got, want)
	}
}

func TestAtomicWriteYAML_Unencodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	err := AtomicWriteYAML(path, map[string]any{"f": func() {}})
	if err == nil || !strings.Contains(err.Error(), "marshaling YAML") {
		t.Errorf("error = %v, want marshaling error", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be written on failure")
	}
}

// Package fileutil provides the file system operations used to materialize
// skills: atomic file writes, bounded reads, tree copies and whole-directory
// replacement.
package fileutil

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/paths"
)

// AtomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename, so readers never see a partial file.
// The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+paths.StagingPrefix+"*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	committed = true
	return nil
}

// AtomicWriteYAML encodes v with two-space indentation and writes it
// atomically with mode 0644.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.v3 panics on some unencodable values.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	return AtomicWriteFile(path, buf.Bytes(), 0o644)
}

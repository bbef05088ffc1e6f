package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/skillthief/internal/errors"
)

// MaxManifestSize bounds how much of a SKILL.md or project manifest is read.
const MaxManifestSize = 1 << 20

// ErrFileTooLarge indicates that a file exceeded the read limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadLimited reads at most limit bytes of path and fails with
// ErrFileTooLarge when the file is bigger.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}
	return data, nil
}

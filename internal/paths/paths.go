package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/skillthief/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "skill-thief"

// ManifestFilename is the project manifest looked up in the working directory.
const ManifestFilename = ".skill-thief.yaml"

// DefaultInstallPath is used when the manifest omits install_path.
const DefaultInstallPath = "./skills"

// SkillFile is the manifest file expected at the root of every installed skill.
const SkillFile = "SKILL.md"

// StagingPrefix prefixes temporary directories holding fetched git sources.
const StagingPrefix = "skillthief-"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the permission for directories created under the install base.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the directory holding the tool's own config.yaml.
// Returns: <ConfigHome>/skill-thief/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ManifestPath returns the manifest location inside dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFilename)
}

// Resolve returns p as an absolute path, interpreting relative paths
// against base. An empty base means the current working directory.
func Resolve(base, p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if base == "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", errors.Wrapf(err, "resolving %s", p)
		}
		return abs, nil
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", base)
	}
	return filepath.Join(base, p), nil
}

// ValidSkillName reports whether name can be used verbatim as a single
// directory entry under the install base. Separators, "." and ".." are
// rejected so a target can never land outside the install base.
func ValidSkillName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, '\x00') {
		return false
	}
	return true
}

// ValidSubdir reports whether subdir stays inside the directory it is joined to.
func ValidSubdir(subdir string) bool {
	if strings.ContainsRune(subdir, '\x00') {
		return false
	}
	return filepath.IsLocal(filepath.FromSlash(subdir))
}

package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/skillthief/internal/errors"
	"github.com/thoreinstein/skillthief/internal/paths"
)

// ErrSymlinkEscape is returned when a symlink inside a copied tree points
// outside the tree's root.
var ErrSymlinkEscape = errors.New("symlink points outside the source tree")

// CopyOptions controls CopyDir and ReplaceDir.
type CopyOptions struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the source root. A matching directory is skipped
	// with everything below it.
	Exclude []string

	// OnFile is called with the relative path of every copied file.
	OnFile func(rel string)
}

func (o CopyOptions) excluded(rel string) bool {
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ValidatePatterns returns an error naming the first malformed pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Newf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// CopyDir copies the tree rooted at src into dst, creating dst if needed.
// Symlinks are followed when they resolve inside src; others fail with
// ErrSymlinkEscape.
func CopyDir(src, dst string, opts CopyOptions) error {
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", src)
	}
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "stating %s", src)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", src)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "creating %s", dst)
	}
	c := copier{root: root, opts: opts}
	return c.copyTree(root, dst, "")
}

type copier struct {
	root string
	opts CopyOptions
}

func (c *copier) copyTree(srcDir, dstDir, relDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", srcDir)
	}

	for _, entry := range entries {
		rel := entry.Name()
		if relDir != "" {
			rel = relDir + "/" + entry.Name()
		}
		if c.opts.excluded(rel) {
			continue
		}

		srcPath := filepath.Join(srcDir, entry.Name())
		dstPath := filepath.Join(dstDir, entry.Name())

		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, err := c.resolveLink(srcPath)
			if err != nil {
				return err
			}
			srcPath = resolved
		}

		info, err := os.Stat(srcPath)
		if err != nil {
			return errors.Wrapf(err, "stating %s", srcPath)
		}

		switch {
		case info.IsDir():
			if err := os.MkdirAll(dstPath, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, "creating directory %s", dstPath)
			}
			if err := c.copyTree(srcPath, dstPath, rel); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
			if c.opts.OnFile != nil {
				c.opts.OnFile(rel)
			}
		}
	}
	return nil
}

func (c *copier) resolveLink(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving symlink %s", path)
	}
	if !isAncestor(c.root, resolved) {
		return "", errors.Wrapf(ErrSymlinkEscape, "%s -> %s", path, resolved)
	}
	// A link to an enclosing directory would recurse forever.
	if isAncestor(resolved, filepath.Dir(path)) {
		return "", errors.Newf("symlink %s forms a cycle", path)
	}
	return resolved, nil
}

func isAncestor(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening source file %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrapf(err, "creating destination file %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return errors.Wrapf(out.Close(), "closing %s", dst)
}

// ReplaceDir replaces target with a fresh copy of src. The copy is staged
// in a sibling directory first, so a failed copy leaves target untouched.
// Files present only in the old target do not survive.
func ReplaceDir(src, target string, opts CopyOptions) error {
	parent := filepath.Dir(target)
	staging, err := os.MkdirTemp(parent, "."+paths.StagingPrefix+filepath.Base(target)+"-*")
	if err != nil {
		return errors.Wrap(err, "creating staging directory")
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()

	if err := CopyDir(src, staging, opts); err != nil {
		return err
	}
	// MkdirTemp creates 0700; match the source directory instead.
	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(staging, info.Mode().Perm())
	}

	if err := os.RemoveAll(target); err != nil {
		return errors.Wrapf(err, "removing previous %s", target)
	}
	if err := os.Rename(staging, target); err != nil {
		return errors.Wrapf(err, "moving %s into place", target)
	}
	committed = true
	return nil
}

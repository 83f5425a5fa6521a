// Package fsutil holds the filesystem primitives the install phases
// are built on: atomic writes and permission-preserving copies.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rigtools/rigup/pkg/errors"
)

// DirMode is the permission for every directory rigup creates.
const DirMode = os.FileMode(0o700)

// FileMode is the permission for every file rigup installs.
const FileMode = os.FileMode(0o600)

// WriteFileAtomic writes data to path via a sibling temporary file and
// a rename. The rename is the only step that makes the new content
// visible: a crash mid-write leaves either the old content or the new
// content, never a mix. The parent directory is created with owner-only
// permissions if absent.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %q", dir)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.rigup-%d.tmp", filepath.Base(path), os.Getpid()))
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %q", tmp)
	}
	// WriteFile's mode is masked by the umask; set the bits explicitly.
	if err := os.Chmod(tmp, mode); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to chmod %q", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to rename %q onto %q", tmp, path)
	}
	return nil
}

// CopyFile copies src to dst atomically, preserving src's permission
// bits. Used for backups, commits, and restores, which all need the
// copied file to carry the original mode exactly.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %q", src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read %q", src)
	}
	return WriteFileAtomic(dst, data, info.Mode().Perm())
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ReadFileString reads a file as a string
func ReadFileString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read %q", path)
	}
	return string(data), nil
}

// AppendToFile appends data to path, creating it with mode if absent.
// Unlike WriteFileAtomic this mutates in place; it is only used for the
// shell startup file, which rigup does not own.
func AppendToFile(path string, data []byte, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, mode)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to open %q for append", path)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to append to %q", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %q", path)
	}
	return nil
}

package paths

import (
	"path/filepath"
	"strings"

	"github.com/rigtools/rigup/pkg/errors"
)

// ValidateContainment succeeds only if path is base itself or a strict
// descendant of base, comparing normalized absolute paths. It is called
// before every destructive operation on a path obtained from discovered
// state, so a tampered recovery record cannot direct writes outside the
// expected tree.
func ValidateContainment(path, base string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if base == "" {
		return errors.New(errors.ErrInvalidInput, "base cannot be empty")
	}

	normPath, err := normalize(path)
	if err != nil {
		return err
	}
	normBase, err := normalize(base)
	if err != nil {
		return err
	}

	if normPath == normBase {
		return nil
	}
	if strings.HasPrefix(normPath, normBase+string(filepath.Separator)) {
		return nil
	}

	return errors.Newf(errors.ErrPathTraversal, "path %q escapes %q", path, base).
		WithDetail("path", normPath).
		WithDetail("base", normBase)
}

// normalize expands home, makes the path absolute, and cleans it
func normalize(path string) (string, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %q", path)
	}
	return filepath.Clean(abs), nil
}

package install

import (
	"os"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/shell"
)

// CleanResult reports what clean removed
type CleanResult struct {
	RemovedDirs   []string
	ScrubbedFiles []string
}

// Clean irreversibly removes all rigup-managed state: the recovery
// root, the staging root, the configuration and secret directories, and
// the integration block from every startup file it appears in. It
// refuses to run without an interactive confirmation.
func Clean(ctx *Context) (*CleanResult, error) {
	logger := logging.GetLogger("install.clean")

	if !ctx.Interactive() {
		return nil, errors.New(errors.ErrNoConfirmation,
			"clean is irreversible and requires an interactive confirmation")
	}
	ok, err := ctx.Prompter.Confirm("Remove all rig configuration, credentials, and recovery state?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrNoConfirmation, "clean was not confirmed")
	}

	res := &CleanResult{}

	for _, file := range ctx.Paths.StartupCandidates() {
		scrubbed, err := scrubStartupFile(file)
		if err != nil {
			logger.Warn().Err(err).Str("file", file).Msg("Failed to scrub startup file")
			continue
		}
		if scrubbed {
			res.ScrubbedFiles = append(res.ScrubbedFiles, file)
			logger.Info().Str("file", file).Msg("Removed shell integration block")
		}
	}

	dirs := []string{
		ctx.Paths.RecoveryRoot(),
		ctx.Paths.StagingRoot(),
		ctx.Paths.SecretDir(),
		ctx.Paths.ConfigDir(),
	}
	for _, dir := range dirs {
		if !fsutil.DirExists(dir) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("Failed to remove directory")
			continue
		}
		res.RemovedDirs = append(res.RemovedDirs, dir)
		logger.Info().Str("dir", dir).Msg("Removed directory")
	}

	return res, nil
}

// scrubStartupFile surgically removes the integration block from one
// startup file, rewriting it atomically with its mode preserved.
// Unrelated content is never touched; the removal scan stops at the
// first line that is not part of the block.
func scrubStartupFile(file string) (bool, error) {
	if !fsutil.FileExists(file) {
		return false, nil
	}
	content, err := fsutil.ReadFileString(file)
	if err != nil {
		return false, err
	}
	cleaned, removed := shell.RemoveBlock(content)
	if !removed {
		return false, nil
	}

	info, err := os.Stat(file)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %q", file)
	}
	if err := fsutil.WriteFileAtomic(file, []byte(cleaned), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

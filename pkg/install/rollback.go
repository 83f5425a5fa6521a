package install

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/shell"
)

// RollbackResult reports what abort restored
type RollbackResult struct {
	Record   string
	Restored int
	Removed  int
}

// Rollback restores the pre-installation state from the most recent
// recovery record. For each target: a backup in the record is copied
// back with its original content and permissions; no backup plus an
// existing target means the install created it, so it is deleted.
// Categories are independent and best-effort past the hard
// preconditions of locating and validating the record.
func Rollback(ctx *Context) (*RollbackResult, error) {
	logger := logging.GetLogger("install.rollback")

	dir, err := latestRecordDir(ctx)
	if err != nil {
		return nil, err
	}
	// Defense against a tampered or symlinked record path: nothing is
	// read from the record before this check passes.
	if err := paths.ValidateContainment(dir, ctx.Paths.RecoveryRoot()); err != nil {
		return nil, err
	}
	logger.Info().Str("record", dir).Msg("Rolling back from recovery record")

	res := &RollbackResult{Record: dir}

	for _, target := range []string{ctx.Paths.ConfigFile(), ctx.Paths.SecretFile()} {
		restoreOrRemove(dir, target, res, logger)
	}

	// Startup files get a verbatim full-file restore, coarser than the
	// marker-block removal clean performs. A startup file with no
	// backup is removed only when it consists solely of the block
	// commit appended; anything else is user content and stays.
	for _, target := range ctx.Paths.StartupCandidates() {
		backup := filepath.Join(dir, filepath.Base(target))
		if !fsutil.FileExists(backup) {
			if fsutil.FileExists(target) && startupCreatedByInstall(target) {
				if err := os.Remove(target); err != nil {
					logger.Warn().Err(err).Str("target", target).Msg("Failed to remove created startup file")
					continue
				}
				res.Removed++
				logger.Debug().Str("target", target).Msg("Removed startup file created by install")
			}
			continue
		}
		if err := fsutil.CopyFile(backup, target); err != nil {
			logger.Warn().Err(err).Str("target", target).Msg("Failed to restore startup file")
			continue
		}
		res.Restored++
		logger.Debug().Str("target", target).Msg("Restored startup file")
	}

	return res, nil
}

// restoreOrRemove applies the backup-presence rule to one config or
// secret target.
func restoreOrRemove(recordDir, target string, res *RollbackResult, logger zerolog.Logger) {
	backup := filepath.Join(recordDir, filepath.Base(target))
	if fsutil.FileExists(backup) {
		if err := fsutil.CopyFile(backup, target); err != nil {
			logger.Warn().Err(err).Str("target", target).Msg("Failed to restore target")
			return
		}
		res.Restored++
		logger.Debug().Str("target", target).Msg("Restored target from backup")
		return
	}
	if fsutil.FileExists(target) {
		if err := os.Remove(target); err != nil {
			logger.Warn().Err(err).Str("target", target).Msg("Failed to remove created target")
			return
		}
		res.Removed++
		logger.Debug().Str("target", target).Msg("Removed target created by install")
	}
}

// startupCreatedByInstall reports whether a startup file with no backup
// consists solely of rigup's integration block, meaning commit created
// the whole file. Anything else stays untouched.
func startupCreatedByInstall(target string) bool {
	content, err := fsutil.ReadFileString(target)
	if err != nil {
		return false
	}
	rest, removed := shell.RemoveBlock(content)
	return removed && rest == ""
}

// latestRecordDir finds the lexicographically greatest record directory
// under the recovery root; timestamp-keyed names make that the most
// recent.
func latestRecordDir(ctx *Context) (string, error) {
	root := ctx.Paths.RecoveryRoot()
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.New(errors.ErrNoRecoveryState, "no recovery state to restore from")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", errors.New(errors.ErrNoRecoveryState, "no recovery records found")
	}
	sort.Strings(names)

	return ctx.Paths.RecoveryDirFor(names[len(names)-1]), nil
}

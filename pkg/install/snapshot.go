package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
)

// SnapshotResult describes the recovery record a snapshot produced
type SnapshotResult struct {
	Dir      string
	Captured []string
}

// Snapshot creates a fresh recovery record: a new timestamp-keyed,
// owner-only directory holding a backup of every target file that
// currently exists. It always runs before any mutation; failure to
// create the record directory is fatal to the whole run.
func Snapshot(ctx *Context) (*SnapshotResult, error) {
	logger := logging.GetLogger("install.snapshot")

	root := ctx.Paths.RecoveryRoot()
	if err := os.MkdirAll(root, fsutil.DirMode); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create recovery root %q", root)
	}

	dir, err := createRecordDir(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(dir, fsutil.DirMode); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to chmod recovery record %q", dir)
	}
	logger.Info().Str("dir", dir).Msg("Created recovery record")

	var captured []string
	targets := append(
		[]string{ctx.Paths.ConfigFile(), ctx.Paths.SecretFile()},
		ctx.Paths.StartupCandidates()...,
	)
	for _, target := range targets {
		if !fsutil.FileExists(target) {
			logger.Debug().Str("target", target).Msg("Target absent, nothing to back up")
			continue
		}
		backup := filepath.Join(dir, filepath.Base(target))
		if err := fsutil.CopyFile(target, backup); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to back up %q", target)
		}
		captured = append(captured, target)
		logger.Debug().Str("target", target).Str("backup", backup).Msg("Backed up target")
	}

	rec := &Record{
		Timestamp: time.Now().UTC(),
		Version:   ctx.Version,
		Captured:  captured,
	}
	if err := writeRecord(dir, rec); err != nil {
		return nil, err
	}

	return &SnapshotResult{Dir: dir, Captured: captured}, nil
}

// createRecordDir makes this run's record directory. Recovery records
// are keyed at second granularity; a rerun within the same second gets
// a numbered suffix so the record stays unique for this process.
func createRecordDir(ctx *Context) (string, error) {
	dir := ctx.Paths.RecoveryDir()
	for i := 0; ; i++ {
		candidate := dir
		if i > 0 {
			candidate = fmt.Sprintf("%s-%02d", dir, i+1)
		}
		err := os.Mkdir(candidate, fsutil.DirMode)
		if err == nil {
			return candidate, nil
		}
		if !os.IsExist(err) {
			return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create recovery record %q", candidate)
		}
	}
}

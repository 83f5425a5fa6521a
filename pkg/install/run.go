package install

import (
	"github.com/rigtools/rigup/pkg/logging"
)

// RunResult aggregates the outcome of a full install sequence
type RunResult struct {
	Snapshot *SnapshotResult
	Stage    *StageResult
	Commit   *CommitResult
	Verify   *VerifyResult
}

// Run executes the default sequence: snapshot, stage, entry, verify.
// Phases run strictly in order and data flows forward only; the first
// fatal error stops the run, leaving the filesystem recoverable via
// the remaining phases or abort.
func Run(ctx *Context) (*RunResult, error) {
	logger := logging.GetLogger("install.run")
	res := &RunResult{}
	var err error

	if res.Snapshot, err = Snapshot(ctx); err != nil {
		return res, err
	}
	if res.Stage, err = Stage(ctx); err != nil {
		return res, err
	}
	if res.Commit, err = Commit(ctx); err != nil {
		return res, err
	}
	if res.Verify, err = Verify(ctx); err != nil {
		return res, err
	}

	logger.Info().Msg("Install sequence completed")
	return res, nil
}

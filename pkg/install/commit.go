package install

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/logging"
	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/shell"
)

// CommitResult describes what entry installed
type CommitResult struct {
	StagingDir   string
	ConfigFile   string
	SecretFile   string
	ShellFile    string
	ShellUpdated bool
}

// Commit promotes staged artifacts to authoritative state: both staged
// files are copied (not renamed, keeping the staging copy for forensic
// inspection) onto their targets with permissions preserved, and the
// shell integration block is appended if absent.
func Commit(ctx *Context) (*CommitResult, error) {
	logger := logging.GetLogger("install.commit")

	staging, err := findStagingDir(ctx)
	if err != nil {
		return nil, err
	}
	stagedSecret := filepath.Join(staging, paths.SecretFileName)
	stagedConfig := filepath.Join(staging, paths.SettingsFileName)

	for _, dir := range []string{ctx.Paths.ConfigDir(), ctx.Paths.SecretDir()} {
		if err := os.MkdirAll(dir, fsutil.DirMode); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create target directory %q", dir)
		}
	}

	if err := fsutil.CopyFile(stagedConfig, ctx.Paths.ConfigFile()); err != nil {
		return nil, err
	}
	if err := fsutil.CopyFile(stagedSecret, ctx.Paths.SecretFile()); err != nil {
		return nil, err
	}
	logger.Info().
		Str("config", ctx.Paths.ConfigFile()).
		Str("secret", ctx.Paths.SecretFile()).
		Msg("Installed staged artifacts")

	rc := ctx.Paths.StartupFile(ctx.ShellOverride)
	updated, err := appendShellBlock(rc, ctx.Paths.SecretFile())
	if err != nil {
		return nil, err
	}
	if updated {
		logger.Info().Str("file", rc).Msg("Appended shell integration block")
	} else {
		logger.Info().Str("file", rc).Msg("Shell integration block already present, skipping")
	}

	return &CommitResult{
		StagingDir:   staging,
		ConfigFile:   ctx.Paths.ConfigFile(),
		SecretFile:   ctx.Paths.SecretFile(),
		ShellFile:    rc,
		ShellUpdated: updated,
	}, nil
}

// findStagingDir locates the staging area to commit. This run's own
// area wins; when entry runs standalone in a fresh process, the newest
// complete area under the staging root is used instead.
func findStagingDir(ctx *Context) (string, error) {
	if dir := ctx.Paths.StagingDir(); stagingComplete(dir) {
		return dir, nil
	}

	root := ctx.Paths.StagingRoot()
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.New(errors.ErrIncompleteStage,
			"no staged artifacts found; run the stage phase first")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	for _, name := range names {
		dir := filepath.Join(root, name)
		if stagingComplete(dir) {
			return dir, nil
		}
	}

	return "", errors.New(errors.ErrIncompleteStage,
		"no complete staging area found; run the stage phase first")
}

// stagingComplete reports whether a staging area holds both artifacts
func stagingComplete(dir string) bool {
	return fsutil.FileExists(filepath.Join(dir, paths.SecretFileName)) &&
		fsutil.FileExists(filepath.Join(dir, paths.SettingsFileName))
}

// appendShellBlock appends the integration block to the startup file
// unless the marker is already present. Append is the only mutation
// here; no existing line is edited or removed.
func appendShellBlock(rc, secretFile string) (bool, error) {
	content := ""
	if fsutil.FileExists(rc) {
		var err error
		content, err = fsutil.ReadFileString(rc)
		if err != nil {
			return false, err
		}
	}
	if shell.HasBlock(content) {
		return false, nil
	}

	block := shell.Build(secretFile)
	if content != "" && !endsWithNewline(content) {
		block = "\n" + block
	}
	if err := fsutil.AppendToFile(rc, []byte(block), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && s[len(s)-1] == '\n'
}

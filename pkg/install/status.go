package install

import (
	"os"
	"sort"

	"github.com/rigtools/rigup/pkg/fsutil"
	"github.com/rigtools/rigup/pkg/shell"
)

// StatusReport is the read-only summary of the current install state
type StatusReport struct {
	Version string

	ConfigFile    string
	ConfigPresent bool

	SecretFile    string
	SecretPresent bool
	SecretMode    os.FileMode

	RecoveryCount int
	LatestRecord  string

	ShellFile       string
	ShellIntegrated bool
}

// Status inspects the installation without mutating anything. It is
// safe to run at any time; there is no locking, so a concurrent phase
// may make the report stale by the time it is printed.
func Status(ctx *Context) (*StatusReport, error) {
	rep := &StatusReport{
		Version:    ctx.Version,
		ConfigFile: ctx.Paths.ConfigFile(),
		SecretFile: ctx.Paths.SecretFile(),
		ShellFile:  ctx.Paths.StartupFile(ctx.ShellOverride),
	}

	rep.ConfigPresent = fsutil.FileExists(rep.ConfigFile)

	if info, err := os.Stat(rep.SecretFile); err == nil && info.Mode().IsRegular() {
		rep.SecretPresent = true
		rep.SecretMode = info.Mode().Perm()
	}

	if entries, err := os.ReadDir(ctx.Paths.RecoveryRoot()); err == nil {
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		rep.RecoveryCount = len(names)
		if len(names) > 0 {
			rep.LatestRecord = names[len(names)-1]
		}
	}

	if content, err := fsutil.ReadFileString(rep.ShellFile); err == nil {
		rep.ShellIntegrated = shell.HasBlock(content)
	}

	return rep, nil
}

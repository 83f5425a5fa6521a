// Package paths provides centralized path handling for rigup.
// All filesystem locations the installer touches are computed here,
// once, at process entry, and passed down explicitly.
package paths

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rigtools/rigup/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the rig configuration directory
	EnvConfigDir = "RIGUP_CONFIG_DIR"

	// EnvStateDir overrides the rigup state directory
	EnvStateDir = "RIGUP_STATE_DIR"

	// EnvAPIKey supplies the API key non-interactively
	EnvAPIKey = "RIG_API_KEY"

	// EnvShell is the user's login shell, used to pick a startup file
	EnvShell = "SHELL"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names. These define rigup's on-disk layout and
// are not user-configurable; overrides move whole roots, never
// individual entries.
const (
	// RigDirName is the rig CLI's configuration directory name
	RigDirName = "rig"

	// RigupDirName is the rigup state directory name
	RigupDirName = "rigup"

	// SettingsFileName is the rig configuration file name
	SettingsFileName = "settings.json"

	// SecretsDirName is the subdirectory for the secret file
	SecretsDirName = "secrets"

	// SecretFileName is the script-sourceable secret file name
	SecretFileName = "api-key.sh"

	// RecoveryDirName is the subdirectory for recovery records
	RecoveryDirName = "recovery"

	// StagingDirName is the subdirectory for staging areas
	StagingDirName = "staging"

	// RunStampFormat names per-run directories; lexicographic order
	// equals chronological order.
	RunStampFormat = "20060102-150405"
)

// Paths computes every location rigup reads or writes. Construct one
// with New at process entry and pass it to each phase.
type Paths struct {
	home      string
	configDir string
	stateDir  string
	runStamp  string
}

// New resolves all paths from the environment. It fails with an
// ENVIRONMENT error if the home directory is unset or does not exist;
// this is checked once, before any phase runs.
func New() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		if h := os.Getenv(EnvHome); h != "" {
			home = h
		} else {
			return nil, errors.Wrap(err, errors.ErrEnvironment, "home directory is not set")
		}
	}
	if info, err := os.Stat(home); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrEnvironment, "home directory %q does not exist", home)
	}

	p := &Paths{
		home:     home,
		runStamp: time.Now().UTC().Format(RunStampFormat),
	}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, RigDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = expandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, RigupDirName)
	}

	return p, nil
}

// Home returns the user's home directory
func (p *Paths) Home() string {
	return p.home
}

// ConfigDir returns the rig configuration directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFile returns the path to rig's settings.json
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

// SecretDir returns the directory holding the secret file
func (p *Paths) SecretDir() string {
	return filepath.Join(p.configDir, SecretsDirName)
}

// SecretFile returns the path to the script-sourceable secret file
func (p *Paths) SecretFile() string {
	return filepath.Join(p.SecretDir(), SecretFileName)
}

// StateDir returns the rigup state directory
func (p *Paths) StateDir() string {
	return p.stateDir
}

// RecoveryRoot returns the directory holding all recovery records
func (p *Paths) RecoveryRoot() string {
	return filepath.Join(p.stateDir, RecoveryDirName)
}

// RecoveryDir returns this run's recovery record directory
func (p *Paths) RecoveryDir() string {
	return filepath.Join(p.RecoveryRoot(), p.runStamp)
}

// RecoveryDirFor returns the recovery record directory for a given
// record name. Callers must validate the result's containment before
// any destructive use.
func (p *Paths) RecoveryDirFor(name string) string {
	return filepath.Join(p.RecoveryRoot(), name)
}

// StagingRoot returns the directory holding all staging areas
func (p *Paths) StagingRoot() string {
	return filepath.Join(p.stateDir, StagingDirName)
}

// StagingDir returns this run's staging area
func (p *Paths) StagingDir() string {
	return filepath.Join(p.StagingRoot(), p.runStamp)
}

// RunStamp returns the timestamp key shared by this run's recovery
// record and staging area.
func (p *Paths) RunStamp() string {
	return p.runStamp
}

// StartupFile returns the shell startup file that receives the
// integration block. The shell name comes from the override if given,
// otherwise from $SHELL; unknown shells fall back to .profile.
func (p *Paths) StartupFile(shellOverride string) string {
	shell := shellOverride
	if shell == "" {
		shell = filepath.Base(os.Getenv(EnvShell))
	}
	switch shell {
	case "zsh":
		return filepath.Join(p.home, ".zshrc")
	case "bash":
		return filepath.Join(p.home, ".bashrc")
	default:
		return filepath.Join(p.home, ".profile")
	}
}

// StartupCandidates returns every startup file rigup may have touched,
// in a stable order. Snapshot backs these up; clean scrubs them.
func (p *Paths) StartupCandidates() []string {
	return []string{
		filepath.Join(p.home, ".bashrc"),
		filepath.Join(p.home, ".zshrc"),
		filepath.Join(p.home, ".profile"),
	}
}

// expandHome expands a leading ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

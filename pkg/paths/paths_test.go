package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigup/pkg/errors"
)

func newTestPaths(t *testing.T) *Paths {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv(EnvConfigDir, filepath.Join(tmp, ".config", "rig"))
	t.Setenv(EnvStateDir, filepath.Join(tmp, ".local", "state", "rigup"))

	p, err := New()
	require.NoError(t, err)
	return p
}

func TestNewFailsWithoutHome(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := New()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrEnvironment))
}

func TestLayout(t *testing.T) {
	p := newTestPaths(t)

	assert.Equal(t, filepath.Join(p.ConfigDir(), SettingsFileName), p.ConfigFile())
	assert.Equal(t, filepath.Join(p.ConfigDir(), SecretsDirName, SecretFileName), p.SecretFile())
	assert.Equal(t, filepath.Join(p.StateDir(), RecoveryDirName), p.RecoveryRoot())
	assert.Equal(t, filepath.Join(p.StateDir(), StagingDirName), p.StagingRoot())

	// The per-run directories share one timestamp key.
	assert.Equal(t, filepath.Base(p.RecoveryDir()), filepath.Base(p.StagingDir()))
	assert.Equal(t, p.RunStamp(), filepath.Base(p.RecoveryDir()))
}

func TestEnvOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv(EnvConfigDir, "/custom/rig")
	t.Setenv(EnvStateDir, "/custom/state")

	p, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/custom/rig", p.ConfigDir())
	assert.Equal(t, "/custom/state", p.StateDir())
}

func TestStartupFile(t *testing.T) {
	p := newTestPaths(t)

	tests := []struct {
		name     string
		override string
		shellEnv string
		want     string
	}{
		{name: "zsh from env", shellEnv: "/usr/bin/zsh", want: ".zshrc"},
		{name: "bash from env", shellEnv: "/bin/bash", want: ".bashrc"},
		{name: "unknown shell", shellEnv: "/bin/ksh", want: ".profile"},
		{name: "no shell set", shellEnv: "", want: ".profile"},
		{name: "override wins", override: "zsh", shellEnv: "/bin/bash", want: ".zshrc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvShell, tt.shellEnv)
			got := p.StartupFile(tt.override)
			assert.Equal(t, filepath.Join(p.Home(), tt.want), got)
		})
	}
}

func TestStartupCandidatesCoverChosenFile(t *testing.T) {
	p := newTestPaths(t)

	for _, shell := range []string{"bash", "zsh", "other"} {
		assert.Contains(t, p.StartupCandidates(), p.StartupFile(shell))
	}
}

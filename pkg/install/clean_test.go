package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/paths"
	"github.com/rigtools/rigup/pkg/shell"
)

func TestCleanRefusesWithoutInteractiveSession(t *testing.T) {
	ctx := newTestContext(t) // NoInput is set

	_, err := Clean(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoConfirmation))
}

func TestCleanRefusesWhenDeclined(t *testing.T) {
	ctx := newTestContext(t)
	ctx.NoInput = false
	ctx.Prompter = &fakePrompter{interactive: true, confirm: false}

	_, err := Clean(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoConfirmation))
}

func TestCleanRemovesManagedState(t *testing.T) {
	ctx := newTestContext(t)

	// Existing rc content that must survive the scrub.
	rcPath := filepath.Join(ctx.Paths.Home(), ".bashrc")
	priorRC := "# my rc\nexport EDITOR=vim\n"
	require.NoError(t, os.WriteFile(rcPath, []byte(priorRC), 0o644))

	t.Setenv(paths.EnvAPIKey, testKey)
	_, err := Run(ctx)
	require.NoError(t, err)

	ctx.NoInput = false
	ctx.Prompter = &fakePrompter{interactive: true, confirm: true}

	res, err := Clean(ctx)
	require.NoError(t, err)
	assert.Contains(t, res.ScrubbedFiles, rcPath)

	assert.NoDirExists(t, ctx.Paths.ConfigDir())
	assert.NoDirExists(t, ctx.Paths.SecretDir())
	assert.NoDirExists(t, ctx.Paths.RecoveryRoot())
	assert.NoDirExists(t, ctx.Paths.StagingRoot())

	rcContent, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, priorRC, string(rcContent), "unrelated rc content preserved verbatim")
	assert.False(t, shell.HasBlock(string(rcContent)))
}

func TestCleanIsANoOpOnFreshSystemAfterConfirmation(t *testing.T) {
	ctx := newTestContext(t)
	ctx.NoInput = false
	ctx.Prompter = &fakePrompter{interactive: true, confirm: true}

	res, err := Clean(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.RemovedDirs)
	assert.Empty(t, res.ScrubbedFiles)
}

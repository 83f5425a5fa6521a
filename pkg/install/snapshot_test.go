package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigup/pkg/fsutil"
)

func TestSnapshotFreshEnvironment(t *testing.T) {
	ctx := newTestContext(t)

	res, err := Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Captured, "nothing existed, nothing backed up")

	info, err := os.Stat(res.Dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	rec, err := readRecord(res.Dir)
	require.NoError(t, err)
	assert.Equal(t, ctx.Version, rec.Version)
	assert.False(t, rec.Timestamp.IsZero())
	assert.Empty(t, rec.Captured)
}

func TestSnapshotBacksUpExistingTargets(t *testing.T) {
	ctx := newTestContext(t)

	require.NoError(t, fsutil.WriteFileAtomic(ctx.Paths.ConfigFile(), []byte("prior"), 0o600))
	rcPath := filepath.Join(ctx.Paths.Home(), ".zshrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("# zsh\n"), 0o644))

	res, err := Snapshot(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ctx.Paths.ConfigFile(), rcPath}, res.Captured)

	backup, err := os.ReadFile(filepath.Join(res.Dir, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, "prior", string(backup))

	rec, err := readRecord(res.Dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, res.Captured, rec.Captured)
}

func TestSnapshotCreatesDistinctRecordsPerInvocation(t *testing.T) {
	ctx := newTestContext(t)

	first, err := Snapshot(ctx)
	require.NoError(t, err)
	second, err := Snapshot(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir, second.Dir)
	assert.Greater(t, filepath.Base(second.Dir), filepath.Base(first.Dir),
		"later records sort after earlier ones")
}

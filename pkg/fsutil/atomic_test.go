package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "settings.json")

	err := WriteFileAtomic(path, []byte(`{"a":1}`), 0o600)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Parent directory was created owner-only.
	dirInfo, err := os.Stat(filepath.Join(tmp, "nested"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "file")

	require.NoError(t, WriteFileAtomic(path, []byte("old"), 0o600))
	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, WriteFileAtomic(filepath.Join(tmp, "file"), []byte("x"), 0o600))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file", entries[0].Name())
}

func TestCopyFilePreservesMode(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "sub", "dst")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o640))
	require.NoError(t, os.Chmod(src, 0o640))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestCopyFileMissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := CopyFile(filepath.Join(tmp, "absent"), filepath.Join(tmp, "dst"))
	require.Error(t, err)
}

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f")

	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(tmp), "directories are not files")
}

func TestAppendToFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "rc")

	require.NoError(t, AppendToFile(path, []byte("line one\n"), 0o644))
	require.NoError(t, AppendToFile(path, []byte("line two\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

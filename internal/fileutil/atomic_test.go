package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "session.phhs")

	require.NoError(t, WriteFileAtomic(file, []byte("hello world"), 0o644))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteAtomicReplacesFile(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "session.phhs")
	require.NoError(t, WriteFileAtomic(file, []byte("old"), 0o600))

	require.NoError(t, WriteAtomic(file, 0o600, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	}))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteAtomicKeepsOldFileOnError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "session.phhs")
	require.NoError(t, WriteFileAtomic(file, []byte("old"), 0o600))

	boom := errors.New("boom")
	err := WriteAtomic(file, 0o600, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be removed")
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	t.Parallel()
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "file"), nil, 0o600)
	assert.ErrorContains(t, err, "create temp file")
}

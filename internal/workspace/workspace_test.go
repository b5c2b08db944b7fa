package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
)

func TestNewManager_OrdersParentsFirst(t *testing.T) {
	base := t.TempDir()
	child := filepath.Join(base, "content", "docs")
	parent := filepath.Join(base, "content")

	mgr := NewManager(child, parent, child+"/")
	assert.Equal(t, []string{parent, child}, mgr.Dirs())
}

func TestReset_CreatesMissingDirectories(t *testing.T) {
	base := t.TempDir()
	docs := filepath.Join(base, "out", "docs")
	images := filepath.Join(base, "out", "images")

	require.NoError(t, NewManager(docs, images).Reset())

	for _, d := range []string{docs, images} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestReset_RemovesStaleEntriesButKeepsDirectory(t *testing.T) {
	base := t.TempDir()
	docs := filepath.Join(base, "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(docs, "nested", "deep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "stale.md"), []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "nested", "deep", "x.md"), []byte("old"), 0o600))
	sibling := filepath.Join(base, "keep.md")
	require.NoError(t, os.WriteFile(sibling, []byte("source"), 0o600))

	mgr := NewManager(docs)
	require.NoError(t, mgr.Reset())

	entries, err := os.ReadDir(docs)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.FileExists(t, sibling, "reset must not touch anything outside the managed directory")

	// Idempotent on an already empty directory.
	require.NoError(t, mgr.Reset())
}

func TestReset_FailureIsClassified(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewManager(filepath.Join(blocker, "docs")).Reset()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestWriteFile_ConfinedToManagedDirs(t *testing.T) {
	base := t.TempDir()
	docs := filepath.Join(base, "docs")
	mgr := NewManager(docs)
	require.NoError(t, mgr.Reset())

	target := filepath.Join(docs, "page.md")
	require.NoError(t, mgr.WriteFile(target, []byte("hello")))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.Error(t, mgr.WriteFile(filepath.Join(base, "escape.md"), []byte("x")))
	assert.Error(t, mgr.WriteFile(filepath.Join(docs, "..", "escape.md"), []byte("x")))
	assert.Error(t, mgr.WriteFile(docs, []byte("x")), "the directory itself is not a file target")
}

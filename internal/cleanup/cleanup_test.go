package cleanup

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishchaysingla/Codebase-project/internal/workspace"
)

func TestRemoveTree_MissingPathIsNoop(t *testing.T) {
	err := RemoveTree(filepath.Join(t.TempDir(), "never-existed"))
	assert.NoError(t, err)
}

func TestRemoveTree_PlainTree(t *testing.T) {
	root := t.TempDir()
	tree := filepath.Join(root, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(tree, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tree, "a", "b", "f.txt"), []byte("x"), 0o644))

	require.NoError(t, RemoveTree(tree))
	_, err := os.Lstat(tree)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveTree_ReadOnlyEntries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission semantics differ on windows")
	}
	if os.Getuid() == 0 {
		t.Skip("root ignores permission bits")
	}

	root := t.TempDir()
	tree := filepath.Join(root, "tree")
	inner := filepath.Join(tree, "objects")
	require.NoError(t, os.MkdirAll(inner, 0o755))
	locked := filepath.Join(inner, "pack.idx")
	require.NoError(t, os.WriteFile(locked, []byte("x"), 0o644))

	// Read-only file inside a read-only directory, the shape git leaves behind.
	require.NoError(t, os.Chmod(locked, 0o400))
	require.NoError(t, os.Chmod(inner, 0o500))

	require.NoError(t, RemoveTree(tree))
	_, err := os.Lstat(tree)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveWorkspace_Idempotent(t *testing.T) {
	root := t.TempDir()
	ws := workspace.New(root, "job-1")
	require.NoError(t, os.MkdirAll(ws.SourceDir, 0o755))
	require.NoError(t, os.MkdirAll(ws.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(ws.ArchivePath, []byte("zip"), 0o644))

	RemoveWorkspace(ws)
	for _, p := range []string{ws.SourceDir, ws.OutputDir, ws.ArchivePath} {
		_, err := os.Lstat(p)
		assert.True(t, os.IsNotExist(err), p)
	}

	// Second call on an already-clean workspace must not blow up.
	RemoveWorkspace(ws)
}

func TestSweepStale_OnlyMatchingEntries(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "repo-old"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs-old"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bundle-old.zip"), []byte("zip"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unrelated"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("keep"), 0o644))

	removed := SweepStale(root)
	assert.Equal(t, 3, removed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.ElementsMatch(t, []string{"unrelated", "notes.txt"}, names)
}

func TestSweepStale_MissingRoot(t *testing.T) {
	assert.Zero(t, SweepStale(filepath.Join(t.TempDir(), "nope")))
}

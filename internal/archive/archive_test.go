package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_RoundTrip(t *testing.T) {
	outputRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outputRoot, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outputRoot, "_PROJECT_OVERVIEW.md"), []byte("overview"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outputRoot, "pkg", "util.md"), []byte("util docs"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "bundle-x.zip")
	got, err := Create(outputRoot, archivePath)
	require.NoError(t, err)
	assert.Equal(t, archivePath, got)

	zr, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"_PROJECT_OVERVIEW.md": "overview",
		"pkg/util.md":          "util docs",
	}, contents)
}

func TestCreate_EmptyTree(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "bundle-empty.zip")
	_, err := Create(t.TempDir(), archivePath)
	require.NoError(t, err)

	zr, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	assert.Empty(t, zr.File)
}

func TestCreate_MissingSource(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "bundle-x.zip")
	_, err := Create(filepath.Join(t.TempDir(), "nope"), archivePath)
	assert.Error(t, err)
}

func TestCreate_UnwritableDestination(t *testing.T) {
	_, err := Create(t.TempDir(), filepath.Join(t.TempDir(), "no", "such", "dir", "b.zip"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create archive")
}

// Package archive packages the generated documentation tree into a single
// zip file whose internal layout mirrors the tree's relative paths.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

// Create writes a zip archive of outputRoot at archivePath and returns that
// path. A prior archive at the same path is overwritten; archive names are
// deterministic per job and jobs are never retried with the same id.
func Create(outputRoot, archivePath string) (string, error) {
	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	walkErr := filepath.WalkDir(outputRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outputRoot, p)
		if err != nil {
			return err
		}
		return addFile(zw, filepath.ToSlash(rel), p)
	})
	if walkErr != nil {
		_ = zw.Close()
		return "", fmt.Errorf("failed to archive %s: %w", outputRoot, walkErr)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	return archivePath, nil
}

// addFile copies one file into the archive under the given entry name.
func addFile(zw *zip.Writer, name, srcPath string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	_, err = io.Copy(w, src)
	return err
}

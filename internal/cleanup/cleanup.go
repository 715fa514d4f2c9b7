// Package cleanup removes job workspaces, tolerating locked and read-only
// filesystem entries. Checkouts can leave read-only metadata behind (git's
// object store, for one), so a plain recursive delete is retried once after
// granting write permission throughout the tree. Cleanup is best-effort: a
// failure here is logged, never surfaced to users, and never crashes the
// serving process.
package cleanup

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/nishchaysingla/Codebase-project/internal/workspace"
)

// removeState tracks progress through the delete-fix-retry policy.
type removeState int

const (
	stateClean removeState = iota
	stateFixing
	stateRetried
	stateGaveUp
)

// RemoveTree deletes path and everything under it. A missing path is a no-op.
// On a permission failure it grants write permission to every entry and
// retries once; if the retry also fails the error is logged and returned, but
// callers on serving paths are expected to ignore it.
func RemoveTree(path string) error {
	state := stateClean
	var lastErr error
	for {
		switch state {
		case stateClean:
			err := os.RemoveAll(path)
			if err == nil {
				return nil
			}
			lastErr = err
			state = stateFixing
		case stateFixing:
			grantWrite(path)
			state = stateRetried
		case stateRetried:
			err := os.RemoveAll(path)
			if err == nil {
				return nil
			}
			lastErr = err
			state = stateGaveUp
		case stateGaveUp:
			log.Printf("[cleanup] giving up on %s: %v", path, lastErr)
			return lastErr
		}
	}
}

// grantWrite walks the tree adding owner write (and traversal, for
// directories) so a retried delete can unlink read-only entries. Errors are
// ignored; whatever cannot be fixed will fail the retry instead.
func grantWrite(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		mode := fs.FileMode(0o600)
		if d.IsDir() {
			mode = 0o700
		}
		_ = os.Chmod(p, mode)
		return nil
	})
}

// RemoveWorkspace deletes the source tree, output tree, and archive for one
// job. It is idempotent: removing an already-clean workspace does nothing.
func RemoveWorkspace(ws workspace.Workspace) {
	if err := RemoveTree(ws.SourceDir); err != nil {
		log.Printf("[cleanup] source tree for job %s left behind: %v", ws.JobID, err)
	}
	if err := RemoveTree(ws.OutputDir); err != nil {
		log.Printf("[cleanup] output tree for job %s left behind: %v", ws.JobID, err)
	}
	if err := os.Remove(ws.ArchivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[cleanup] archive for job %s left behind: %v", ws.JobID, err)
	}
}

// SweepStale scans root for entries matching the workspace naming convention
// and removes them regardless of which job id produced them. It returns the
// number of entries removed.
func SweepStale(root string) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0
	}
	removed := 0
	for _, entry := range entries {
		if !workspace.IsStaleArtifact(entry.Name()) {
			continue
		}
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if RemoveTree(full) == nil {
				removed++
			}
			continue
		}
		if os.Remove(full) == nil {
			removed++
		}
	}
	return removed
}

// Package walker enumerates the candidate files of a cloned source tree.
package walker

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/nishchaysingla/Codebase-project/internal/classify"
)

// Candidate is a file selected for analysis. Immutable once enumerated.
type Candidate struct {
	Path    string // absolute path within the source tree
	RelPath string // slash-separated path relative to the tree root
	Size    int64
}

// Enumerate walks root recursively, pruning directories and filtering files
// with the given rules. A missing root or a tree with no eligible files
// yields an empty result, not an error: both are normal outcomes. Symbolic
// links are never followed, for directories or files. Results are sorted by
// relative path so downstream output is reproducible.
func Enumerate(root string, rules classify.Rules) []Candidate {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var out []Candidate
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("[walker] skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && !rules.ShouldDescend(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			// Deleted mid-scan; exclude.
			return nil
		}
		if !rules.ShouldAnalyze(path, fi) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		out = append(out, Candidate{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Size:    fi.Size(),
		})
		return nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].RelPath < out[j].RelPath })
	return out
}

// Package workspace derives the job-scoped filesystem locations used by the
// analysis pipeline. Every job owns exactly three entries under the workspace
// root, named deterministically from its id so concurrent jobs never collide.
package workspace

import (
	"path/filepath"
	"strings"
)

const (
	sourcePrefix  = "repo-"
	outputPrefix  = "docs-"
	archivePrefix = "bundle-"
	archiveSuffix = ".zip"
)

// Workspace holds the filesystem locations scoped to one job id.
type Workspace struct {
	JobID       string
	SourceDir   string // shallow clone of the repository under analysis
	OutputDir   string // generated .md tree mirroring the source layout
	ArchivePath string // final downloadable archive
}

// New derives the workspace for a job id under root.
func New(root, jobID string) Workspace {
	return Workspace{
		JobID:       jobID,
		SourceDir:   filepath.Join(root, sourcePrefix+jobID),
		OutputDir:   filepath.Join(root, outputPrefix+jobID),
		ArchivePath: filepath.Join(root, archivePrefix+jobID+archiveSuffix),
	}
}

// ArchiveName returns the archive's base name, which doubles as the job's
// download handle.
func (w Workspace) ArchiveName() string {
	return filepath.Base(w.ArchivePath)
}

// IsStaleArtifact reports whether a directory entry name matches the naming
// convention of any job's source tree, output tree, or archive. The stale
// sweep uses this to reclaim leftovers from jobs that crashed before their
// own cleanup ran.
func IsStaleArtifact(name string) bool {
	switch {
	case strings.HasPrefix(name, sourcePrefix), strings.HasPrefix(name, outputPrefix):
		return true
	case strings.HasPrefix(name, archivePrefix) && strings.HasSuffix(name, archiveSuffix):
		return true
	}
	return false
}

// JobIDFromArchiveName extracts the job id embedded in an archive file name.
// Returns "" when the name does not match the convention, including any name
// containing a path separator.
func JobIDFromArchiveName(name string) string {
	if strings.ContainsAny(name, `/\`) {
		return ""
	}
	if !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), archiveSuffix)
}

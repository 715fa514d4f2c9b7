// Package clone fetches remote repositories into job-scoped directories with
// a shallow checkout. Only the current revision's contents are ever analyzed,
// so history is never fetched.
package clone

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/nishchaysingla/Codebase-project/internal/cleanup"
)

// Cloner invokes the git CLI to produce local working trees.
type Cloner struct {
	// GitPath overrides the binary looked up in PATH. Defaults to "git".
	GitPath string
}

// Repo is a handle on a fetched working tree. It must be closed before the
// tree is deleted, regardless of transport: a held handle can leave lock
// files behind that make the first deletion attempt fail.
type Repo struct {
	dir    string
	closed atomic.Bool
}

// Dir returns the root of the checked-out tree.
func (r *Repo) Dir() string { return r.dir }

// Close releases the checkout. Safe to call more than once.
func (r *Repo) Close() error {
	r.closed.Store(true)
	return nil
}

// Closed reports whether the handle has been released.
func (r *Repo) Closed() bool { return r.closed.Load() }

// CloneError carries the diagnostic from a failed clone. Its message is
// surfaced verbatim to the job's error field, so it stays short and
// human-readable.
type CloneError struct {
	URL    string
	Output string // trimmed git stderr, when available
	Cause  error
}

func (e *CloneError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("clone of %s failed: %s", e.URL, e.Output)
	}
	return fmt.Sprintf("clone of %s failed: %v", e.URL, e.Cause)
}

func (e *CloneError) Unwrap() error {
	return e.Cause
}

// Clone performs a shallow, single-branch clone of url into dest. A leftover
// dest from a crashed run is destroyed first so the checkout is always clean.
// Transport failures are not retried; network and auth errors are not assumed
// transient.
func (c *Cloner) Clone(ctx context.Context, url, dest string) (*Repo, error) {
	gitPath := c.GitPath
	if gitPath == "" {
		gitPath = "git"
	}
	if _, err := exec.LookPath(gitPath); err != nil {
		return nil, &CloneError{URL: url, Cause: fmt.Errorf("git not found in PATH: %w", err)}
	}

	if _, err := os.Lstat(dest); err == nil {
		log.Printf("[clone] removing leftover checkout at %s", dest)
		if err := cleanup.RemoveTree(dest); err != nil {
			return nil, &CloneError{URL: url, Cause: fmt.Errorf("cannot clear destination %s: %w", dest, err)}
		}
	}

	cmd := exec.CommandContext(ctx, gitPath, "clone", "--depth", "1", "--single-branch", url, dest)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Drop any partial checkout so a failed fetch leaves nothing behind.
		_ = cleanup.RemoveTree(dest)
		return nil, &CloneError{URL: url, Output: lastLine(stderr.String()), Cause: err}
	}

	return &Repo{dir: dest}, nil
}

// lastLine extracts the final non-empty line of git's stderr, which is where
// the actual diagnostic lands after any progress chatter.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

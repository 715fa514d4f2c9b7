// Package pipeline provides the high-level orchestration for one end-to-end
// repository analysis job: clone, enumerate, explain each file, aggregate,
// archive, and release.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nishchaysingla/Codebase-project/internal/archive"
	"github.com/nishchaysingla/Codebase-project/internal/classify"
	"github.com/nishchaysingla/Codebase-project/internal/cleanup"
	"github.com/nishchaysingla/Codebase-project/internal/clone"
	"github.com/nishchaysingla/Codebase-project/internal/explain"
	"github.com/nishchaysingla/Codebase-project/internal/observability"
	"github.com/nishchaysingla/Codebase-project/internal/walker"
	"github.com/nishchaysingla/Codebase-project/internal/workspace"
)

// ErrNoFiles reports that the repository cloned fine but contained nothing
// worth analyzing. Callers present this as a distinct user-facing outcome,
// not as a generic failure.
var ErrNoFiles = errors.New("no suitable files to analyze")

// Source is a fetched working tree. It must be released before its directory
// is deleted.
type Source interface {
	Dir() string
	Close() error
}

// Fetcher clones a remote repository into dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (Source, error)
}

// NewGitFetcher adapts a clone.Cloner to the Fetcher interface.
func NewGitFetcher(c *clone.Cloner) Fetcher {
	return gitFetcher{c: c}
}

type gitFetcher struct {
	c *clone.Cloner
}

func (g gitFetcher) Fetch(ctx context.Context, url, dest string) (Source, error) {
	repo, err := g.c.Clone(ctx, url, dest)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// ProgressFunc is called as the pipeline moves through its stages.
type ProgressFunc func(stage, message string)

// Runner sequences the pipeline stages for one job. Each job's workspace is
// namespaced by job id, so concurrent Runners over the same root never share
// filesystem state.
type Runner struct {
	Fetcher       Fetcher
	Explainer     *explain.Explainer
	Rules         classify.Rules
	WorkspaceRoot string

	// Workers bounds the per-file explainer concurrency. Zero means one:
	// strictly sequential, matching the baseline behavior.
	Workers int

	// SweepOnStart removes stale artifacts left by crashed runs before this
	// one begins. The sweep takes every workspace entry under the root, not
	// just this job's, so only single-job invocations may enable it; servers
	// running concurrent jobs sweep once at startup instead.
	SweepOnStart bool

	Verbose    bool
	OnProgress ProgressFunc
}

// Run executes one job and returns the path of the finished archive. A
// repository with no eligible files yields ErrNoFiles; clone failures come
// back as *clone.CloneError. The fetch handle is released on every exit path.
func (r *Runner) Run(ctx context.Context, jobID, repoURL string) (string, error) {
	printer := observability.NewPrinter(os.Stdout)

	if r.SweepOnStart {
		if n := cleanup.SweepStale(r.WorkspaceRoot); n > 0 {
			r.progress(jobID, "sweep", "removed %d stale artifacts", n)
		}
	}
	if err := os.MkdirAll(r.WorkspaceRoot, 0o755); err != nil {
		return "", fmt.Errorf("failed to create workspace root: %w", err)
	}

	ws := workspace.New(r.WorkspaceRoot, jobID)

	// Phase 1: clone and filter.
	r.progress(jobID, "clone", "cloning %s", repoURL)
	src, err := r.Fetcher.Fetch(ctx, repoURL, ws.SourceDir)
	if err != nil {
		return "", err
	}
	// Release the checkout on every exit path; deleting the source tree under
	// a held handle is what leaves lock files behind.
	defer func() { _ = src.Close() }()

	// release reclaims everything this job has written so far. Failed runs
	// must leave nothing behind; they cannot rely on a later sweep.
	release := func() {
		_ = src.Close()
		cleanup.RemoveWorkspace(ws)
	}

	candidates := walker.Enumerate(src.Dir(), r.Rules)
	r.progress(jobID, "scan", "found %d files to analyze", len(candidates))
	if r.Verbose {
		printer.PrintCandidates(candidates)
	}
	if len(candidates) == 0 {
		release()
		return "", ErrNoFiles
	}

	// Phase 2: explain each candidate into a fresh output tree.
	_ = cleanup.RemoveTree(ws.OutputDir)
	if err := os.MkdirAll(ws.OutputDir, 0o755); err != nil {
		release()
		return "", fmt.Errorf("failed to create output tree: %w", err)
	}

	summaries := make(map[string]string, len(candidates))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for _, cand := range candidates {
		g.Go(func() error {
			res, perr := r.Explainer.ProcessFile(gctx, ws.OutputDir, cand)
			if perr != nil {
				// A file deleted or unreadable mid-scan skips that file only.
				log.Printf("[job %s] skipping %s: %v", jobID, cand.RelPath, perr)
				return nil
			}
			mu.Lock()
			summaries[res.RelPath] = res.Summary
			mu.Unlock()
			return nil
		})
	}
	// Workers swallow per-file failures, so Wait serves purely as the barrier
	// before the aggregate overview.
	_ = g.Wait()
	if r.Verbose {
		printer.PrintSummaries(summaries)
	}

	// Phase 3: aggregate overview.
	r.progress(jobID, "overview", "generating project overview")
	if err := r.Explainer.WriteOverview(ctx, ws.OutputDir, summaries); err != nil {
		release()
		return "", err
	}

	// Phase 4: package.
	r.progress(jobID, "archive", "packaging documentation")
	archivePath, err := archive.Create(ws.OutputDir, ws.ArchivePath)
	if err != nil {
		release()
		return "", err
	}

	r.progress(jobID, "done", "archive ready at %s", archivePath)
	return archivePath, nil
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return 1
}

func (r *Runner) progress(jobID, stage, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[job %s] %s: %s", jobID, stage, message)
	if r.OnProgress != nil {
		r.OnProgress(stage, message)
	}
}

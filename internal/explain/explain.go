// Package explain turns candidate source files into Markdown documentation
// through the content-generation collaborator, and assembles the aggregate
// project overview. Collaborator failures degrade to embedded error documents
// so a flaky call can never sink a whole job.
package explain

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nishchaysingla/Codebase-project/internal/llm"
	"github.com/nishchaysingla/Codebase-project/internal/prompts"
	"github.com/nishchaysingla/Codebase-project/internal/walker"
)

// OverviewFilename is the fixed name of the aggregate overview document
// written at the output tree's root.
const OverviewFilename = "_PROJECT_OVERVIEW.md"

// Result records the generated documentation for one candidate file.
type Result struct {
	RelPath string // output-relative path of the generated .md file
	Summary string // first line of the generated document
}

// Explainer adapts candidate files to the collaborator and persists the
// returned Markdown at mirrored output paths.
type Explainer struct {
	client llm.Client
}

// New creates an Explainer backed by the given client.
func New(client llm.Client) *Explainer {
	return &Explainer{client: client}
}

// ExplainFile asks the collaborator for an explanation of one file. It never
// fails: collaborator errors come back as an error-flavored Markdown document
// embedding the diagnostic.
func (e *Explainer) ExplainFile(ctx context.Context, content, relPath string) string {
	name := path.Base(relPath)
	prompt := prompts.Format(prompts.MustGet("file_explanation"), map[string]string{
		"Path":    relPath,
		"Content": content,
	})

	text, err := e.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("[explain] collaborator failed for %s: %v", name, err)
		return fmt.Sprintf("# Error Analyzing `%s`\n\nAn error occurred while communicating with the AI model: %v\n", name, err)
	}
	return fmt.Sprintf("# Explanation for `%s`\n\n%s", name, text)
}

// SummarizeProject asks the collaborator for the aggregate overview, given
// the rendered output tree and the per-file one-line summaries. Same failure
// contract as ExplainFile.
func (e *Explainer) SummarizeProject(ctx context.Context, treeText string, summaries map[string]string) string {
	prompt := prompts.Format(prompts.MustGet("project_overview"), map[string]string{
		"Tree":      treeText,
		"Summaries": formatSummaries(summaries),
	})

	text, err := e.client.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("[explain] collaborator failed for project overview: %v", err)
		return fmt.Sprintf("# Error Generating Project Overview\n\nAn error occurred while communicating with the AI model: %v\n", err)
	}
	return text
}

// ProcessFile reads one candidate as text (tolerating undecodable byte
// sequences), obtains its explanation, and writes it under outputRoot at the
// mirrored path with the extension swapped for .md. The returned Result keys
// the document by that output-relative path.
func (e *Explainer) ProcessFile(ctx context.Context, outputRoot string, cand walker.Candidate) (Result, error) {
	raw, err := os.ReadFile(cand.Path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", cand.RelPath, err)
	}
	content := strings.ToValidUTF8(string(raw), "�")

	text := e.ExplainFile(ctx, content, cand.RelPath)

	outRel := MarkdownPath(cand.RelPath)
	outPath := filepath.Join(outputRoot, filepath.FromSlash(outRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory for %s: %w", outRel, err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", outRel, err)
	}

	return Result{RelPath: outRel, Summary: firstLine(text)}, nil
}

// WriteOverview renders the generated output tree, obtains the aggregate
// overview, and writes it at the output root under OverviewFilename.
func (e *Explainer) WriteOverview(ctx context.Context, outputRoot string, summaries map[string]string) error {
	tree, err := RenderTree(outputRoot)
	if err != nil {
		return fmt.Errorf("failed to render output tree: %w", err)
	}

	text := e.SummarizeProject(ctx, tree, summaries)

	overviewPath := filepath.Join(outputRoot, OverviewFilename)
	if err := os.WriteFile(overviewPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", OverviewFilename, err)
	}
	return nil
}

// MarkdownPath maps a source-relative path to its output-relative path by
// replacing the final extension with .md. Dotfiles with no other dot keep
// their full name (".gitignore" becomes ".gitignore.md").
func MarkdownPath(rel string) string {
	base := path.Base(rel)
	ext := path.Ext(base)
	if ext == base {
		ext = ""
	}
	return strings.TrimSuffix(rel, ext) + ".md"
}

// formatSummaries renders the summary mapping as one bullet per file, sorted
// by path for reproducible prompts. The explanation title prefix is stripped
// so the overview prompt reads as plain one-liners.
func formatSummaries(summaries map[string]string) string {
	keys := make([]string, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		summary := strings.TrimSpace(strings.Replace(summaries[k], "# Explanation for", "", 1))
		fmt.Fprintf(&sb, "- `%s`: %s\n", k, summary)
	}
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

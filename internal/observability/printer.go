// Package observability provides formatted output utilities for verbose mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nishchaysingla/Codebase-project/internal/walker"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidates outputs the enumerated candidate files.
func (p *Printer) PrintCandidates(candidates []walker.Candidate) {
	var sb strings.Builder
	count := min(len(candidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s (%d bytes)\n", candidates[i].RelPath, candidates[i].Size))
	}
	if len(candidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(candidates)-maxItemsToShow))
	}
	p.printBox(fmt.Sprintf("Candidate Files (%d)", len(candidates)), strings.TrimRight(sb.String(), "\n"))
}

// PrintSummaries outputs the per-file one-line summaries collected so far.
func (p *Printer) PrintSummaries(summaries map[string]string) {
	keys := make([]string, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	count := min(len(keys), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", keys[i], summaries[keys[i]]))
	}
	if len(keys) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(keys)-maxItemsToShow))
	}
	p.printBox(fmt.Sprintf("File Summaries (%d)", len(keys)), strings.TrimRight(sb.String(), "\n"))
}

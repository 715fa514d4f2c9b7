package explain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nishchaysingla/Codebase-project/internal/walker"
)

// fakeClient returns a canned response, or an error when Err is set. It also
// records the last prompt for assertions on prompt assembly.
type fakeClient struct {
	Response   string
	Err        error
	LastPrompt string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.LastPrompt = prompt
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

func (f *fakeClient) Close() error { return nil }

func TestExplainFile_Success(t *testing.T) {
	client := &fakeClient{Response: "This file wires up the router."}
	e := New(client)

	doc := e.ExplainFile(context.Background(), "package main", "cmd/app/main.go")

	assert.True(t, strings.HasPrefix(doc, "# Explanation for `main.go`\n\n"))
	assert.Contains(t, doc, "This file wires up the router.")
	assert.Contains(t, client.LastPrompt, "cmd/app/main.go")
	assert.Contains(t, client.LastPrompt, "package main")
}

func TestExplainFile_ErrorEmbedsDocument(t *testing.T) {
	client := &fakeClient{Err: errors.New("quota exceeded")}
	e := New(client)

	doc := e.ExplainFile(context.Background(), "x = 1", "src/util.py")

	assert.True(t, strings.HasPrefix(doc, "# Error Analyzing `util.py`\n\n"))
	assert.Contains(t, doc, "An error occurred while communicating with the AI model: quota exceeded")
}

func TestSummarizeProject_ErrorEmbedsDocument(t *testing.T) {
	client := &fakeClient{Err: errors.New("timeout")}
	e := New(client)

	doc := e.SummarizeProject(context.Background(), "root/\n", map[string]string{})

	assert.True(t, strings.HasPrefix(doc, "# Error Generating Project Overview\n\n"))
	assert.Contains(t, doc, "timeout")
}

func TestProcessFile_WritesMirroredMarkdown(t *testing.T) {
	srcRoot := t.TempDir()
	outRoot := t.TempDir()
	srcPath := filepath.Join(srcRoot, "pkg", "util.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(srcPath), 0o755))
	require.NoError(t, os.WriteFile(srcPath, []byte("package pkg\n"), 0o644))

	e := New(&fakeClient{Response: "Utility helpers."})
	res, err := e.ProcessFile(context.Background(), outRoot, walker.Candidate{
		Path:    srcPath,
		RelPath: "pkg/util.go",
	})
	require.NoError(t, err)

	assert.Equal(t, "pkg/util.md", res.RelPath)
	assert.Equal(t, "# Explanation for `util.go`", res.Summary)

	written, err := os.ReadFile(filepath.Join(outRoot, "pkg", "util.md"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "Utility helpers.")
}

func TestProcessFile_MissingSource(t *testing.T) {
	e := New(&fakeClient{Response: "x"})
	_, err := e.ProcessFile(context.Background(), t.TempDir(), walker.Candidate{
		Path:    filepath.Join(t.TempDir(), "gone.go"),
		RelPath: "gone.go",
	})
	assert.Error(t, err)
}

func TestProcessFile_ToleratesInvalidUTF8(t *testing.T) {
	srcRoot := t.TempDir()
	srcPath := filepath.Join(srcRoot, "odd.txt")
	require.NoError(t, os.WriteFile(srcPath, []byte{'o', 'k', 0xff, '\n'}, 0o644))

	client := &fakeClient{Response: "fine"}
	e := New(client)
	_, err := e.ProcessFile(context.Background(), t.TempDir(), walker.Candidate{
		Path:    srcPath,
		RelPath: "odd.txt",
	})
	require.NoError(t, err)
	assert.Contains(t, client.LastPrompt, "ok�")
}

func TestWriteOverview(t *testing.T) {
	outRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(outRoot, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outRoot, "pkg", "util.md"), []byte("doc"), 0o644))

	client := &fakeClient{Response: "# Project Overview\n\nA utility library."}
	e := New(client)
	err := e.WriteOverview(context.Background(), outRoot, map[string]string{
		"pkg/util.md": "# Explanation for `util.go`",
	})
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(outRoot, OverviewFilename))
	require.NoError(t, err)
	assert.Equal(t, client.Response, string(written))

	// The prompt carries the rendered tree and the cleaned summary bullets.
	assert.Contains(t, client.LastPrompt, "pkg/")
	assert.Contains(t, client.LastPrompt, "util.md")
	assert.Contains(t, client.LastPrompt, "- `pkg/util.md`: `util.go`")
	assert.NotContains(t, client.LastPrompt, "# Explanation for `util.go`")
}

func TestMarkdownPath(t *testing.T) {
	cases := map[string]string{
		"main.go":          "main.md",
		"src/util.py":      "src/util.md",
		"README":           "README.md",
		".gitignore":       ".gitignore.md",
		"a/b/c.tar.gz":     "a/b/c.tar.md",
		"dir.v2/file.json": "dir.v2/file.md",
	}
	for in, want := range cases {
		assert.Equal(t, want, MarkdownPath(in), in)
	}
}

func TestFormatSummaries_SortedAndStripped(t *testing.T) {
	got := formatSummaries(map[string]string{
		"b.md": "# Explanation for `b.go`",
		"a.md": "# Explanation for `a.go`",
	})
	assert.Equal(t, "- `a.md`: `a.go`\n- `b.md`: `b.go`\n", got)
}

func TestRenderTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "sub", "deep.md"), []byte("x"), 0o644))

	tree, err := RenderTree(root)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	assert.Contains(t, lines, "    pkg/")
	assert.Contains(t, lines, "        sub/")
	assert.Contains(t, lines, "            deep.md")
	assert.Contains(t, lines, "    top.md")
}

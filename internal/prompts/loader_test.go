package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	for _, key := range []string{"file_explanation", "project_overview"} {
		prompt, err := Get(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, prompt, key)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("no_such_prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() { MustGet("no_such_prompt") })
}

func TestFormat(t *testing.T) {
	out := Format("path={{.Path}} body={{.Content}}", map[string]string{
		"Path":    "a/b.go",
		"Content": "package b",
	})
	assert.Equal(t, "path=a/b.go body=package b", out)
}

func TestFormat_UnusedPlaceholderSurvives(t *testing.T) {
	out := Format("{{.Known}} {{.Unknown}}", map[string]string{"Known": "x"})
	assert.Equal(t, "x {{.Unknown}}", out)
}

func TestTemplates_CarryPlaceholders(t *testing.T) {
	explanation := MustGet("file_explanation")
	assert.Contains(t, explanation, "{{.Path}}")
	assert.Contains(t, explanation, "{{.Content}}")

	overview := MustGet("project_overview")
	assert.Contains(t, overview, "{{.Tree}}")
	assert.Contains(t, overview, "{{.Summaries}}")
}

package explain

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// RenderTree renders root as an indented textual tree: one entry per line,
// directories suffixed with a slash, indentation proportional to depth. It
// describes the generated output layout, purely for presentation to the
// overview collaborator call.
func RenderTree(root string) (string, error) {
	var sb strings.Builder
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		depth := 0
		if p != root {
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return relErr
			}
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		name := d.Name()
		if d.IsDir() {
			name += "/"
		}
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("    ", depth), name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

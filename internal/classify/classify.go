// Package classify decides which directories and files in a freshly cloned,
// untrusted repository are worth analyzing. All predicates are pure over
// filesystem metadata and a fixed-size content sniff; I/O errors are treated
// as "exclude" and never propagate.
package classify

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen is how many leading bytes are inspected when deciding whether a
// file is text.
const sniffLen = 1024

// DefaultMaxFileSize is the size cap applied when Rules does not override it.
const DefaultMaxFileSize = 100 * 1024

// Rules holds the tunable exclusion sets. Zero values are not usable; start
// from DefaultRules and adjust.
type Rules struct {
	// IgnoredDirs lists directory names that are never descended into.
	// Entries containing a wildcard are matched as globs.
	IgnoredDirs []string

	// IgnoredFilenames lists exact file names presumed uninteresting
	// (boilerplate, manifests).
	IgnoredFilenames map[string]struct{}

	// IgnoredExts lists file extensions covering binaries, archives, media,
	// datasets, model weights, logs, and lock files. Case-sensitive.
	IgnoredExts map[string]struct{}

	// HiddenAllowlist names the dotfiles analyzed despite the hidden-file
	// exclusion. Hidden files are excluded by default; the allowlist is the
	// single, explicit exception mechanism.
	HiddenAllowlist map[string]struct{}

	// TestFilePrefixes and TestFileSuffixes encode the test-file naming
	// heuristic; matching files are excluded.
	TestFilePrefixes []string
	TestFileSuffixes []string

	// MaxFileSize is the inclusive size cap in bytes. Files strictly larger
	// are excluded.
	MaxFileSize int64
}

// DefaultRules returns the stock exclusion sets.
func DefaultRules() Rules {
	return Rules{
		IgnoredDirs: []string{
			".git", ".hg", ".svn", "node_modules", "vendor", "venv",
			"__pycache__", "dist", "build", ".idea", ".vscode", "target",
			"logs", "docs", "*.egg-info",
		},
		IgnoredFilenames: set(
			"__init__.py", "setup.py", "manage.py", "config.py",
			"requirements.txt", "package.json", "package-lock.json",
			"go.sum", "Dockerfile", "LICENSE",
		),
		IgnoredExts: set(
			".lock", ".log", ".svg", ".png", ".jpg", ".jpeg", ".ico", ".gif",
			".pdf", ".zip", ".tar", ".gz", ".exe", ".dll", ".so", ".pyc",
			".env", ".db", ".sqlite", ".csv", ".parquet", ".safetensors",
			".pt", ".onnx", ".woff", ".woff2", ".ttf", ".mp3", ".mp4",
		),
		HiddenAllowlist:  set(".gitignore"),
		TestFilePrefixes: []string{"test_"},
		TestFileSuffixes: []string{"_test.py", "_test.go", ".test.js", ".spec.js"},
		MaxFileSize:      DefaultMaxFileSize,
	}
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// ShouldDescend reports whether a directory with the given name should be
// walked into. Names are checked against the ignore set by exact match, and
// against entries containing a wildcard by glob match.
func (r Rules) ShouldDescend(name string) bool {
	for _, pattern := range r.IgnoredDirs {
		if pattern == name {
			return false
		}
		if strings.ContainsAny(pattern, "*?[") {
			if ok, err := filepath.Match(pattern, name); err == nil && ok {
				return false
			}
		}
	}
	return true
}

// ShouldAnalyze reports whether the file at path is a candidate for analysis.
// info must come from Lstat (or a DirEntry) so symlinks are visible. Checks
// apply in a fixed precedence: ignored/hidden name, test-file naming,
// extension denylist, symlink, size cap, then content sniff.
func (r Rules) ShouldAnalyze(path string, info fs.FileInfo) bool {
	name := filepath.Base(path)

	if _, ok := r.IgnoredFilenames[name]; ok {
		return false
	}
	if strings.HasPrefix(name, ".") {
		if _, ok := r.HiddenAllowlist[name]; !ok {
			return false
		}
	}
	for _, prefix := range r.TestFilePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	for _, suffix := range r.TestFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	if _, ok := r.IgnoredExts[filepath.Ext(name)]; ok {
		return false
	}
	// Symlinks are never analyzed, even when the target would qualify:
	// following them could escape the workspace or loop forever.
	if info.Mode()&fs.ModeSymlink != 0 {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	if info.Size() > r.MaxFileSize {
		return false
	}
	return isText(path)
}

// isText sniffs the first kilobyte of the file. A null byte or an invalid
// UTF-8 prefix classifies it as binary. Any read error excludes the file
// (fail closed).
func isText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false
	}
	chunk := buf[:n]
	if bytes.IndexByte(chunk, 0) >= 0 {
		return false
	}
	if n == sniffLen {
		chunk = trimPartialRune(chunk)
	}
	return utf8.Valid(chunk)
}

// trimPartialRune drops a trailing multi-byte sequence that the fixed-size
// read may have cut short, so a rune straddling the sniff boundary does not
// misclassify a text file as binary.
func trimPartialRune(b []byte) []byte {
	start := len(b)
	for start > 0 && len(b)-start < utf8.UTFMax {
		start--
		if utf8.RuneStart(b[start]) {
			break
		}
	}
	tail := b[start:]
	if len(tail) > 0 && !utf8.FullRune(tail) {
		return b[:start]
	}
	return b
}

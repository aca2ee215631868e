package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

// ParseError reports a JSON file that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot load JSON file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadFile reads and parses one JSON document.
func LoadFile(path string) (any, error) {
	_, doc, err := readFile(path)
	return doc, err
}

// readFile returns both the raw bytes and the decoded document.
func readFile(path string) ([]byte, any, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from the scanned tree
	if err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, &ParseError{Path: path, Err: err}
	}
	return raw, doc, nil
}

// hasMagic reports whether a path contains glob metacharacters.
func hasMagic(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// ResolveFileList expands a list of literal paths and glob patterns into
// literal paths, in first-match order. A pattern matching nothing
// contributes nothing; literal paths are kept as given.
func ResolveFileList(patterns []string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		if !hasMagic(p) {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("invalid schema pattern %q: %w", p, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// Companion and example file name patterns.
const (
	LocalSchemaPattern = "*-schema.json"
	ExamplePattern     = "example*.json"
)

// LocalSchemas returns the *-schema.json companions stored directly in dir.
func LocalSchemas(dir string) ([]string, error) {
	return listMatching(dir, LocalSchemaPattern)
}

// Examples returns the example*.json files stored directly in dir.
func Examples(dir string) ([]string, error) {
	return listMatching(dir, ExamplePattern)
}

// listMatching returns the regular files of dir whose base name matches
// pattern, in name order. Only the base name is matched, so dir may hold
// glob metacharacters.
func listMatching(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fiware-datamodels/dmv/internal/cli/output"
)

// ModelSchema requires an "id" property.
const ModelSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id"]
}`

// WriteTree creates files (slash separated relative path -> content) under
// root. A path ending in "/" creates an empty directory.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := os.MkdirAll(p, 0o750); err != nil {
				t.Fatalf("failed to create directory %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("failed to create directory for %s: %v", p, err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}

// SetupTestRepo creates a data models tree with one complete model
// (Parking) and one model whose example is invalid (Street). It returns
// the root directory, named dataModels.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "dataModels")
	WriteTree(t, root, map[string]string{
		"README.md":                "# Data models",
		"Parking/README.md":        "# Parking",
		"Parking/doc/spec.md":      "# Spec",
		"Parking/schema.json":      ModelSchema,
		"Parking/example.json":     `{"id": "urn:ngsi-ld:Parking:1", "type": "Parking"}`,
		"Street/README.md":         "# Street",
		"Street/doc/spec.md":       "# Spec",
		"Street/schema.json":       ModelSchema,
		"Street/example-1.json":    `{"type": "Street"}`,
		"harvest/ignored/data.txt": "not a model",
	})
	return root
}

// SetupValidRepo creates a data models tree without warnings or errors.
func SetupValidRepo(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "dataModels")
	WriteTree(t, root, map[string]string{
		"README.md":            "# Data models",
		"Parking/README.md":    "# Parking",
		"Parking/doc/spec.md":  "# Spec",
		"Parking/schema.json":  ModelSchema,
		"Parking/example.json": `{"id": "urn:ngsi-ld:Parking:1", "type": "Parking"}`,
	})
	return root
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

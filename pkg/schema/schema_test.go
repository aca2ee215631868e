package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiware-datamodels/dmv/internal/testutil"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requireIDSchema = `{"$schema": "http://json-schema.org/draft-07/schema#", "type": "object", "required": ["id"]}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(Options{Draft: "draft-07", Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return eng
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid json", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		writeFile(t, path, `{"id": "urn:ngsi-ld:Parking:1", "type": "Parking"}`)

		doc, err := LoadFile(path)
		require.NoError(t, err)
		obj, ok := doc.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Parking", obj["type"])
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		writeFile(t, path, `{"id": `)

		_, err := LoadFile(path)
		var perr *ParseError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, path, perr.Path)
	})

	t.Run("javascript module is not json", func(t *testing.T) {
		path := filepath.Join(dir, "module.json")
		writeFile(t, path, `module.exports = {"id": "x"};`)

		_, err := LoadFile(path)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.json"))
		var perr *ParseError
		assert.True(t, errors.As(err, &perr))
	})
}

func TestResolveFileList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-schema.json"), `{}`)
	writeFile(t, filepath.Join(dir, "b-schema.json"), `{}`)
	writeFile(t, filepath.Join(dir, "schema.json"), `{}`)

	literal := filepath.Join(dir, "literal.json")
	files, err := ResolveFileList([]string{
		literal,
		filepath.Join(dir, "*-schema.json"),
		filepath.Join(dir, "*.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		literal,
		filepath.Join(dir, "a-schema.json"),
		filepath.Join(dir, "b-schema.json"),
	}, files)

	local, err := LocalSchemas(dir)
	require.NoError(t, err)
	assert.Len(t, local, 2)
}

func TestMergeUnique(t *testing.T) {
	base := []string{"/repo/common-schema.json", "/repo/geometry-schema.json"}
	additions := []string{
		"/repo/Parking/common-schema.json",
		"/repo/geometry-schema.json",
		"/repo/Parking/parking-schema.json",
	}

	merged := MergeUnique(base, additions)
	assert.Equal(t, []string{
		"/repo/common-schema.json",
		"/repo/geometry-schema.json",
		"/repo/Parking/parking-schema.json",
	}, merged)

	// idempotent
	assert.Equal(t, merged, MergeUnique(merged, additions))

	// base is left untouched
	assert.Len(t, base, 2)
}

func TestEngine_CompileAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		example    string
		wantValid  int
		wantErrors int
		failErrors bool
		wantAbort  bool
	}{
		{name: "valid example", example: `{"id": "x"}`, wantValid: 1},
		{name: "invalid example", example: `{}`, wantErrors: 1},
		{name: "invalid example with failErrors", example: `{}`, wantErrors: 1, failErrors: true, wantAbort: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "Parking")
			writeFile(t, filepath.Join(dir, "schema.json"), requireIDSchema)
			writeFile(t, filepath.Join(dir, "example-1.json"), tt.example)

			rec := report.NewRecorder(report.New(root), report.Policy{FailErrors: tt.failErrors})
			eng := newEngine(t)

			v, err := eng.Compile(rec, dir, "schema.json", nil)
			require.NoError(t, err)
			require.NotNil(t, v)
			assert.Equal(t, 1, rec.Report().Count(report.KindValidSchema))

			err = eng.ValidateExamples(rec, dir, v)
			if tt.wantAbort {
				var abort *report.AbortError
				assert.True(t, errors.As(err, &abort))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantValid, rec.Report().Count(report.KindValidExample))
			assert.Equal(t, tt.wantErrors, rec.Report().Count(report.KindError))
		})
	}
}

func TestEngine_CompileWithCommonSchema(t *testing.T) {
	root := t.TempDir()
	common := filepath.Join(root, "common-schema.json")
	writeFile(t, common, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"$id": "https://fiware.github.io/data-models/common-schema.json",
		"definitions": {
			"EntityIdentifierType": {"type": "string", "minLength": 1}
		}
	}`)

	dir := filepath.Join(root, "Parking", "OffStreetParking")
	writeFile(t, filepath.Join(dir, "schema.json"), `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"id": {"$ref": "https://fiware.github.io/data-models/common-schema.json#/definitions/EntityIdentifierType"}
		},
		"required": ["id"]
	}`)
	writeFile(t, filepath.Join(dir, "example.json"), `{"id": ""}`)

	rec := report.NewRecorder(report.New(root), report.Policy{})
	eng := newEngine(t)

	v, err := eng.Compile(rec, dir, "schema.json", []string{common})
	require.NoError(t, err)
	require.NotNil(t, v)

	require.NoError(t, eng.ValidateExamples(rec, dir, v))
	assert.Equal(t, 1, rec.Report().Count(report.KindError), "empty id violates minLength")
	assert.Contains(t, rec.Report().Errors["Parking"][0], "example.json is invalid")
}

func TestEngine_CompileFailure(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Weather")
	writeFile(t, filepath.Join(dir, "schema.json"), `{
		"type": "object",
		"properties": {"id": {"$ref": "missing-schema.json#/definitions/Id"}}
	}`)
	writeFile(t, filepath.Join(dir, "example-1.json"), `{"id": "a"}`)
	writeFile(t, filepath.Join(dir, "example-2.json"), `{"id": "b"}`)

	rec := report.NewRecorder(report.New(root), report.Policy{})
	eng := newEngine(t)

	v, err := eng.Compile(rec, dir, "schema.json", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	require.Equal(t, 1, rec.Report().Count(report.KindError))
	assert.Contains(t, rec.Report().Errors["Weather"][0], "external schema folder")

	// every example of the directory collapses into a single error
	require.NoError(t, eng.ValidateExamples(rec, dir, v))
	assert.Equal(t, 2, rec.Report().Count(report.KindError))
	assert.Equal(t, 0, rec.Report().Count(report.KindValidExample))
}

func TestEngine_CompileRemoteRef(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Device")
	writeFile(t, filepath.Join(dir, "schema.json"), `{
		"type": "object",
		"properties": {"id": {"$ref": "https://example.org/remote-schema.json#/definitions/Id"}}
	}`)

	rec := report.NewRecorder(report.New(root), report.Policy{})
	v, err := newEngine(t).Compile(rec, dir, "schema.json", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	require.Len(t, rec.Report().Errors["Device"], 1)
	assert.Contains(t, rec.Report().Errors["Device"][0], "not implemented")
}

func TestEngine_CompileMalformedIsFatal(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Device")
	writeFile(t, filepath.Join(dir, "schema.json"), `{"type": `)

	rec := report.NewRecorder(report.New(root), report.Policy{})
	_, err := newEngine(t).Compile(rec, dir, "schema.json", nil)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, rec.Report().Count(report.KindError))
}

func TestLoadRemote(t *testing.T) {
	_, err := LoadRemote("https://example.org/schema.json")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, ErrRemoteSchemas, ErrNotImplemented)
}

func TestParseDraft(t *testing.T) {
	for _, name := range []string{"draft-04", "draft-06", "draft-07", "2019-09", "2020-12", ""} {
		_, err := ParseDraft(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseDraft("draft-03")
	assert.Error(t, err)
}

func TestExamples_GlobCharactersInDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models[v2]", "Parking*")
	writeFile(t, filepath.Join(dir, "example.json"), `{}`)
	writeFile(t, filepath.Join(dir, "example-2.json"), `{}`)
	writeFile(t, filepath.Join(dir, "geo-schema.json"), `{}`)
	writeFile(t, filepath.Join(dir, "schema.json"), `{}`)

	examples, err := Examples(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "example-2.json"),
		filepath.Join(dir, "example.json"),
	}, examples)

	local, err := LocalSchemas(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "geo-schema.json")}, local)
}

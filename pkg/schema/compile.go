package schema

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Options configures an Engine.
type Options struct {
	Draft  string // draft-04, draft-06, draft-07, 2019-09 or 2020-12
	Logger *slog.Logger
}

// Engine compiles schemas and validates examples.
type Engine struct {
	draft  *jsonschema.Draft
	logger *slog.Logger
}

// Validator is a compiled schema.json bound to the directory it was found in.
type Validator struct {
	File   string
	schema *jsonschema.Schema
}

// ParseDraft maps a draft name to the compiler draft.
func ParseDraft(name string) (*jsonschema.Draft, error) {
	switch strings.ToLower(name) {
	case "draft-04", "draft4", "4":
		return jsonschema.Draft4, nil
	case "draft-06", "draft6", "6":
		return jsonschema.Draft6, nil
	case "", "draft-07", "draft7", "7":
		return jsonschema.Draft7, nil
	case "2019-09", "draft2019":
		return jsonschema.Draft2019, nil
	case "2020-12", "draft2020":
		return jsonschema.Draft2020, nil
	default:
		return nil, fmt.Errorf("unknown schema draft %q", name)
	}
}

// NewEngine creates a schema engine.
func NewEngine(opts Options) (*Engine, error) {
	draft, err := ParseDraft(opts.Draft)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{draft: draft, logger: logger}, nil
}

func (e *Engine) newCompiler() *jsonschema.Compiler {
	c := jsonschema.NewCompiler()
	c.Draft = e.draft
	c.LoadURL = loadURL
	return c
}

// Compile compiles dir/fileName after registering every common schema.
//
// A successful compile is recorded as a valid schema. A compile failure is
// recorded as an error and yields a nil Validator; the returned error is
// non-nil only for a fatal *ParseError or a fail-fast *report.AbortError.
func (e *Engine) Compile(rec *report.Recorder, dir, fileName string, common []string) (*Validator, error) {
	file := filepath.Join(dir, fileName)
	raw, _, err := readFile(file)
	if err != nil {
		return nil, err
	}

	c := e.newCompiler()
	if err := e.addCommonSchemas(c, file, common); err != nil {
		return nil, err
	}

	target, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", file, err)
	}

	compiled, err := e.compile(c, target, raw)
	if err != nil {
		e.logger.Debug("invalid schema", slog.String("file", file), slog.Any("error", err))
		return nil, rec.Error(dir, "Schema "+fileName+" is invalid, "+
			"if one or more schemas cannot be retrieved, "+
			"check if \"loadModelCommonSchemas\" is enabled "+
			"(if missing schemas are FIWARE common schemas), "+
			"import them with \"importSchemas\" "+
			"or store third party schemas in an external schema folder: "+
			err.Error())
	}

	e.logger.Debug("valid schema", slog.String("file", file))
	rec.ValidSchema(dir, "Schema "+fileName+" is valid")
	return &Validator{File: file, schema: compiled}, nil
}

func (e *Engine) compile(c *jsonschema.Compiler, target string, raw []byte) (*jsonschema.Schema, error) {
	if err := c.AddResource(target, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return c.Compile(target)
}

// addCommonSchemas registers every common schema except the target itself.
// common holds file paths already resolved by ResolveFileList; they are
// never expanded again.
func (e *Engine) addCommonSchemas(c *jsonschema.Compiler, target string, common []string) error {
	targetAbs, _ := filepath.Abs(target)
	registered := make(map[string]bool, len(common))

	for _, f := range common {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		if abs == targetAbs {
			continue
		}

		raw, doc, err := readFile(abs)
		if err != nil {
			return err
		}

		url := resourceURL(abs, doc)
		if registered[url] {
			e.logger.Debug("common schema already registered", slog.String("file", abs), slog.String("url", url))
			continue
		}
		registered[url] = true

		if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
			return &ParseError{Path: abs, Err: err}
		}
		e.logger.Debug("registered common schema", slog.String("file", abs), slog.String("url", url))
	}
	return nil
}

// resourceURL returns the $id of a schema document, or its path when it has none.
func resourceURL(path string, doc any) string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return path
	}
	for _, key := range []string{"$id", "id"} {
		if id, ok := obj[key].(string); ok && strings.Contains(id, "://") {
			return strings.TrimSuffix(id, "#")
		}
	}
	return path
}

// Validate checks a decoded document against the compiled schema.
func (v *Validator) Validate(doc any) error {
	return v.schema.Validate(doc)
}

// DescribeError flattens a validation error into one line.
func DescribeError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	out := ve.BasicOutput()
	parts := make([]string, 0, len(out.Errors))
	for _, be := range out.Errors {
		if be.KeywordLocation == "" {
			continue
		}
		loc := be.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, loc+": "+be.Error)
	}
	if len(parts) == 0 {
		return ve.Error()
	}
	return strings.Join(parts, "; ")
}

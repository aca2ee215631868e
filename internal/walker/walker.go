// Package walker runs the validator over a data models directory tree.
//
// The walk is depth-first and sequential. Each visited directory is a frame
// holding its own report and its own copy of the inherited common schema
// set; child reports are merged into the parent's in traversal order.
package walker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fiware-datamodels/dmv/pkg/checks"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/fiware-datamodels/dmv/pkg/schema"
)

// Options controls what the walk does in each directory.
type Options struct {
	Checks                 checks.Options
	Policy                 report.Policy
	IgnoreWarnings         bool
	RecursiveScan          bool
	LoadModelCommonSchemas bool
	ResolveRemoteSchemas   bool
	ValidateExamples       bool
	ContextBroker          bool
}

// Deps are the collaborators of a Walker.
type Deps struct {
	Engine *schema.Engine
	Broker checks.EntityClient // required when Options.ContextBroker is set
	Logger *slog.Logger
}

// Walker scans a directory tree.
type Walker struct {
	opts   Options
	engine *schema.Engine
	broker checks.EntityClient
	logger *slog.Logger

	root string
}

// New creates a Walker.
func New(opts Options, deps Deps) *Walker {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker{
		opts:   opts,
		engine: deps.Engine,
		broker: deps.Broker,
		logger: logger,
	}
}

// Walk scans root. importSchemas are literal paths or glob patterns,
// resolved against the working directory, seeding the common schema set.
//
// The returned report is never nil: on error it holds everything recorded
// before the walk stopped.
func (w *Walker) Walk(ctx context.Context, root string, importSchemas []string) (*report.Report, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return report.New(root), fmt.Errorf("resolve scan root %s: %w", root, err)
	}
	w.root = abs

	if w.opts.ResolveRemoteSchemas {
		return report.New(abs), schema.ErrRemoteSchemas
	}
	if w.engine == nil {
		return report.New(abs), errors.New("walker: schema engine is required")
	}
	if w.opts.ContextBroker && w.broker == nil {
		return report.New(abs), errors.New("walker: context broker client is required")
	}

	common, err := resolveImports(importSchemas)
	if err != nil {
		return report.New(abs), err
	}

	w.logger.Debug("scan started",
		slog.String("root", abs),
		slog.Any("warningChecks", w.opts.Checks.WarningChecks),
		slog.Int("importSchemas", len(common)))

	return w.visit(ctx, abs, common)
}

func resolveImports(patterns []string) ([]string, error) {
	files, err := schema.ResolveFileList(patterns)
	if err != nil {
		return nil, fmt.Errorf("resolve import schemas: %w", err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve import schema %s: %w", f, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// visit processes one directory frame and its subtree.
func (w *Walker) visit(ctx context.Context, dir string, inherited []string) (*report.Report, error) {
	r := report.New(w.root)
	if err := ctx.Err(); err != nil {
		return r, err
	}

	isRoot := dir == w.root
	if !isRoot && checks.IsSpecialFolder(filepath.Base(dir), w.opts.Checks) {
		w.logger.Debug("skipping special folder", slog.String("dir", dir))
		return r, nil
	}

	rec := report.NewRecorder(r, w.opts.Policy)
	cctx := checks.NewContext(w.opts.Checks, rec, w.logger)

	if !w.opts.IgnoreWarnings {
		if err := checks.Run(cctx, dir, isRoot); err != nil {
			return r, err
		}
	}

	schemas := slices.Clone(inherited)
	if w.opts.LoadModelCommonSchemas {
		extended, err := w.loadLocalSchemas(rec, dir, schemas)
		if err != nil {
			return r, err
		}
		schemas = extended
	}

	if !isRoot {
		if err := w.validateModel(ctx, cctx, dir, schemas); err != nil {
			return r, err
		}
	}

	if !w.opts.RecursiveScan {
		return r, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return r, rec.Error(dir, "cannot read directory: "+err.Error())
	}
	for _, e := range entries {
		if !isSubdir(dir, e) {
			continue
		}
		child, err := w.visit(ctx, filepath.Join(dir, e.Name()), slices.Clone(schemas))
		r.Merge(child)
		if err != nil {
			return r, err
		}
	}
	return r, nil
}

// loadLocalSchemas compiles the *-schema.json companions of dir against the
// inherited set and returns the set extended with them.
func (w *Walker) loadLocalSchemas(rec *report.Recorder, dir string, inherited []string) ([]string, error) {
	locals, err := schema.LocalSchemas(dir)
	if err != nil {
		return nil, err
	}
	if len(locals) == 0 {
		return inherited, nil
	}

	for _, file := range locals {
		w.logger.Debug("compiling common schema", slog.String("file", file))
		if _, err := w.engine.Compile(rec, dir, filepath.Base(file), inherited); err != nil {
			return nil, err
		}
	}
	return schema.MergeUnique(inherited, locals), nil
}

// validateModel compiles schema.json, validates the examples and, when
// enabled, round-trips them through the context broker.
func (w *Walker) validateModel(ctx context.Context, cctx *checks.Context, dir string, schemas []string) error {
	rec := cctx.Recorder

	var validator *schema.Validator
	hasSchema, err := checks.FileExists(dir, checks.SchemaPattern)
	if err != nil {
		return rec.Error(dir, "cannot read directory: "+err.Error())
	}
	if hasSchema {
		w.logger.Debug("compiling schema", slog.String("dir", dir), slog.Int("commonSchemas", len(schemas)))
		validator, err = w.engine.Compile(rec, dir, "schema.json", schemas)
		if err != nil {
			return err
		}
	}

	hasExamples, err := checks.FileExists(dir, checks.ExamplePattern)
	if err != nil {
		return rec.Error(dir, "cannot read directory: "+err.Error())
	}
	if !hasExamples {
		return nil
	}

	if w.opts.ValidateExamples {
		w.logger.Debug("validating examples", slog.String("dir", dir))
		if err := w.engine.ValidateExamples(rec, dir, validator); err != nil {
			return err
		}
	}

	if w.opts.ContextBroker {
		w.logger.Debug("checking example support", slog.String("dir", dir))
		if _, err := checks.ExampleSupported(ctx, cctx, w.broker, dir); err != nil {
			return err
		}
	}
	return nil
}

// isSubdir reports whether e is a directory. Symbolic links are not followed.
func isSubdir(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink != 0 {
		return false
	}
	if e.IsDir() {
		return true
	}
	info, err := os.Lstat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/internal/state"
	"github.com/fiware-datamodels/dmv/internal/walker"
	"github.com/fiware-datamodels/dmv/pkg/checks"
	"github.com/fiware-datamodels/dmv/pkg/ngsi"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/fiware-datamodels/dmv/pkg/schema"
)

// ScanResult is the outcome of one scan.
type ScanResult struct {
	ScanID string // empty when history is disabled
	Root   string
	Report *report.Report
	Err    error // abort or fatal error, nil when the walk completed
}

// Status classifies the scan for history and output.
func (r *ScanResult) Status() state.ScanStatus {
	switch {
	case r.Err != nil:
		return state.ScanStatusAborted
	case r.Report.HasErrors():
		return state.ScanStatusFailed
	default:
		return state.ScanStatusPassed
	}
}

// Scanner runs the walker with the settings of a Config and records the
// outcome in the history store when one is configured.
type Scanner struct {
	cfg     *config.Config
	walker  *walker.Walker
	history state.Store
	logger  *slog.Logger
}

// NewScanner builds the schema engine, the broker client and the walker.
// history may be nil.
func NewScanner(cfg *config.Config, history state.Store, logger *slog.Logger) (*Scanner, error) {
	if cfg.ResolveRemoteSchemas {
		return nil, schema.ErrRemoteSchemas
	}

	engine, err := schema.NewEngine(schema.Options{Draft: cfg.SchemaDraft, Logger: logger})
	if err != nil {
		return nil, &config.Error{Field: "schemaDraft", Message: err.Error()}
	}

	var broker checks.EntityClient
	if cfg.ContextBroker {
		client, err := ngsi.NewClient(ngsi.Config{
			BaseURL:     cfg.ContextBrokerURL,
			Service:     cfg.FiwareService,
			ServicePath: cfg.FiwareServicePath,
			Logger:      logger,
		})
		if err != nil {
			return nil, &config.Error{Field: "contextBrokerUrl", Message: err.Error()}
		}
		broker = client
	}

	w := walker.New(walkerOptions(cfg), walker.Deps{
		Engine: engine,
		Broker: broker,
		Logger: logger,
	})

	return &Scanner{cfg: cfg, walker: w, history: history, logger: logger}, nil
}

func walkerOptions(cfg *config.Config) walker.Options {
	return walker.Options{
		Checks: checks.Options{
			IgnoreFolders:         cfg.IgnoreFolders,
			DocFolders:            cfg.DocFolders,
			ExternalSchemaFolders: cfg.ExternalSchemaFolders,
			WarningChecks:         cfg.WarningChecks,
		},
		Policy: report.Policy{
			FailWarnings: cfg.FailWarnings,
			FailErrors:   cfg.FailErrors,
		},
		IgnoreWarnings:         cfg.IgnoreWarnings,
		RecursiveScan:          cfg.RecursiveScan,
		LoadModelCommonSchemas: cfg.LoadModelCommonSchemas,
		ResolveRemoteSchemas:   cfg.ResolveRemoteSchemas,
		ValidateExamples:       cfg.ValidateExamples,
		ContextBroker:          cfg.ContextBroker,
	}
}

// Scan walks the configured path once. Failing to record history is
// logged and does not fail the scan.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	root, err := filepath.Abs(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s: %w", s.cfg.Path, err)
	}

	result := &ScanResult{Root: root}

	var scanID string
	if s.history != nil {
		scan, err := s.history.CreateScan(ctx, root)
		if err != nil {
			s.logger.Warn("failed to record scan start", slog.Any("error", err))
		} else {
			scanID = scan.ID
		}
	}

	s.logger.Debug("scan", slog.String("root", root), slog.Any("warningChecks", s.cfg.WarningChecks))
	rep, walkErr := s.walker.Walk(ctx, root, s.cfg.ImportSchemas)
	result.Report = rep
	result.Err = walkErr

	if scanID != "" {
		// Recorded even when the scan was interrupted.
		if err := s.history.CompleteScan(context.WithoutCancel(ctx), scanID, result.Status(), rep, walkErr); err != nil {
			s.logger.Warn("failed to record scan result", slog.Any("error", err))
		} else {
			result.ScanID = scanID
		}
	}

	if walkErr != nil && !isAbort(walkErr) {
		return result, walkErr
	}
	return result, nil
}

func isAbort(err error) bool {
	var abort *report.AbortError
	return errors.As(err, &abort)
}

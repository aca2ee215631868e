package commands

import (
	"errors"
	"log/slog"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/fiware-datamodels/dmv/internal/state"
	"github.com/spf13/cobra"
)

// ErrValidationFailed is returned by validate when the scan recorded errors.
var ErrValidationFailed = errors.New("validation failed")

// ErrHistoryDisabled is returned by history when no history file is configured.
var ErrHistoryDisabled = errors.New("scan history is disabled, set history in dmv.yaml or pass --history")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext. It uses the renderer stored by
// the root command, or builds one for commands run on their own.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.FromContext(cmd.Context())
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenHistory opens the scan history store. It returns a nil store when
// history is disabled.
func (c *CommandContext) OpenHistory() (state.Store, error) {
	return openHistory(c.Cfg.History, c.Logger)
}

func openHistory(path string, logger *slog.Logger) (state.Store, error) {
	if path == "" {
		return nil, nil
	}
	store := state.NewSQLiteStore()
	if err := store.Open(path); err != nil {
		return nil, err
	}
	logger.Debug("history opened", slog.String("path", path))
	return store, nil
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded (commands created outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

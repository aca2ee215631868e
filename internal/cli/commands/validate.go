package commands

import (
	"time"

	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/spf13/cobra"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Watch    bool          // re-run the scan when files change
	Debounce time.Duration // quiet period before a watched change triggers a scan
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a data models directory tree",
		Long: `Walk a data models directory tree and check every model folder.

For each model folder dmv runs the enabled warning checks (documentation
folder, README.md, schema.json, examples...), compiles schema.json together
with the common schemas inherited from parent folders and validates every
example*.json against it. With --context-broker each example is also
created on, and removed from, a live NGSIv2 context broker.

Exit codes:
  0  no errors
  1  the scan recorded errors
  2  invalid configuration
  3  malformed JSON or unsupported option
  4  aborted by --fail-warnings or --fail-errors`,
		Example: `  # Validate the current directory
  dmv validate

  # Validate a checkout of the data models repository
  dmv validate ./dataModels

  # Only check for README files, stop at the first warning
  dmv validate --warning-checks readmeExist --fail-warnings

  # Import third party schemas and re-validate on every change
  dmv validate --import-schemas 'common/*-schema.json' --watch

  # Machine readable report
  dmv validate -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the scan whenever a file under the path changes")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 300*time.Millisecond, "Quiet period before a change triggers a scan in watch mode")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts *ValidateOptions) error {
	cmdCtx := NewCommandContext(cmd)

	cfg := *cmdCtx.Cfg
	if len(args) > 0 {
		cfg.Path = args[0]
	}
	if err := cfg.ValidatePath(); err != nil {
		return err
	}

	history, err := openHistory(cfg.History, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if history != nil {
		defer func() { _ = history.Close() }()
	}

	scanner, err := NewScanner(&cfg, history, cmdCtx.Logger)
	if err != nil {
		return err
	}

	if opts.Watch {
		return runWatch(cmd.Context(), cmdCtx.Renderer, scanner, &cfg, opts.Debounce, cmdCtx.Logger)
	}

	result, err := scanner.Scan(cmd.Context())
	if err != nil {
		return err
	}
	return finishScan(cmdCtx.Renderer, result)
}

// finishScan renders a completed or aborted scan and returns the error that
// decides the exit code.
func finishScan(r *output.Renderer, result *ScanResult) error {
	if err := renderReport(r, result); err != nil {
		return err
	}
	if result.Err != nil {
		return result.Err
	}
	if result.Report.HasErrors() {
		return ErrValidationFailed
	}
	return nil
}

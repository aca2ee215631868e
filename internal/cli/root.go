// Package cli provides the command-line interface for dmv.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/fiware-datamodels/dmv/internal/cli/commands"
	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/internal/cli/output"
	sharedcfg "github.com/fiware-datamodels/dmv/internal/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dmv",
		Short: "dmv - FIWARE data model validator",
		Long: `dmv walks a FIWARE data models directory tree and checks that every
model folder is complete and consistent: documentation, README.md,
schema.json and example files. Each schema is compiled together with the
common schemas of its parent folders and every example is validated
against it. Examples can optionally be tried against a live NGSIv2
context broker.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := newLogger(cfg.Verbose)

			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), logger)

			// Create and store renderer based on output mode
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
			cmd.SetContext(output.WithRenderer(ctx, renderer))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", slog.String("path", configFile))
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.Error{Field: "flags", Message: err.Error()}
	})

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
FIWARE data model validator
`)

	d := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./dmv.yaml)")
	flags.String("path", d.Path, "Root of the data models tree")
	flags.StringSlice("ignore-folders", d.IgnoreFolders, "Folder names skipped during the scan")
	flags.StringSlice("doc-folders", d.DocFolders, "Folder names holding model documentation")
	flags.StringSlice("external-schema-folders", d.ExternalSchemaFolders, "Folder names holding third party schemas")
	flags.StringSlice("warning-checks", d.WarningChecks, "Warning checks to run (see 'dmv checks')")
	flags.Bool("recursive-scan", d.RecursiveScan, "Descend into subfolders")
	flags.Bool("load-model-common-schemas", d.LoadModelCommonSchemas, "Load *-schema.json files of each folder as common schemas")
	flags.Bool("resolve-remote-schemas", d.ResolveRemoteSchemas, "Resolve remote $ref (not supported)")
	flags.Bool("validate-examples", d.ValidateExamples, "Validate example*.json files against schema.json")
	flags.StringSlice("import-schemas", d.ImportSchemas, "Glob patterns of extra schema files available to every model")
	flags.String("schema-draft", d.SchemaDraft, "JSON Schema draft: "+strings.Join(sharedcfg.SchemaDrafts(), "|"))
	flags.Bool("context-broker", d.ContextBroker, "Try every example against an NGSIv2 context broker")
	flags.String("context-broker-url", d.ContextBrokerURL, "Base URL of the context broker")
	flags.String("fiware-service", d.FiwareService, "Fiware-Service header sent to the context broker")
	flags.String("fiware-service-path", d.FiwareServicePath, "Fiware-ServicePath header sent to the context broker")
	flags.Bool("fail-warnings", d.FailWarnings, "Stop at the first warning")
	flags.Bool("fail-errors", d.FailErrors, "Stop at the first error")
	flags.Bool("ignore-warnings", d.IgnoreWarnings, "Skip the warning checks")
	flags.String("history", d.History, "SQLite file recording scans (empty disables history)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sharedcfg.OutputModes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("warning-checks", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sharedcfg.KnownChecks(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("schema-draft", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sharedcfg.SchemaDrafts(), cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewChecksCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text logs to stderr, warnings and above unless verbose.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for dmv.

To load completions:

Bash:
  $ source <(dmv completion bash)

Zsh:
  $ dmv completion zsh > "${fpath[1]}/_dmv"

Fish:
  $ dmv completion fish | source

PowerShell:
  PS> dmv completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

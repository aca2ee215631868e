package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file written by init.
const ConfigFileName = "dmv.yaml"

const configHeader = `# dmv configuration
#
# Every key can be overridden with a DMV_* environment variable
# (DMV_WARNING_CHECKS=readmeExist,schemaExist) or a command-line flag
# (--warning-checks readmeExist). Flags win over variables, variables
# win over this file.
#
# Available warning checks: see 'dmv checks'.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter dmv.yaml",
		Long: `Write a dmv.yaml configuration file holding every option with its
default value.

dmv reads dmv.yaml (or dmv.yml) from the current directory, or the file
given with --config.`,
		Example: `  # Initialize in current directory
  dmv init

  # Initialize in a data models checkout
  dmv init ./dataModels

  # Force overwrite existing config
  dmv init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cmdCtx := NewCommandContext(cmd)
			return runInit(cmdCtx, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmdCtx *CommandContext, dir string, force bool) error {
	r := cmdCtx.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", ConfigFileName)
	}

	data, err := marshalConfig(config.DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	cmdCtx.Logger.Debug("config written", "path", configPath)

	r.Success("Created " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust warningChecks and ignoreFolders in " + ConfigFileName)
	r.Println("  2. Run 'dmv checks' to list the available checks")
	r.Println("  3. Run 'dmv validate' to scan the data models")

	return nil
}

func marshalConfig(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package commands

import (
	"fmt"
	"slices"

	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/fiware-datamodels/dmv/pkg/checks"
	"github.com/spf13/cobra"
)

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "checks [check-id]",
		Short: "List the available warning checks",
		Long: `List every warning check dmv knows, in execution order.

Checks marked enabled are listed in warningChecks. Checks marked root
also run on the scanned directory itself; all others run on model
folders only.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all checks
  dmv checks

  # Show one check
  dmv checks readmeExist

  # Output as JSON
  dmv checks -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			// Override renderer if format flag is set
			if format != "" {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
			}

			defs := checks.GetAll()
			if len(args) > 0 {
				def, ok := checks.GetByID(args[0])
				if !ok {
					return fmt.Errorf("check %q not found", args[0])
				}
				defs = []checks.Def{def}
			}

			list := make([]output.CheckOutput, 0, len(defs))
			for _, def := range defs {
				list = append(list, output.CheckOutput{
					ID:          def.ID,
					Order:       def.Order,
					Description: def.Description,
					Root:        def.Root,
					Enabled:     slices.Contains(cmdCtx.Cfg.WarningChecks, def.ID),
				})
			}

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(output.ChecksOutput{Checks: list, Count: len(list)})
			case output.ModeMarkdown:
				return listChecksMarkdown(r, list)
			default:
				return listChecksText(r, list)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listChecksText(r *output.Renderer, list []output.CheckOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Warning Checks (%d)", len(list))))
	r.Println("")

	for _, c := range list {
		state := styles.Muted.Render("disabled")
		if c.Enabled {
			state = styles.Success.Render("enabled")
		}
		scope := ""
		if c.Root {
			scope = styles.Info.Render(" root")
		}
		r.Printf("  %-16s %s%s\n", styles.Bold.Render(c.ID), state, scope)
		r.Println(styles.Muted.Render("      " + c.Description))
	}

	r.Println("")
	r.Println(styles.Muted.Render("Enable checks with warningChecks in dmv.yaml or --warning-checks"))
	r.Println("")
	return nil
}

func listChecksMarkdown(r *output.Renderer, list []output.CheckOutput) error {
	r.Println(output.FormatHeader(1, "Warning Checks"))

	for _, c := range list {
		state := "disabled"
		if c.Enabled {
			state = "enabled"
		}
		if c.Root {
			state += ", root"
		}
		r.Printf("- **%s** - %s (`%s`)\n", c.ID, c.Description, state)
	}

	r.Println("")
	return nil
}

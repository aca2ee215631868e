package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/fiware-datamodels/dmv/internal/cli/output"
	"github.com/fiware-datamodels/dmv/internal/state"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [scan-id]",
		Short: "Show recorded validation scans",
		Long: `Show the scans recorded in the history database.

Without arguments the most recent scans are listed, newest first.
With a scan id every message of that scan is shown.

History is recorded only when the history option names a database file.`,
		Example: `  # List the last 20 scans
  dmv history --history .dmv/history.db

  # Show one scan in detail
  dmv history 4f9c2a1e-...

  # Output as JSON
  dmv history -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of scans to list (0 for all)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	store, err := cmdCtx.OpenHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return ErrHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	if len(args) > 0 {
		scan, err := store.GetScan(ctx, args[0])
		if err != nil {
			if errors.Is(err, state.ErrScanNotFound) {
				return fmt.Errorf("scan %q not found", args[0])
			}
			return err
		}
		messages, err := store.GetMessages(ctx, scan.ID)
		if err != nil {
			return err
		}
		return renderScanDetail(r, scan, messages)
	}

	scans, err := store.ListScans(ctx, opts.Limit)
	if err != nil {
		return err
	}
	return renderHistory(r, scans)
}

func scanOutput(s *state.Scan) output.ScanOutput {
	out := output.ScanOutput{
		ID:        s.ID,
		Root:      s.Root,
		Status:    string(s.Status),
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Warnings:  s.Warnings,
		Errors:    s.Errors,
	}
	if s.CompletedAt != nil {
		out.CompletedAt = s.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func renderHistory(r *output.Renderer, scans []*state.Scan) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.HistoryOutput{Scans: make([]output.ScanOutput, 0, len(scans))}
		for _, s := range scans {
			out.Scans = append(out.Scans, scanOutput(s))
		}
		return r.JSON(out)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Scan History"))
		if len(scans) == 0 {
			r.Println("No scans recorded.")
			return nil
		}
		r.Println("| ID | Started | Status | Warnings | Errors | Root |")
		r.Println("|----|---------|--------|----------|--------|------|")
		for _, s := range scans {
			r.Printf("| `%s` | %s | %s | %d | %d | %s |\n",
				s.ID, s.StartedAt.Format(time.RFC3339), s.Status, s.Warnings, s.Errors, escapeMarkdown(s.Root))
		}
		r.Println("")
		return nil
	}

	styles := r.Styles()
	if len(scans) == 0 {
		r.Println(styles.Muted.Render("No scans recorded"))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Warnings", "Errors", "Root"})
	for _, s := range scans {
		t.AppendRow(table.Row{
			shortID(s.ID),
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			statusStyle(styles, string(s.Status)).Render(string(s.Status)),
			s.Warnings,
			s.Errors,
			s.Root,
		})
	}
	t.Render()
	return nil
}

func renderScanDetail(r *output.Renderer, scan *state.Scan, messages []state.Message) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		out := output.ScanDetailOutput{
			Scan:     scanOutput(scan),
			Messages: make([]output.ScanMessageOutput, 0, len(messages)),
		}
		for _, m := range messages {
			out.Messages = append(out.Messages, output.ScanMessageOutput{
				Kind:    string(m.Kind),
				Model:   m.Model,
				Message: m.Message,
			})
		}
		return r.JSON(out)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Scan "+scan.ID))
		r.Println(output.FormatKeyValue("Root", scan.Root))
		r.Println(output.FormatKeyValue("Status", string(scan.Status)))
		r.Println(output.FormatKeyValue("Started", scan.StartedAt.Format(time.RFC3339)))
		if scan.Error != "" {
			r.Println(output.FormatKeyValue("Aborted", scan.Error))
		}
		r.Println("")
		for _, m := range messages {
			r.Printf("- **%s** `%s`: %s\n", kindTitle(m.Kind), m.Model, escapeMarkdown(m.Message))
		}
		r.Println("")
		return nil
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render("Scan " + scan.ID))
	r.Printf("  Root:    %s\n", scan.Root)
	r.Printf("  Status:  %s\n", statusStyle(styles, string(scan.Status)).Render(string(scan.Status)))
	r.Printf("  Started: %s\n", scan.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if scan.Error != "" {
		r.Printf("  Aborted: %s\n", styles.Error.Render(scan.Error))
	}
	r.Println("")

	if len(messages) == 0 {
		r.Println(styles.Muted.Render("  No messages"))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Model", "Message"})
	for _, m := range messages {
		t.AppendRow(table.Row{kindIcon(styles, m.Kind) + " " + kindTitle(m.Kind), m.Model, m.Message})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

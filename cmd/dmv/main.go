// Package main provides the dmv command, the FIWARE data model validator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fiware-datamodels/dmv/internal/cli"
	"github.com/fiware-datamodels/dmv/internal/cli/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd := cli.NewRootCmd()
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return cli.ExitOK
	}

	// The report already tells which models failed.
	if !errors.Is(err, commands.ErrValidationFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if cli.IsUsageError(err) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	return cli.ExitCode(err)
}

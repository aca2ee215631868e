package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fiware-datamodels/dmv/internal/cli/commands"
	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/fiware-datamodels/dmv/internal/cli/testutil"
	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/fiware-datamodels/dmv/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()

	flags := []string{
		"config", "path", "ignore-folders", "doc-folders", "external-schema-folders",
		"warning-checks", "recursive-scan", "load-model-common-schemas",
		"resolve-remote-schemas", "validate-examples", "import-schemas",
		"schema-draft", "context-broker", "context-broker-url", "fiware-service",
		"fiware-service-path", "fail-warnings", "fail-errors", "ignore-warnings",
		"history", "verbose", "output",
	}
	for _, flag := range flags {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"validate", "checks", "history", "init", "version", "completion"} {
		assert.True(t, names[name], "command %q should be registered", name)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"validation failed", commands.ErrValidationFailed, ExitFailed},
		{"config", &config.Error{Field: "path", Message: "required"}, ExitUsage},
		{"wrapped config", fmt.Errorf("load: %w", &config.Error{Field: "output"}), ExitUsage},
		{"parse", &schema.ParseError{Path: "example.json", Err: errors.New("unexpected EOF")}, ExitBadInput},
		{"remote schemas", schema.ErrRemoteSchemas, ExitBadInput},
		{"abort", &report.AbortError{Kind: report.KindWarning, Path: "Parking"}, ExitAborted},
		{"other", errors.New("boom"), ExitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestRootCmd_LoadsConfigForSubcommands(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	root := testutil.SetupValidRepo(t)
	testutil.WriteTree(t, ".", map[string]string{
		"dmv.yaml": "path: " + root + "\nwarningChecks: [readmeExist]\n",
	})

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"validate", "-o", "markdown"})
	require.NoError(t, cmd.Execute())

	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"readmeExist"}, cfg.WarningChecks)
	assert.Equal(t, "markdown", cfg.Output)
	assert.Contains(t, buf.String(), "**Status**: passed")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"checks", "--output", "html"})

	err := cmd.Execute()
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "output", cfgErr.Field)
}

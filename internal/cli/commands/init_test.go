package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fiware-datamodels/dmv/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T, dir string) // setup before running
		args     []string
		wantErr  bool
	}{
		{
			name:    "init empty directory",
			args:    []string{},
			wantErr: false,
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("existing"), 0600)
			},
			args:    []string{"--force"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(tmpDir, ConfigFileName))
			require.NoError(t, err)
			assert.Contains(t, string(data), "warningChecks:")
		})
	}
}

func TestInit_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(dir, ConfigFileName))
}

func TestMarshalConfig_RoundTripsDefaults(t *testing.T) {
	data, err := marshalConfig(config.DefaultConfig())
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, *config.DefaultConfig(), got)
}

func TestInit_WrittenFileLoads(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, filepath.Base(config.GetConfigFileUsed()))
	assert.Equal(t, config.DefaultConfig().WarningChecks, cfg.WarningChecks)
}

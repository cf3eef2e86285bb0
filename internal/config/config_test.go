package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ",", cfg.Pipeline.Delimiter)
	assert.Equal(t, 1.0, cfg.Pipeline.TargetInterval)
	assert.Equal(t, "mean", cfg.Pipeline.Strategy)
	assert.Equal(t, 2, cfg.Pipeline.Precision)
	assert.Equal(t, "linear", cfg.Pipeline.Solver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 100.0, cfg.Server.RateLimit.RPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADAPTER_PIPELINE_MISSING_VALUE_STRATEGY", "median")
	t.Setenv("ADAPTER_PIPELINE_NUMERIC_PRECISION", "4")
	t.Setenv("ADAPTER_SERVER_PORT", "9090")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "median", cfg.Pipeline.Strategy)
	assert.Equal(t, 4, cfg.Pipeline.Precision)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"unknown strategy", "ADAPTER_PIPELINE_MISSING_VALUE_STRATEGY", "mode"},
		{"zero interval", "ADAPTER_PIPELINE_TARGET_TIME_INTERVAL", "0"},
		{"precision too large", "ADAPTER_PIPELINE_NUMERIC_PRECISION", "13"},
		{"multi-char delimiter", "ADAPTER_PIPELINE_DELIMITER", ";;"},
		{"unknown solver", "ADAPTER_PIPELINE_SOLVER_METHOD", "euler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load("")

			assert.Error(t, err)
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pipeline:
  time_column: timestamp
  target_time_interval: 0.5
  missing_value_strategy: zero
  dependent_variables:
    - temperature
    - pressure
server:
  port: 9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "timestamp", cfg.Pipeline.TimeColumn)
	assert.Equal(t, 0.5, cfg.Pipeline.TargetInterval)
	assert.Equal(t, "zero", cfg.Pipeline.Strategy)
	assert.Equal(t, []string{"temperature", "pressure"}, cfg.Pipeline.DependentVars)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_LegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	content := `# pipeline settings
input_file = data.csv
output_file = out.csv
time_column = time
delimiter = ;
dependent_variables = temperature, pressure
independent_variables = altitude
target_time_interval = 2.5
missing_value_strategy = median
numeric_precision = 3
solver_method = linear

unknown_key = ignored
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "data.csv", cfg.Pipeline.InputFile)
	assert.Equal(t, "out.csv", cfg.Pipeline.OutputFile)
	assert.Equal(t, "time", cfg.Pipeline.TimeColumn)
	assert.Equal(t, ";", cfg.Pipeline.Delimiter)
	assert.Equal(t, []string{"temperature", "pressure"}, cfg.Pipeline.DependentVars)
	assert.Equal(t, []string{"altitude"}, cfg.Pipeline.IndependentVars)
	assert.Equal(t, 2.5, cfg.Pipeline.TargetInterval)
	assert.Equal(t, "median", cfg.Pipeline.Strategy)
	assert.Equal(t, 3, cfg.Pipeline.Precision)
}

func TestLoad_LegacyFileBadNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("target_time_interval = fast\n"), 0644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ';', PipelineConfig{Delimiter: ";"}.DelimiterRune())
	assert.Equal(t, ',', PipelineConfig{}.DelimiterRune())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
}

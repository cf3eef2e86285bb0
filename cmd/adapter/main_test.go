package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"csv extension", "data.csv", "data_cleaned.csv"},
		{"xlsx extension", "data.xlsx", "data_cleaned.csv"},
		{"no extension", "data", "data_cleaned.csv"},
		{"dotted directory", "some.dir/data", "some.dir/data_cleaned.csv"},
		{"nested path", "a/b/data.csv", "a/b/data_cleaned.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultOutputPath(tt.input))
		})
	}
}

func TestSplitVars(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitVars("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitVars(" a , b "))
	assert.Equal(t, []string{"a"}, splitVars("a,,"))
	assert.Empty(t, splitVars(""))
}

func TestRun_NoInput(t *testing.T) {
	assert.Equal(t, 1, run(nil))
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")
	content := "time,value\n0,10\n0,10\n1,NaN\n3,30\n"
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))

	code := run([]string{
		"-output", output,
		"-time", "time",
		"-interval", "1.0",
		input,
	})

	require.Equal(t, 0, code)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "time,value\n")
}

func TestRun_InvalidStrategy(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(input, []byte("a\n1\n"), 0644))

	code := run([]string{"-strategy", "mode", input})

	assert.Equal(t, 1, code)
}

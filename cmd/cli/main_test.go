package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		node "start" "begin" {
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0600), "failed to set up test file")

	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, []string{filePath})

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_Success(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	workflow := `
node "start" "begin" {}
node "simple" "step" {}

connection {
  from = "begin.out"
  to   = "step.in"
}
`
	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(workflow), 0600))
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, []string{"-log-format", "text", filePath})

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Workflow run finished")
}

func TestRun_ConfigurationError(t *testing.T) {
	t.Parallel()

	filePath := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`node "simple" "lonely" {}`), 0600))

	err := run(context.Background(), &bytes.Buffer{}, []string{filePath})
	require.ErrorIs(t, err, model.ErrConfiguration)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/trmc"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "trmc version "+strings.TrimSpace(trmc.Version)+"\n", out)
}

func TestRunCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invert.trmc")
	require.NoError(t, os.WriteFile(path, []byte("!>1\n"), 0o644))

	out, err := execute(t, "run", path, "--input", "0110", "--debug=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Output: 1001")
	assert.Contains(t, out, "Took 4 iterations")
}

func TestValidateCommand_FailsOnFindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.trmc")
	require.NoError(t, os.WriteFile(path, []byte("!>5\nEND\n"), 0o644))

	out, err := execute(t, "validate", path, "--format", "text")
	require.Error(t, err)
	assert.Contains(t, out, "Debugging finished with")
}

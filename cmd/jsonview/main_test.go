package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "jsonview version "))
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", filepath.Join("..", "..", "testdata", "quiz.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Questions are valid!")

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte(`
id: broken
functions:
  go:
    type: teleport
`), 0o644))

	out, err = execute(t, "validate", broken)
	require.Error(t, err)
	assert.Contains(t, out, "teleport")
}

func TestInvalidEvaluatorFlag(t *testing.T) {
	t.Cleanup(func() {
		f := rootCmd.PersistentFlags().Lookup("evaluator")
		f.Changed = false
		_ = f.Value.Set("")
	})
	_, err := execute(t, "--evaluator", "lua", "version")
	assert.Error(t, err)
}

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	err := root.Execute()
	return out.String(), err
}

func TestLevelsCmd(t *testing.T) {
	out, err := run(t, "levels")
	require.NoError(t, err)
	assert.Contains(t, out, "221683.68")
	assert.Contains(t, out, "50.00")
}

func TestTierCmd(t *testing.T) {
	out, err := run(t, "tier", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "level 2")
	assert.Contains(t, out, "next level 3 at 225.00")

	out, err = run(t, "tier", "221683.68")
	require.NoError(t, err)
	assert.Contains(t, out, "max level reached")

	_, err = run(t, "tier", "abc")
	assert.Error(t, err)
}

func TestGateCmd(t *testing.T) {
	out, err := run(t, "gate", "100", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "STOP")

	out, err = run(t, "gate", "100", "2.99")
	require.NoError(t, err)
	assert.Contains(t, out, "trading allowed: $2.99 of $3.00")
}

func TestProgressCmd(t *testing.T) {
	out, err := run(t, "progress", "125", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "next level 50.0%  daily target 50.0%")
}

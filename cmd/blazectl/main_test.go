package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blazectl/internal/platform/errors"
)

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionCommands(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, root, "status")
	require.NoError(t, err)
	assert.Equal(t, "No active session.\n", out)

	out, err = run(t, root, "start", "train")
	require.NoError(t, err)
	assert.Contains(t, out, "Started train at ")

	out, err = run(t, root, "start", "train")
	require.NoError(t, err)
	assert.Contains(t, out, "Already running: train since ")

	out, err = run(t, root, "start", "battle")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto-stop train before starting battle. Run `blazectl stop train` first.")

	out, err = run(t, root, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Active: ")
	assert.Contains(t, out, "train")

	out, err = run(t, root, "stop", "battle")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped battle after ")
	assert.FileExists(t, filepath.Join(root, "README.md"))

	out, err = run(t, root, "stop", "battle")
	require.NoError(t, err)
	assert.Equal(t, "No active `battle` session.\n", out)

	out, err = run(t, root, "log", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "battle")
}

func TestReadOnlyCommandsCreateNothing(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, root, "status")
	require.NoError(t, err)
	assert.Equal(t, "No active session.\n", out)

	out, err = run(t, root, "log")
	require.NoError(t, err)
	assert.Equal(t, "No sessions logged.\n", out)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInvalidTagFails(t *testing.T) {
	root := t.TempDir()
	_, err := run(t, root, "start", "nap")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTag)

	_, err = run(t, root, "stop", "nap")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTag)
}

func TestRenderReadmeAlias(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "render-readme")
	require.NoError(t, err)
	assert.Contains(t, out, "report: "+filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, "assets", "activity.svg"))
}

func TestReindexAndVersion(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "reindex")
	require.NoError(t, err)
	assert.Equal(t, "indexed 0 sessions, skipped 0 lines\n", out)

	out, err = run(t, root, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "blazectl dev")
}

package ladadir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_Paths(t *testing.T) {
	root := filepath.Join(t.TempDir(), ".lada")
	d := New(root)

	assert.Equal(t, root, d.Root())
	assert.Equal(t, filepath.Join(root, "sessions"), d.SessionsDir())
	assert.Equal(t, filepath.Join(root, "plans"), d.PlansDir())
	assert.Equal(t, filepath.Join(root, "backups"), d.BackupsDir())
	assert.Equal(t, filepath.Join(root, ".gitignore"), d.GitignorePath())
}

func TestEnsureStructure(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".lada"))

	assert.False(t, d.Exists())

	require.NoError(t, EnsureStructure(d))

	assert.True(t, d.Exists())
	for _, dir := range []string{d.SessionsDir(), d.PlansDir(), d.BackupsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, "sessions/\nbackups/\n", string(data))
}

func TestEnsureStructure_Idempotent(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), ".lada"))

	require.NoError(t, EnsureStructure(d))

	// A customized .gitignore survives repeated runs.
	require.NoError(t, os.WriteFile(d.GitignorePath(), []byte("plans/\n"), 0o600))
	require.NoError(t, EnsureStructure(d))

	data, err := os.ReadFile(d.GitignorePath())
	require.NoError(t, err)
	assert.Equal(t, "plans/\n", string(data))
}

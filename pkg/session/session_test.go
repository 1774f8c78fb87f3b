package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir, "ollama:codellama:7b")

	frozen := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return frozen })

	store.Append(RoleUser, "write a haiku")
	store.Append(RoleAssistant, "old pond...")
	require.NoError(t, store.Save())

	loaded, err := Load(store.Path())

	require.NoError(t, err)
	assert.Equal(t, "ollama:codellama:7b", loaded.Model)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "write a haiku", Time: frozen}, loaded.Messages[0])
	assert.Equal(t, RoleAssistant, loaded.Messages[1].Role)
}

func TestStore_UntouchedSessionWritesNothing(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir, "m")
	require.NoError(t, store.Save())

	_, err := os.Stat(store.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_SaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir, "m")
	store.Append(RoleUser, "hi")
	require.NoError(t, store.Save())

	// A second save with no new messages must not rewrite the file.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, store.Save())

	_, err := os.Stat(store.Path())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_Len(t *testing.T) {
	store := NewStore(t.TempDir(), "m")

	assert.Zero(t, store.Len())

	store.Append(RoleUser, "one")
	store.Append(RoleAssistant, "two")

	assert.Equal(t, 2, store.Len())
}

func TestStore_AutoSaveFinalFlushOnCancel(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir, "m")
	store.Append(RoleUser, "hi")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With ctx already cancelled the loop exits immediately after one final save.
	require.NoError(t, store.AutoSave(ctx, time.Hour))

	loaded, err := Load(store.Path())
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}

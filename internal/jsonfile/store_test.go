package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ganot/rota/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissing(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "rota.json"), "")
	require.NoError(t, err)

	_, err = store.Read(context.Background())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_WriteRead(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "rota.json"), "")
	require.NoError(t, err)
	ctx := context.Background()

	doc := []byte(`{"version":2,"stats":{"projects":{}}}`)
	require.NoError(t, store.Write(ctx, doc))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, doc, got)
}

func TestStore_WriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "rota.json"), "")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, []byte(`{"version":1}`)))
	require.NoError(t, store.Write(ctx, []byte(`{"version":2}`)))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(`{"version":2}`), got)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "rota.json")
	store, err := New(path, "")
	require.NoError(t, err)

	require.NoError(t, store.Write(context.Background(), []byte(`{}`)))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestStore_EmptyPathRejected(t *testing.T) {
	_, err := New("", "")
	require.Error(t, err)
}

func TestStore_ReadLegacy(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(filepath.Join(dir, "rota.json"), "")
	require.NoError(t, err)
	_, err = store.ReadLegacy(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	legacyPath := filepath.Join(dir, "review-stats.json")
	require.NoError(t, os.WriteFile(legacyPath, []byte(`{"notes/a.md": 42}`), 0o644))

	store, err = New(filepath.Join(dir, "rota.json"), legacyPath)
	require.NoError(t, err)
	got, err := store.ReadLegacy(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"notes/a.md": 42}`, string(got))
}

package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the same contract checks against any backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Read(ctx, "missing_slot")
	require.NoError(t, err)
	assert.False(t, ok, "missing slot should read as absent")

	require.NoError(t, s.Write(ctx, "slot_a", `[{"key":"PF-0000-0000-0000-9999-0000"}]`))
	v, ok, err := s.Read(ctx, "slot_a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"key":"PF-0000-0000-0000-9999-0000"}]`, v)

	require.NoError(t, s.Write(ctx, "slot_a", "[]"))
	v, _, err = s.Read(ctx, "slot_a")
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "write replaces the whole value")

	require.NoError(t, s.Delete(ctx, "slot_a"))
	_, ok, err = s.Read(ctx, "slot_a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Delete(ctx, "slot_a"), "deleting a missing slot is not an error")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files should be left behind")
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, "pf_license_history", "[]"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	v, ok, err := second.Read(ctx, "pf_license_history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	_, err = os.Stat(filepath.Join(dir, "pf_license_history.json"))
	assert.NoError(t, err)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = s.Write(context.Background(), "../escape", "x")
	require.Error(t, err)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "write", se.Op)
	assert.Equal(t, "../escape", se.Key)
}

func TestFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unsupported storage backend")

	_, err = Open(ctx, Options{Backend: BackendPostgres})
	assert.Error(t, err, "postgres backend needs a database url")
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set (skipping DB-backed storage test)")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_ = s.Delete(ctx, "missing_slot")
	_ = s.Delete(ctx, "slot_a")
	exerciseStore(t, s)
}

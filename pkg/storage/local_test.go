package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_ReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "tasks/a.yaml", []byte("title: a\n")))
	data, err := s.Read(ctx, "tasks/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "title: a\n", string(data))

	require.NoError(t, s.Write(ctx, "tasks/a.yaml", []byte("title: b\n")))
	data, err = s.Read(ctx, "tasks/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "title: b\n", string(data))

	require.NoError(t, s.Delete(ctx, "tasks/a.yaml"))
	_, err = s.Read(ctx, "tasks/a.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "tasks/a.yaml"), ErrNotFound)
}

func TestLocalStorage_List(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	paths, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Empty(t, paths)

	require.NoError(t, s.Write(ctx, "tasks/b.yaml", []byte("b")))
	require.NoError(t, s.Write(ctx, "tasks/a.yaml", []byte("a")))
	require.NoError(t, s.Write(ctx, "tasks/nested/c.yaml", []byte("c")))

	paths, err = s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks/a.yaml", "tasks/b.yaml"}, paths)
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(base, "data"))
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "../escape.yaml", []byte("x")))
	_, err = os.Stat(filepath.Join(base, "escape.yaml"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "data", "escape.yaml"))
	assert.NoError(t, err)
}

func TestLocalStorage_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "tasks/a.yaml", []byte("a")))
	entries, err := os.ReadDir(filepath.Join(base, "tasks"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.yaml", entries[0].Name())
}

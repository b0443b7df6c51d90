package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpen_Directory(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create(context.Background(), "buy milk")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, DefaultFileName))
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	a, err := s.Create(ctx, "buy milk")
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, a.ID, model.StatusCompleted)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	todos, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, model.StatusCompleted, todos[0].Status)
	assert.True(t, a.CreatedAt.Equal(todos[0].CreatedAt))
}

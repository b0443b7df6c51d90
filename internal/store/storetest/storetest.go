// Package storetest holds behavior checks shared by every store.Store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Run exercises a fresh, empty store returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("EmptyList", func(t *testing.T) {
		s := open(t)
		todos, err := s.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		a, err := s.Create(ctx, "  buy milk ")
		require.NoError(t, err)
		b, err := s.Create(ctx, "pay rent")
		require.NoError(t, err)

		assert.Equal(t, "buy milk", a.Body)
		assert.Equal(t, model.StatusPending, a.Status)
		assert.False(t, a.CreatedAt.IsZero())
		assert.Greater(t, b.ID, a.ID)

		todos, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, todos, 2)
		assert.Equal(t, a.ID, todos[0].ID)
		assert.Equal(t, b.ID, todos[1].ID)
	})

	t.Run("CreateRejectsEmptyBody", func(t *testing.T) {
		s := open(t)
		_, err := s.Create(context.Background(), " \t ")
		assert.ErrorIs(t, err, model.ErrEmptyBody)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a, err := s.Create(ctx, "buy milk")
		require.NoError(t, err)

		got, err := s.UpdateStatus(ctx, a.ID, model.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, got.Status)
		assert.Equal(t, "buy milk", got.Body)

		todos, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, model.StatusCompleted, todos[0].Status)

		_, err = s.UpdateStatus(ctx, a.ID, model.Status("archived"))
		assert.ErrorIs(t, err, model.ErrInvalidStatus)

		_, err = s.UpdateStatus(ctx, a.ID+100, model.StatusPending)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("ListFiltersByStatus", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a, err := s.Create(ctx, "buy milk")
		require.NoError(t, err)
		b, err := s.Create(ctx, "pay rent")
		require.NoError(t, err)
		_, err = s.UpdateStatus(ctx, b.ID, model.StatusCompleted)
		require.NoError(t, err)

		pending, err := s.List(ctx, []model.Status{model.StatusPending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, a.ID, pending[0].ID)

		completed, err := s.List(ctx, []model.Status{model.StatusCompleted})
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, b.ID, completed[0].ID)

		both, err := s.List(ctx, model.Statuses)
		require.NoError(t, err)
		assert.Len(t, both, 2)

		_, err = s.List(ctx, []model.Status{"archived"})
		assert.ErrorIs(t, err, model.ErrInvalidStatus)
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()
		a, err := s.Create(ctx, "buy milk")
		require.NoError(t, err)
		b, err := s.Create(ctx, "pay rent")
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, a.ID))
		todos, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, b.ID, todos[0].ID)

		assert.ErrorIs(t, s.Delete(ctx, a.ID), model.ErrNotFound)

		// ids are never reused
		c, err := s.Create(ctx, "call mom")
		require.NoError(t, err)
		assert.Greater(t, c.ID, b.ID)
	})
}

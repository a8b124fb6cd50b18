package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "saved-signup-form", `{"email":"a@b.com"}`))

		v, ok, err := s.Get(ctx, "saved-signup-form")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"email":"a@b.com"}`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", "one"))
		require.NoError(t, s.Set(ctx, "k", "two"))

		v, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "two", v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "empty", ""))

		v, ok, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "gone", "x"))
		require.NoError(t, s.Delete(ctx, "gone"))

		_, ok, err := s.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, s.Delete(ctx, "never-existed"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))

		va, _, _ := s.Get(ctx, "a")
		vb, _, _ := s.Get(ctx, "b")
		assert.Equal(t, "1", va)
		assert.Equal(t, "2", vb)
	})
}

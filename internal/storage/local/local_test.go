package local

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"games_storefront/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, err := New(t.TempDir())
		assert.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("empty folder path", func(t *testing.T) {
		s, err := New("")
		assert.ErrorIs(t, err, ErrEmptyFolder)
		assert.Nil(t, s)
	})

	t.Run("nonexistent folder creation", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "sessions")

		s, err := New(dir)
		require.NoError(t, err)
		assert.NotNil(t, s)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})
}

func TestStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "absent.user")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "abc.user", []byte(`{"userId":1}`)))

		data, err := s.Get(ctx, "abc.user")
		require.NoError(t, err)
		assert.Equal(t, `{"userId":1}`, string(data))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "abc.user", []byte("v2")))

		data, err := s.Get(ctx, "abc.user")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))

		_, err = os.Stat(filepath.Join(s.folderPath, "abc.user.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "abc.user"))
		_, err := s.Get(ctx, "abc.user")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.NoError(t, s.Remove(ctx, "abc.user"))
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, key := range []string{"", "..", "../escape", "a/b"} {
			assert.ErrorIs(t, s.Set(ctx, key, []byte("x")), storage.ErrInvalidKey, key)
		}
	})
}

func TestStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, "shared.user", []byte("value")))
			_, _ = s.Get(ctx, "shared.user")
		}()
	}
	wg.Wait()

	data, err := s.Get(ctx, "shared.user")
	require.NoError(t, err)
	assert.Equal(t, "value", string(data))
}

package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStorage проверяет общий контракт любого хранилища.
func exerciseStorage(t *testing.T, s LocalStorageInterface) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.GetItem(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found, "пустое хранилище")

	require.NoError(t, s.SetItem(ctx, "token", "abc"))
	require.NoError(t, s.SetItem(ctx, "user", `{"user_id":1}`))

	val, found, err := s.GetItem(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc", val)

	require.NoError(t, s.SetItem(ctx, "token", "xyz"))
	val, _, _ = s.GetItem(ctx, "token")
	assert.Equal(t, "xyz", val, "перезапись ключа")

	require.NoError(t, s.RemoveItem(ctx, "token", "user", "missing"))
	_, found, _ = s.GetItem(ctx, "token")
	assert.False(t, found)
	_, found, _ = s.GetItem(ctx, "user")
	assert.False(t, found)
}

func TestMemoryStorageRepository(t *testing.T) {
	exerciseStorage(t, NewMemoryStorageRepository())
}

func TestFileStorageRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local-storage.json")

	s, err := NewFileStorageRepository(path)
	require.NoError(t, err)
	exerciseStorage(t, s)

	t.Run("данные переживают перезапуск", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, s.SetItem(ctx, "token", "persisted"))

		reopened, err := NewFileStorageRepository(path)
		require.NoError(t, err)
		val, found, err := reopened.GetItem(ctx, "token")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "persisted", val)
	})

	t.Run("повреждённый файл - ошибка", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o600))

		s, err := NewFileStorageRepository(broken)
		require.NoError(t, err)
		_, _, err = s.GetItem(context.Background(), "token")
		assert.Error(t, err)
	})
}

// Тест Redis запускается только при заданном REDIS_TEST_ADDRESS.
func TestRedisStorageRepository(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS не задан")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "request-console-test:" + t.Name() + ":"
	exerciseStorage(t, NewRedisStorageRepository(client, prefix))
}

package repositories

import "context"

// LocalStorageInterface - долговременное локальное хранилище консоли (аналог localStorage).
// В нём лежат только ключи "token" и "user".
type LocalStorageInterface interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, keys ...string) error
}

package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorageRepository хранит пары ключ-значение в одном JSON-файле.
type FileStorageRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileStorageRepository(path string) (LocalStorageInterface, error) {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию хранилища: %w", err)
		}
	}
	return &FileStorageRepository{path: path}, nil
}

func (s *FileStorageRepository) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	val, ok := items[key]
	return val, ok, nil
}

func (s *FileStorageRepository) SetItem(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *FileStorageRepository) RemoveItem(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(items, k)
	}
	return s.save(items)
}

func (s *FileStorageRepository) load() (map[string]string, error) {
	items := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать хранилище: %w", err)
	}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("повреждён файл хранилища %s: %w", s.path, err)
	}
	return items, nil
}

// save пишет во временный файл и переименовывает, чтобы не оставить файл наполовину записанным.
func (s *FileStorageRepository) save(items map[string]string) error {
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("не удалось записать хранилище: %w", err)
	}
	return os.Rename(tmp, s.path)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// FileKeyValue stores each key as a file in dir. Writes go through a
// temporary file and a rename so a crash never leaves a half-written value.
type FileKeyValue struct {
	dir string
}

func NewFileKeyValue(dir string) *FileKeyValue {
	return &FileKeyValue{dir: dir}
}

func (f *FileKeyValue) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	return data, nil
}

func (f *FileKeyValue) Store(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o750); err != nil { //nolint:mnd // rwxr-x---
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

func (f *FileKeyValue) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// RedisKeyValue stores each key as a plain redis string.
type RedisKeyValue struct {
	client redis.UniversalClient
}

func NewRedisKeyValue(client redis.UniversalClient) *RedisKeyValue {
	return &RedisKeyValue{client: client}
}

func (r *RedisKeyValue) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis.Get: %w", err)
	}

	return data, nil
}

func (r *RedisKeyValue) Store(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalStore implements Store using one file per key on the local filesystem.
// This is the development and single-node deployment backend.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a file-backed store rooted at basePath, creating the
// directory if needed.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// path hashes the key so session IDs and other caller-supplied keys can never
// escape basePath or collide with reserved filenames.
func (s *LocalStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.basePath, hex.EncodeToString(sum[:])+".json")
}

// Load reads the snapshot for a key.
func (s *LocalStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save writes the snapshot atomically via a temp file rename so a crash mid
// write never leaves a truncated snapshot behind.
func (s *LocalStore) Save(ctx context.Context, key string, data []byte) error {
	path := s.path(key)

	tmp, err := os.CreateTemp(s.basePath, "snap-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Delete removes the snapshot for a key. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// PurgeStale removes snapshot files whose last write is older than maxAge and
// returns how many were removed. Temp files from interrupted saves are swept
// on the same schedule.
func (s *LocalStore) PurgeStale(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	purged := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return purged, err
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, entry.Name())); err != nil && !os.IsNotExist(err) {
			return purged, fmt.Errorf("failed to purge snapshot: %w", err)
		}
		purged++
	}
	return purged, nil
}

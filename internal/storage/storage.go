// Package storage stores uploaded receipt images and returns durable public
// URLs for them. Implementations back onto the local filesystem or
// Cloudflare R2.
package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage stores blobs under caller-chosen keys.
type Storage interface {
	// Put stores a blob and returns its public URL.
	// The key should be unique (e.g., "receipts/uuid.jpg").
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Delete removes a blob by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a stored blob.
	URL(key string) string
}

// Config selects and configures a storage backend.
type Config struct {
	Provider string // "local" or "r2"

	LocalPath string
	LocalURL  string

	R2AccountID   string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
	R2PublicURL   string
}

// New creates a Storage implementation from configuration.
func New(cfg Config) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocal(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

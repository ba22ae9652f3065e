// Package snapshot persists small opaque blobs keyed by session. Cart lines
// and remembered customer details both serialize through it, so swapping the
// backing store (local files in development, Postgres in production) never
// touches the aggregates.
package snapshot

import (
	"context"
	"time"

	"github.com/jrmart12/nayos/internal/domain"
)

// ErrNotFound is returned by Load when no snapshot exists under the key.
var ErrNotFound = &domain.Error{Code: domain.ENOTFOUND, Message: "Snapshot not found."}

// Store persists opaque snapshots by key.
//
// Save overwrites any previous value. Delete on a missing key is a no-op;
// callers delete eagerly when state becomes empty.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Purger removes snapshots that have not been written for longer than maxAge.
// Abandoned sessions never delete their own snapshots, so stores that can
// enumerate entries implement this for the background sweeper.
type Purger interface {
	PurgeStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// Package store persists encoded session snapshots under a session name.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

// Store saves and loads whole snapshots. A Save replaces the previous snapshot
// for the key in one step; readers never observe a partial write.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

package storage

import (
	"context"
	"io"
)

// AvatarStore persists uploaded profile pictures and returns the URL the
// backend hands back in the updated user record.
type AvatarStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

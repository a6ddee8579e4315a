package session

import "context"

// Entry keys for the two persisted values. The layout deliberately mirrors
// the backend's web client: one serialized user record, one raw token.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// Store provides durable key-value persistence for the session entries.
// Implementations must treat a missing key as (value: "", present: false),
// not as an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

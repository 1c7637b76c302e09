package localstore

import "context"

// Fixed keys used by the session.
const (
	KeyToken = "token"
	KeyAdmin = "admin"
)

// Repository stores string values by key. Get of a missing key returns ""
// with a nil error.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}

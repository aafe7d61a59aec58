package ports

import "context"

// PreferenceStore is durable client-side key-value storage that survives
// restarts. Get returns domain.ErrPreferenceNotFound for unknown keys.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

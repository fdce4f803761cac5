package cart

import "context"

// Storage is the key-value slot a serialized cart lives in.
// Get returns domain.ErrNotFound when the key holds nothing; Remove of an absent key succeeds.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

package storage

import "context"

// CartKey is the fixed key the cart store persists its blob under.
const CartKey = "sneakerfresh_cart"

// Store is a durable key/value blob store. Load reports absence through the
// second return value rather than an error; a corrupt or unreadable entry is
// treated as absent by callers.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

package persistence

import "context"

// SlotStore is a small key-value surface over whatever holds session
// state: two logical slots per session, one for the live cart and one for
// the last order confirmation. Implementations exist for Redis and for
// process memory
type SlotStore interface {
	// Set writes the payload to a slot, replacing any previous value
	Set(ctx context.Context, key string, payload []byte) error
	// Get reads a slot. Returns shared.ErrNotFound when the slot is empty
	Get(ctx context.Context, key string) ([]byte, error)
	// TakeOnce reads a slot and deletes it atomically. Returns
	// shared.ErrNotFound when the slot is empty; a second call for the same
	// slot always does
	TakeOnce(ctx context.Context, key string) ([]byte, error)
	// Delete removes a slot. Deleting an empty slot is not an error
	Delete(ctx context.Context, key string) error
	// Watch returns a channel that receives a signal whenever the slot is
	// written by anyone, including other server instances. The channel is
	// closed when ctx is done
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
	// Close releases the store's resources
	Close() error
}

const (
	cartKeyPrefix      = "cart:"
	lastOrderKeyPrefix = "lastorder:"
)

// CartKey returns the slot key for a session's live cart
func CartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// LastOrderKey returns the slot key for a session's one-shot order
// confirmation
func LastOrderKey(sessionID string) string {
	return lastOrderKeyPrefix + sessionID
}

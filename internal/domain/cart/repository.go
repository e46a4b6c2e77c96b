package cart

import "context"

// Repository is the persistence adapter contract. It mirrors cart state to
// a durable key-value slot after every mutation and manages the one-shot
// last-order slot consumed by the confirmation screen
type Repository interface {
	// Save serializes the cart's lines and coupon to the session's cart
	// slot. Derived totals are never persisted
	Save(ctx context.Context, c *Cart) error

	// Load rebuilds the session's cart from its slot. A missing, malformed
	// or otherwise unreadable payload yields a fresh empty cart, never an
	// error surfaced to the caller
	Load(ctx context.Context, sessionID string, rules PricingRules) (*Cart, error)

	// Delete removes the session's cart slot
	Delete(ctx context.Context, sessionID string) error

	// SaveLastOrder stores the snapshot in the session's one-shot slot
	SaveLastOrder(ctx context.Context, snap *OrderSnapshot) error

	// TakeLastOrder reads and deletes the one-shot slot. Returns
	// shared.ErrNotFound after it has been consumed
	TakeLastOrder(ctx context.Context, sessionID string) (*OrderSnapshot, error)

	// Watch reports external updates to the session's cart slot (another
	// tab writing through the same store). The channel closes when ctx is
	// done. Implementations without change notification return a nil
	// channel
	Watch(ctx context.Context, sessionID string) (<-chan struct{}, error)
}

// SnapshotArchive keeps placed orders for the order-history screens.
// The screens themselves are out of scope; the engine only appends
type SnapshotArchive interface {
	Archive(ctx context.Context, snap *OrderSnapshot) error
}

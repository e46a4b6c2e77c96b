package persistence

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SlotCartRepository implements cart.Repository over a SlotStore. Each
// session owns two slots: the live cart and the one-shot last-order
// confirmation
type SlotCartRepository struct {
	store SlotStore
	log   *zap.Logger
}

// NewSlotCartRepository creates a repository over the given store
func NewSlotCartRepository(store SlotStore, log *zap.Logger) *SlotCartRepository {
	return &SlotCartRepository{store: store, log: log.Named("cart_repository")}
}

// Save serializes the cart's raw contents to its slot
func (r *SlotCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	payload, err := encodeCart(c)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, CartKey(c.SessionID), payload)
}

// Load rebuilds the session's cart. Missing and corrupt payloads both
// yield a fresh empty cart; corruption is logged, deleted and absorbed so
// the session can keep shopping
func (r *SlotCartRepository) Load(ctx context.Context, sessionID string, rules cart.PricingRules) (*cart.Cart, error) {
	payload, err := r.store.Get(ctx, CartKey(sessionID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return cart.NewCart(sessionID, rules)
		}
		return nil, err
	}

	lines, coupon, err := decodeCart(payload)
	if err != nil {
		logger.WithLogger(ctx, r.log).Warn("discarding corrupt cart payload",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		_ = r.store.Delete(ctx, CartKey(sessionID))
		return cart.NewCart(sessionID, rules)
	}

	c, err := cart.Rehydrate(sessionID, lines, coupon, rules)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the session's cart slot
func (r *SlotCartRepository) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, CartKey(sessionID))
}

// SaveLastOrder stores the snapshot in the one-shot slot
func (r *SlotCartRepository) SaveLastOrder(ctx context.Context, snap *cart.OrderSnapshot) error {
	payload, err := encodeOrder(snap)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, LastOrderKey(snap.SessionID), payload)
}

// TakeLastOrder consumes the one-shot slot. A second call returns
// shared.ErrNotFound
func (r *SlotCartRepository) TakeLastOrder(ctx context.Context, sessionID string) (*cart.OrderSnapshot, error) {
	payload, err := r.store.TakeOnce(ctx, LastOrderKey(sessionID))
	if err != nil {
		return nil, err
	}
	return decodeOrder(payload)
}

// Watch reports external writes to the session's cart slot
func (r *SlotCartRepository) Watch(ctx context.Context, sessionID string) (<-chan struct{}, error) {
	return r.store.Watch(ctx, CartKey(sessionID))
}

var _ cart.Repository = (*SlotCartRepository)(nil)

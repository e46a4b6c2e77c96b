package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CheckoutService turns a session's cart into an immutable order snapshot.
// Placing an order archives the snapshot, stores it in the one-shot
// last-order slot and empties the cart
type CheckoutService struct {
	carts          *CartService
	archive        cart.SnapshotArchive
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(carts *CartService, archive cart.SnapshotArchive) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		archive: archive,
	}
}

// SetEventPublisher sets the event publisher for order events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder freezes the cart into an order snapshot, archives it, fills
// the session's last-order slot and clears the cart. An empty cart cannot
// be checked out
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req CheckoutRequest) (*OrderView, error) {
	st, err := s.carts.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	snap, err := cart.BuildSnapshot(st.cart, newOrderNumber(), cart.CustomerInfo{
		Name:  req.Customer.Name,
		Email: req.Customer.Email,
		Phone: req.Customer.Phone,
	}, cart.ShippingAddress{
		Street:     req.Address.Street,
		City:       req.Address.City,
		Province:   req.Address.Province,
		PostalCode: req.Address.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	if err := s.archive.Archive(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.carts.repo.SaveLastOrder(ctx, snap); err != nil {
		return nil, err
	}

	event := cart.NewOrderPlacedEvent(st.cart, snap)

	st.backup = nil
	st.cart.Clear()
	st.cart.ClearDomainEvents()

	// Enqueueing replaces any mirror write still pending from a
	// pre-checkout mutation, so the stale state can never land after the
	// cleared one; the flush makes the empty cart durable before the
	// confirmation screen loads
	s.carts.persister.Enqueue(st.cart.Clone())
	s.carts.persister.FlushSession(ctx, sessionID)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			logger.L(ctx).Warn("failed to publish order placed event", zap.Error(err))
		}
	}

	return ToOrderView(snap), nil
}

// LastOrder consumes the session's one-shot last-order slot. The second
// read of the same order reports not found
func (s *CheckoutService) LastOrder(ctx context.Context, sessionID string) (*OrderView, error) {
	snap, err := s.carts.repo.TakeLastOrder(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ToOrderView(snap), nil
}

// newOrderNumber derives a short human-readable order reference
func newOrderNumber() string {
	id := uuid.New().String()
	return "ORD-" + strings.ToUpper(id[:8])
}

package cart

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Persister mirrors cart state to durable storage asynchronously. Writes
// within a coalescing window collapse to the latest state
type Persister interface {
	Enqueue(c *cart.Cart)
	// FlushSession forces the session's pending state out; on return the
	// write is durable
	FlushSession(ctx context.Context, sessionID string)
	Flush(ctx context.Context)
	// Pending reports whether the session has an unflushed write
	Pending(sessionID string) bool
}

// sessionState holds one session's cart and its concurrency controls.
// The mutex serializes mutations; the validating flag rejects overlapping
// coupon validations instead of queueing them
type sessionState struct {
	mu         sync.Mutex
	cart       *cart.Cart
	backup     *cart.Backup
	validating atomic.Bool
}

// CartService handles cart operations for browsing sessions
type CartService struct {
	repo              cart.Repository
	persister         Persister
	validator         *cart.CouponValidator
	rules             cart.PricingRules
	eventPublisher    shared.EventPublisher
	validationTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewCartService creates a new CartService
func NewCartService(
	repo cart.Repository,
	persister Persister,
	registry cart.CouponRegistry,
	rules cart.PricingRules,
	validationTimeout time.Duration,
) *CartService {
	return &CartService{
		repo:              repo,
		persister:         persister,
		validator:         cart.NewCouponValidator(registry),
		rules:             rules,
		validationTimeout: validationTimeout,
		sessions:          make(map[string]*sessionState),
	}
}

// SetEventPublisher sets the event publisher for cart activity events
func (s *CartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Get returns the session's cart, loading it from storage on first access
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.view(st), nil
}

// AddItem adds a product to the cart, merging into an existing line when
// the product, size and personalization all match
func (s *CartService) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	quantity := req.Quantity
	if quantity == 0 {
		// An omitted quantity means one unit
		quantity = 1
	}

	_, err = st.cart.AddLine(cart.NewLineInput{
		ProductID:     req.ProductID,
		ProductSlug:   req.ProductSlug,
		Title:         req.Title,
		Image:         req.Image,
		Team:          req.Team,
		BasePrice:     valueobject.NewMoneyARSFromFloat(req.BasePrice),
		Size:          req.Size,
		Quantity:      quantity,
		Customization: toPersonalization(req.Customization),
	})
	if err != nil {
		return nil, err
	}

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// UpdateItemQuantity sets the quantity of an existing line; zero removes it
func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.cart.UpdateLineQuantity(lineID, quantity); err != nil {
		return nil, err
	}

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, sessionID, lineID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cart.RemoveLine(lineID)

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// Clear empties the cart and keeps a backup for a one-step undo
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	st.backup = st.cart.Clear()

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// Restore puts back the contents removed by the most recent Clear. There
// is nothing to restore after the backup has been consumed
func (s *CartService) Restore(ctx context.Context, sessionID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.backup == nil {
		return nil, shared.ErrNotFound
	}
	if err := st.cart.Restore(st.backup); err != nil {
		return nil, err
	}
	st.backup = nil

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// ApplyCoupon validates the code against the registry and applies the
// resolved discount. Only one validation may be in flight per session;
// a concurrent attempt is rejected, never queued. A registry lookup that
// exceeds the timeout fails closed and leaves the cart unchanged
func (s *CartService) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !st.validating.CompareAndSwap(false, true) {
		return nil, cart.ErrCouponValidationPending
	}
	defer st.validating.Store(false)

	// Validate against a stable copy so slow lookups never hold the
	// session lock
	st.mu.Lock()
	snapshot := st.cart.Clone()
	st.mu.Unlock()

	lookupCtx, cancel := context.WithTimeout(ctx, s.validationTimeout)
	defer cancel()

	coupon, err := s.validator.Validate(lookupCtx, code, snapshot)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.cart.ApplyCoupon(*coupon)

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// RemoveCoupon drops the active coupon. Always succeeds
func (s *CartService) RemoveCoupon(ctx context.Context, sessionID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	st.cart.RemoveCoupon()

	s.finishMutation(ctx, st)
	return s.view(st), nil
}

// Refresh discards the cached cart and reloads it from storage. Used when
// a watch notification reports that another instance wrote the session's
// slot
func (s *CartService) Refresh(ctx context.Context, sessionID string) (*CartView, error) {
	st, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	c, err := s.repo.Load(ctx, sessionID, s.rules)
	if err != nil {
		return nil, err
	}
	st.cart = c
	return s.view(st), nil
}

// Flush forces all pending mirror writes out. Called on shutdown
func (s *CartService) Flush(ctx context.Context) {
	s.persister.Flush(ctx)
}

// session returns the state for a session, loading the cart from storage
// on first access
func (s *CartService) session(ctx context.Context, sessionID string) (*sessionState, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	created := false
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
		created = true
	}
	s.mu.Unlock()

	if created {
		s.watchSlot(sessionID)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cart == nil {
		c, err := s.repo.Load(ctx, sessionID, s.rules)
		if err != nil {
			return nil, err
		}
		st.cart = c
	}
	return st, nil
}

// watchSlot subscribes to writes of the session's cart slot and reloads
// the cached cart when another instance changes it. A notification is
// ignored while a local write is still pending: the pending state is
// newer than whatever landed in the slot
func (s *CartService) watchSlot(sessionID string) {
	ctx := context.Background()
	ch, err := s.repo.Watch(ctx, sessionID)
	if err != nil || ch == nil {
		return
	}
	go func() {
		for range ch {
			if s.persister.Pending(sessionID) {
				continue
			}
			if _, err := s.Refresh(ctx, sessionID); err != nil {
				logger.L(ctx).Warn("failed to reload cart after slot write",
					zap.String("session_id", sessionID), zap.Error(err))
			}
		}
	}()
}

// view snapshots the cart for clients. Callers hold the session lock
func (s *CartService) view(st *sessionState) *CartView {
	v := ToCartView(st.cart)
	v.CouponValidating = st.validating.Load()
	return v
}

// finishMutation mirrors the new state and publishes the pending domain
// events. Callers hold the session lock
func (s *CartService) finishMutation(ctx context.Context, st *sessionState) {
	s.persister.Enqueue(st.cart.Clone())
	s.publishEvents(ctx, st.cart)
}

func (s *CartService) publishEvents(ctx context.Context, c *cart.Cart) {
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	c.ClearDomainEvents()

	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish cart events", zap.Error(err))
	}
}

package cart

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingArchive struct {
	mu    sync.Mutex
	snaps []*cart.OrderSnapshot
	err   error
}

func (a *recordingArchive) Archive(_ context.Context, snap *cart.OrderSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.snaps = append(a.snaps, snap)
	return nil
}

func checkoutRequest() CheckoutRequest {
	return CheckoutRequest{
		Customer: CustomerInput{
			Name:  "Diego Fernández",
			Email: "diego@example.com",
			Phone: "+54 11 5555 0100",
		},
		Address: AddressInput{
			Street:     "Av. Corrientes 1234",
			City:       "Buenos Aires",
			Province:   "CABA",
			PostalCode: "C1043",
		},
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	f := newServiceFixture()
	archive := &recordingArchive{}
	checkout := NewCheckoutService(f.svc, archive)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "session-1", jerseyRequest(2))
	require.NoError(t, err)
	_, err = f.svc.ApplyCoupon(ctx, "session-1", "SAVE20")
	require.NoError(t, err)

	order, err := checkout.PlaceOrder(ctx, "session-1", checkoutRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"), "order number %q", order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "SAVE20", order.CouponCode)
	assert.InDelta(t, 179.80, order.Subtotal, 0.001)
	assert.InDelta(t, 20.00, order.DiscountAmount, 0.001)
	assert.InDelta(t, 20.00, order.ShippingPrice, 0.001)
	assert.InDelta(t, 179.80, order.TotalPrice, 0.001)

	// the snapshot is archived and the cart is emptied
	require.Len(t, archive.snaps, 1)
	view, err := f.svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Nil(t, view.Coupon)

	// the cleared cart superseded any pending mirror state and was
	// flushed for this session
	assert.True(t, f.persister.last(t).IsEmpty())
	assert.Contains(t, f.persister.sessionFlushes, "session-1")
}

func TestCheckoutService_PlaceOrder_SupersedesPendingMirrorWrite(t *testing.T) {
	repo := newFakeRepository()
	mirror := persistence.NewMirror(repo, 150*time.Millisecond, zap.NewNop())
	svc := NewCartService(repo, mirror, &mapRegistry{}, testPricingRules(), 2*time.Second)
	checkout := NewCheckoutService(svc, &recordingArchive{})
	ctx := context.Background()
	defer mirror.Close(ctx)

	// the add-item mirror write is still waiting on its timer when the
	// order is placed
	_, err := svc.AddItem(ctx, "session-1", jerseyRequest(1))
	require.NoError(t, err)
	_, err = checkout.PlaceOrder(ctx, "session-1", checkoutRequest())
	require.NoError(t, err)

	stored, err := repo.Load(ctx, "session-1", testPricingRules())
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())

	// the pre-checkout state never lands, not even after its window
	time.Sleep(300 * time.Millisecond)
	stored, err = repo.Load(ctx, "session-1", testPricingRules())
	require.NoError(t, err)
	assert.True(t, stored.IsEmpty())
}

func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newServiceFixture()
	checkout := NewCheckoutService(f.svc, &recordingArchive{})

	_, err := checkout.PlaceOrder(context.Background(), "session-1", checkoutRequest())
	require.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCheckoutService_PlaceOrder_ArchiveFailure(t *testing.T) {
	f := newServiceFixture()
	archive := &recordingArchive{err: assert.AnError}
	checkout := NewCheckoutService(f.svc, archive)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "session-1", jerseyRequest(1))
	require.NoError(t, err)

	_, err = checkout.PlaceOrder(ctx, "session-1", checkoutRequest())
	require.ErrorIs(t, err, assert.AnError)

	// the cart survives a failed checkout
	view, err := f.svc.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.UnitCount)
}

func TestCheckoutService_LastOrder_ReadOnce(t *testing.T) {
	f := newServiceFixture()
	checkout := NewCheckoutService(f.svc, &recordingArchive{})
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "session-1", jerseyRequest(1))
	require.NoError(t, err)

	placed, err := checkout.PlaceOrder(ctx, "session-1", checkoutRequest())
	require.NoError(t, err)

	order, err := checkout.LastOrder(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, order.OrderNumber)
	assert.InDelta(t, 114.90, order.TotalPrice, 0.001)

	// the slot is consumed by the first read
	_, err = checkout.LastOrder(ctx, "session-1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckoutService_LastOrder_NeverPlaced(t *testing.T) {
	f := newServiceFixture()
	checkout := NewCheckoutService(f.svc, &recordingArchive{})

	_, err := checkout.LastOrder(context.Background(), "session-1")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

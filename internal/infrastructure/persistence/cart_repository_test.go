package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/strategy/fee"
	"github.com/storefront/backend/internal/infrastructure/strategy/shipping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRules() cart.PricingRules {
	return cart.PricingRules{
		Shipping: shipping.DefaultStepTableTariff(),
		Fee:      fee.DefaultFixedFeeRule(),
		MaxUnits: 7,
	}
}

func newRepo() (*SlotCartRepository, *InMemorySlotStore) {
	store := NewInMemorySlotStore()
	return NewSlotCartRepository(store, zap.NewNop()), store
}

func buildCart(t *testing.T, sessionID string) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(sessionID, testRules())
	require.NoError(t, err)
	_, err = c.AddLine(cart.NewLineInput{
		ProductID:     "p1",
		ProductSlug:   "home-jersey",
		Title:         "Home Jersey",
		Image:         "https://cdn.example.com/p1.jpg",
		Team:          "River",
		BasePrice:     valueobject.NewMoneyARSFromFloat(89.90),
		Size:          "M",
		Quantity:      2,
		Customization: &strategy.Personalization{Name: "MESSI", Number: "10"},
	})
	require.NoError(t, err)
	return c
}

func TestSlotCartRepository_SaveAndLoad(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	original := buildCart(t, "sess-1")
	original.ApplyCoupon(cart.Coupon{
		Code:           "SAVE20",
		Kind:           cart.CouponKindFixed,
		DiscountAmount: valueobject.NewMoneyARSFromFloat(20),
		AppliedAt:      time.Now(),
	})
	require.NoError(t, repo.Save(ctx, original))

	loaded, err := repo.Load(ctx, "sess-1", testRules())
	require.NoError(t, err)

	require.Equal(t, 1, loaded.LineCount())
	line := loaded.Lines[0]
	assert.Equal(t, original.Lines[0].ID, line.ID)
	assert.Equal(t, "p1", line.ProductID)
	assert.Equal(t, "M", line.Size)
	assert.Equal(t, 2, line.Quantity)
	require.NotNil(t, line.Customization)
	assert.Equal(t, "MESSI", line.Customization.Name)
	assert.Equal(t, "20.00", line.CustomizationFee.StringFixed(2))

	require.NotNil(t, loaded.Coupon)
	assert.Equal(t, "SAVE20", loaded.Coupon.Code)

	// Totals are recomputed on load, never read from storage
	assert.True(t, loaded.Subtotal.Equals(original.Subtotal))
	assert.True(t, loaded.TotalPrice.Equals(original.TotalPrice))
}

func TestSlotCartRepository_LoadMissingYieldsEmptyCart(t *testing.T) {
	repo, _ := newRepo()

	c, err := repo.Load(context.Background(), "sess-none", testRules())
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "sess-none", c.SessionID)
}

func TestSlotCartRepository_CorruptPayloadRecovers(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{{не json`},
		{"wrong shape", `{"items": "nope"}`},
		{"invalid line", `{"items": [{"productId": "", "size": "", "quantity": 0}]}`},
		{"invalid coupon kind", `{"items": [], "coupon": {"code": "X", "kind": "mystery"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := newRepo()
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, CartKey("sess-1"), []byte(tt.payload)))

			c, err := repo.Load(ctx, "sess-1", testRules())
			require.NoError(t, err)
			assert.True(t, c.IsEmpty())

			// The corrupt slot is dropped so the next load starts clean
			_, err = store.Get(ctx, CartKey("sess-1"))
			assert.ErrorIs(t, err, shared.ErrNotFound)
		})
	}
}

func TestSlotCartRepository_Delete(t *testing.T) {
	repo, store := newRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, buildCart(t, "sess-1")))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, CartKey("sess-1"))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSlotCartRepository_LastOrderIsReadOnce(t *testing.T) {
	repo, _ := newRepo()
	ctx := context.Background()

	c := buildCart(t, "sess-1")
	snap, err := cart.BuildSnapshot(c, "ORD-123",
		cart.CustomerInfo{Name: "Ada Gomez", Email: "ada@example.com"},
		cart.ShippingAddress{Street: "Av. Corrientes 1234", City: "Buenos Aires"},
	)
	require.NoError(t, err)
	require.NoError(t, repo.SaveLastOrder(ctx, snap))

	got, err := repo.TakeLastOrder(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-123", got.OrderNumber)
	assert.Equal(t, "sess-1", got.SessionID)
	require.Len(t, got.Items, 1)
	assert.True(t, got.TotalPrice.Equals(snap.TotalPrice))

	// The slot is consumed by the first read
	_, err = repo.TakeLastOrder(ctx, "sess-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSlotCartRepository_Watch(t *testing.T) {
	repo, _ := newRepo()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := repo.Watch(ctx, "sess-1")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, buildCart(t, "sess-1")))

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a watch notification after save")
	}
}

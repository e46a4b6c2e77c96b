package cart

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	rules map[string]*Rule
	err   error
	last  string
}

func (r *stubRegistry) Lookup(ctx context.Context, code string) (*Rule, error) {
	r.last = code
	if r.err != nil {
		return nil, r.err
	}
	rule, ok := r.rules[code]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rule, nil
}

type slowRegistry struct {
	delay time.Duration
	rule  *Rule
}

func (r *slowRegistry) Lookup(ctx context.Context, code string) (*Rule, error) {
	select {
	case <-time.After(r.delay):
		return r.rule, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func fixedRule(code string, amount float64) *Rule {
	return &Rule{Code: code, Kind: CouponKindFixed, Value: decimal.NewFromFloat(amount)}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE20", NormalizeCode("  save20  "))
	assert.Equal(t, "SAVE20", NormalizeCode("Save20"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestCouponValidator_Validate(t *testing.T) {
	cartWithSubtotal := func(t *testing.T, price float64, quantity int) *Cart {
		t.Helper()
		c := newTestCart(t)
		_, err := c.AddLine(jerseyInput("p1", price, "M", quantity))
		require.NoError(t, err)
		return c
	}

	t.Run("resolves a fixed rule", func(t *testing.T) {
		registry := &stubRegistry{rules: map[string]*Rule{"SAVE20": fixedRule("SAVE20", 20)}}
		v := NewCouponValidator(registry)

		coupon, err := v.Validate(context.Background(), "save20", cartWithSubtotal(t, 100, 2))
		require.NoError(t, err)
		assert.Equal(t, "SAVE20", coupon.Code)
		assert.Equal(t, CouponKindFixed, coupon.Kind)
		assert.Equal(t, "20.00", coupon.DiscountAmount.StringFixed(2))
		assert.Equal(t, "SAVE20", registry.last, "lookup uses the normalized code")
	})

	t.Run("resolves a percent rule against the subtotal", func(t *testing.T) {
		registry := &stubRegistry{rules: map[string]*Rule{"TEN": {Code: "TEN", Kind: CouponKindPercent, Value: decimal.NewFromInt(10)}}}
		v := NewCouponValidator(registry)

		coupon, err := v.Validate(context.Background(), "ten", cartWithSubtotal(t, 89.90, 2))
		require.NoError(t, err)
		assert.Equal(t, "17.98", coupon.DiscountAmount.StringFixed(2))
	})

	t.Run("caps the discount at the subtotal", func(t *testing.T) {
		registry := &stubRegistry{rules: map[string]*Rule{"BIG": fixedRule("BIG", 500)}}
		v := NewCouponValidator(registry)

		coupon, err := v.Validate(context.Background(), "BIG", cartWithSubtotal(t, 30, 1))
		require.NoError(t, err)
		assert.Equal(t, "30.00", coupon.DiscountAmount.StringFixed(2))
	})

	t.Run("unknown code", func(t *testing.T) {
		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{}})
		_, err := v.Validate(context.Background(), "NOPE", cartWithSubtotal(t, 100, 1))
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("blank code", func(t *testing.T) {
		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{}})
		_, err := v.Validate(context.Background(), "   ", cartWithSubtotal(t, 100, 1))
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("expired rule", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		rule := fixedRule("OLD", 10)
		rule.ExpiresAt = &past
		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{"OLD": rule}})

		_, err := v.Validate(context.Background(), "OLD", cartWithSubtotal(t, 100, 1))
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("rule without expiry never expires", func(t *testing.T) {
		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{"EVERGREEN": fixedRule("EVERGREEN", 10)}})
		_, err := v.Validate(context.Background(), "EVERGREEN", cartWithSubtotal(t, 100, 1))
		assert.NoError(t, err)
	})

	t.Run("same code already applied", func(t *testing.T) {
		c := cartWithSubtotal(t, 100, 2)
		c.ApplyCoupon(Coupon{Code: "SAVE20", Kind: CouponKindFixed, DiscountAmount: valueobject.NewMoneyARSFromFloat(20)})

		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{"SAVE20": fixedRule("SAVE20", 20)}})
		_, err := v.Validate(context.Background(), " save20 ", c)
		assert.ErrorIs(t, err, ErrCouponAlreadyApplied)
	})

	t.Run("different code replaces the applied one", func(t *testing.T) {
		c := cartWithSubtotal(t, 100, 2)
		c.ApplyCoupon(Coupon{Code: "FIRST", Kind: CouponKindFixed, DiscountAmount: valueobject.NewMoneyARSFromFloat(10)})

		v := NewCouponValidator(&stubRegistry{rules: map[string]*Rule{"SECOND": fixedRule("SECOND", 30)}})
		coupon, err := v.Validate(context.Background(), "SECOND", c)
		require.NoError(t, err)
		assert.Equal(t, "SECOND", coupon.Code)
	})

	t.Run("lookup exceeding the deadline fails closed", func(t *testing.T) {
		v := NewCouponValidator(&slowRegistry{delay: 200 * time.Millisecond, rule: fixedRule("SLOW", 10)})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		c := cartWithSubtotal(t, 100, 1)
		_, err := v.Validate(ctx, "SLOW", c)
		assert.ErrorIs(t, err, ErrCouponValidationTimeout)
		assert.Nil(t, c.Coupon, "a timed-out validation must not touch the cart")
	})

	t.Run("registry failure surfaces as-is", func(t *testing.T) {
		boom := shared.NewDomainError("REGISTRY_DOWN", "registry unavailable")
		v := NewCouponValidator(&stubRegistry{err: boom})
		_, err := v.Validate(context.Background(), "ANY", cartWithSubtotal(t, 100, 1))
		assert.ErrorIs(t, err, boom)
	})
}

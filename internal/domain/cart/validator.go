package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// CouponRegistry resolves coupon codes to rules. The registry data itself
// (the catalog of code → rule) lives outside this core; implementations
// are adapters over whatever holds it
type CouponRegistry interface {
	// Lookup resolves a normalized code to its rule. Returns
	// shared.ErrNotFound when no matching code exists
	Lookup(ctx context.Context, code string) (*Rule, error)
}

// NormalizeCode trims and case-folds a coupon code before lookup
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponValidator checks a code against the registry and the current cart
// and resolves the discount it grants. Validation never mutates the cart;
// applying the returned coupon is the store's decision
type CouponValidator struct {
	registry CouponRegistry
	now      func() time.Time
}

// NewCouponValidator creates a validator over the given registry
func NewCouponValidator(registry CouponRegistry) *CouponValidator {
	return &CouponValidator{
		registry: registry,
		now:      time.Now,
	}
}

// Validate normalizes the code, resolves it through the registry and
// computes the discount against the cart's current subtotal. Percentage
// rules are resolved to an absolute amount here, capped at the subtotal.
// A lookup that exceeds the caller's deadline fails closed with
// ErrCouponValidationTimeout
func (v *CouponValidator) Validate(ctx context.Context, code string, c *Cart) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrCouponNotFound
	}
	if c.Coupon != nil && c.Coupon.Code == code {
		return nil, ErrCouponAlreadyApplied
	}

	rule, err := v.registry.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrCouponValidationTimeout
		}
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	now := v.now()
	if rule.Expired(now) {
		return nil, ErrCouponExpired
	}

	return &Coupon{
		Code:           code,
		Kind:           rule.Kind,
		DiscountAmount: rule.DiscountFor(c.Subtotal),
		AppliedAt:      now,
	}, nil
}

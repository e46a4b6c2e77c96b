package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CouponKind discriminates how a coupon rule expresses its discount
type CouponKind string

const (
	// CouponKindFixed grants a flat amount off the subtotal
	CouponKindFixed CouponKind = "fixed"
	// CouponKindPercent grants a percentage of the subtotal, resolved to an
	// absolute amount at apply time
	CouponKindPercent CouponKind = "percent"
)

// IsValid checks if the kind is a known CouponKind
func (k CouponKind) IsValid() bool {
	switch k {
	case CouponKindFixed, CouponKindPercent:
		return true
	}
	return false
}

// String returns the string representation of CouponKind
func (k CouponKind) String() string {
	return string(k)
}

// Coupon is the validated discount applied to a cart. At most one coupon is
// active; DiscountAmount is resolved against the subtotal at apply time and
// capped so it never exceeds it
type Coupon struct {
	Code           string
	Kind           CouponKind
	DiscountAmount valueobject.Money
	AppliedAt      time.Time
}

func (c *Coupon) clone() *Coupon {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Rule is a coupon definition resolved from the external registry:
// the code, how the discount is expressed, and the validity window
type Rule struct {
	Code      string
	Kind      CouponKind
	Value     decimal.Decimal
	ExpiresAt *time.Time
}

// Expired reports whether the rule is past its validity window at the
// given instant. Rules without an expiry never expire
func (r Rule) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// DiscountFor resolves the rule against a subtotal, capping the result so
// the discount never exceeds what is being discounted
func (r Rule) DiscountFor(subtotal valueobject.Money) valueobject.Money {
	var discount valueobject.Money
	switch r.Kind {
	case CouponKindPercent:
		discount = subtotal.CalculatePercentage(r.Value)
	default:
		discount = valueobject.NewMoneyARS(r.Value)
	}
	capped, err := discount.Min(subtotal)
	if err != nil {
		return valueobject.ZeroARS()
	}
	if capped.IsNegative() {
		return valueobject.ZeroARS()
	}
	return capped
}

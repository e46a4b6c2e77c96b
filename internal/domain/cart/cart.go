package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// PricingRules bundles the policies a cart prices itself with. The tariff
// and fee rule are injected so rule changes never require touching cart
// logic; MaxUnits bounds the total unit count
type PricingRules struct {
	Shipping strategy.ShippingTariff
	Fee      strategy.CustomizationFeeRule
	MaxUnits int
}

// Cart is the aggregate root owning the ordered line list, the active
// coupon (at most one) and the derived totals. Totals are recalculated
// synchronously after every mutation, never stored independently of the
// lines that produced them
type Cart struct {
	shared.BaseAggregateRoot
	SessionID string
	Lines     []Line
	Coupon    *Coupon

	// Derived, recomputed by recalculate after every mutation
	Subtotal       valueobject.Money
	DiscountAmount valueobject.Money
	ShippingPrice  valueobject.Money
	TotalPrice     valueobject.Money

	rules PricingRules
}

// Backup is a point-in-time copy of cart contents, returned by Clear so a
// caller-level undo can put everything back in one step
type Backup struct {
	Lines  []Line
	Coupon *Coupon
}

// NewCart creates an empty cart for a browsing session
func NewCart(sessionID string, rules PricingRules) (*Cart, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if rules.Shipping == nil || rules.Fee == nil {
		return nil, shared.NewDomainError("INVALID_RULES", "Pricing rules are incomplete")
	}
	if rules.MaxUnits < 1 {
		return nil, shared.NewDomainError("INVALID_RULES", "Max units must be at least 1")
	}

	c := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Lines:             make([]Line, 0),
		rules:             rules,
	}
	c.recalculate()
	return c, nil
}

// Rehydrate rebuilds a cart from persisted lines and coupon. Stored
// customization fees are kept as-is; derived totals are recomputed from
// scratch, never trusted from storage
func Rehydrate(sessionID string, lines []Line, coupon *Coupon, rules PricingRules) (*Cart, error) {
	c, err := NewCart(sessionID, rules)
	if err != nil {
		return nil, err
	}
	c.Lines = append(c.Lines, lines...)
	c.Coupon = coupon.clone()
	c.recalculate()
	return c, nil
}

// UnitCount returns the sum of quantities across all lines
func (c *Cart) UnitCount() int {
	count := 0
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineCount returns the number of distinct lines
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// FindLine returns the line with the given ID, or nil
func (c *Cart) FindLine(lineID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// MaxUnits returns the configured unit-count ceiling
func (c *Cart) MaxUnits() int {
	return c.rules.MaxUnits
}

// AddLine adds the product to the cart. If a line with the same
// (product, size, personalization) identity already exists its quantity is
// incremented; otherwise a new line is created with its customization fee
// frozen. Rejects without mutating when the resulting unit count would
// exceed the maximum
func (c *Cart) AddLine(in NewLineInput) (*Line, error) {
	line, err := newLine(in, c.rules.Fee)
	if err != nil {
		return nil, err
	}
	if c.UnitCount()+line.Quantity > c.rules.MaxUnits {
		return nil, ErrCapacityExceeded
	}

	existing := c.FindLine(line.ID)
	if existing != nil {
		existing.Quantity += line.Quantity
		existing.UpdatedAt = time.Now()
		line = existing
	} else {
		c.Lines = append(c.Lines, *line)
		line = &c.Lines[len(c.Lines)-1]
	}

	c.touch()
	c.AddDomainEvent(NewLineAddedEvent(c, line))
	return line, nil
}

// UpdateLineQuantity sets the quantity of an existing line. A quantity
// below 1 removes the line. Rejects without mutating when the new total
// unit count would exceed the maximum
func (c *Cart) UpdateLineQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		c.RemoveLine(lineID)
		return nil
	}

	line := c.FindLine(lineID)
	if line == nil {
		return ErrLineNotFound
	}
	if c.UnitCount()-line.Quantity+quantity > c.rules.MaxUnits {
		return ErrCapacityExceeded
	}

	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	c.touch()
	c.AddDomainEvent(NewLineQuantityChangedEvent(c, line))
	return nil
}

// RemoveLine deletes the line if present; removing an absent line is a
// no-op, not an error
func (c *Cart) RemoveLine(lineID string) {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			removed := c.Lines[i].clone()
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			c.AddDomainEvent(NewLineRemovedEvent(c, &removed))
			return
		}
	}
}

// Clear empties the lines and removes any coupon, returning a copy of the
// prior contents so the caller can offer an undo
func (c *Cart) Clear() *Backup {
	backup := &Backup{
		Lines:  c.copyLines(),
		Coupon: c.Coupon.clone(),
	}
	c.Lines = c.Lines[:0]
	c.Coupon = nil
	c.touch()
	c.AddDomainEvent(NewClearedEvent(c))
	return backup
}

// Restore replaces the cart contents with a backup previously returned by
// Clear. The unit-count maximum still applies
func (c *Cart) Restore(b *Backup) error {
	if b == nil {
		return shared.ErrInvalidInput
	}
	count := 0
	for i := range b.Lines {
		count += b.Lines[i].Quantity
	}
	if count > c.rules.MaxUnits {
		return ErrCapacityExceeded
	}

	c.Lines = append(c.Lines[:0], b.Lines...)
	c.Coupon = b.Coupon.clone()
	c.touch()
	c.AddDomainEvent(NewRestoredEvent(c))
	return nil
}

// ApplyCoupon sets the validated coupon, replacing any existing one.
// Validation against the registry happens in the coupon validator; by the
// time this is called the discount amount is already resolved and capped
func (c *Cart) ApplyCoupon(coupon Coupon) {
	c.Coupon = &coupon
	c.touch()
	c.AddDomainEvent(NewCouponAppliedEvent(c, &coupon))
}

// RemoveCoupon drops the active coupon. Unconditional, always succeeds
func (c *Cart) RemoveCoupon() {
	if c.Coupon == nil {
		return
	}
	removed := c.Coupon.clone()
	c.Coupon = nil
	c.touch()
	c.AddDomainEvent(NewCouponRemovedEvent(c, removed))
}

// touch recalculates totals and bumps the update timestamp. Every mutation
// path goes through here before returning
func (c *Cart) touch() {
	c.recalculate()
	c.UpdatedAt = time.Now()
}

// recalculate derives subtotal, discount, shipping and total from the
// current lines and coupon:
//
//	subtotal = Σ (basePrice + customizationFee) × quantity
//	discount = min(coupon amount, subtotal)
//	shipping = tariff(unit count)
//	total    = subtotal − discount + shipping
func (c *Cart) recalculate() {
	subtotal := valueobject.ZeroARS()
	for i := range c.Lines {
		subtotal = subtotal.MustAdd(c.Lines[i].Amount())
	}

	discount := valueobject.ZeroARS()
	if c.Coupon != nil {
		capped, err := c.Coupon.DiscountAmount.Min(subtotal)
		if err == nil && capped.IsPositive() {
			discount = capped
		}
	}

	c.Subtotal = subtotal
	c.DiscountAmount = discount
	c.ShippingPrice = c.rules.Shipping.Price(c.UnitCount())
	c.TotalPrice = subtotal.MustSubtract(discount).MustAdd(c.ShippingPrice)
}

// Clone returns a deep copy safe to hand to asynchronous persistence.
// Pending domain events stay with the original
func (c *Cart) Clone() *Cart {
	cp := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         c.SessionID,
		Lines:             c.copyLines(),
		Coupon:            c.Coupon.clone(),
		Subtotal:          c.Subtotal,
		DiscountAmount:    c.DiscountAmount,
		ShippingPrice:     c.ShippingPrice,
		TotalPrice:        c.TotalPrice,
		rules:             c.rules,
	}
	cp.ID = c.ID
	cp.CreatedAt = c.CreatedAt
	cp.UpdatedAt = c.UpdatedAt
	return cp
}

func (c *Cart) copyLines() []Line {
	lines := make([]Line, 0, len(c.Lines))
	for i := range c.Lines {
		lines = append(lines, c.Lines[i].clone())
	}
	return lines
}

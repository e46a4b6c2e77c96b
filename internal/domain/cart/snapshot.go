package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CustomerInfo is the contact data captured at checkout. The core copies
// it into the snapshot; payment submission is external
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// ShippingAddress is the delivery address captured at checkout. Postal
// lookups are external; the core treats it as resolved data
type ShippingAddress struct {
	Street     string
	City       string
	Province   string
	PostalCode string
}

// OrderSnapshot is the immutable order payload frozen at the moment
// checkout is submitted. Lines and totals are copied by value; later cart
// mutations never affect an existing snapshot
type OrderSnapshot struct {
	OrderNumber     string
	SessionID       string
	Items           []Line
	CouponCode      string
	Subtotal        valueobject.Money
	DiscountAmount  valueobject.Money
	ShippingPrice   valueobject.Money
	TotalPrice      valueobject.Money
	CustomerInfo    CustomerInfo
	ShippingAddress ShippingAddress
	PreferenceID    string
	CreatedAt       time.Time
}

// BuildSnapshot freezes the cart into an order payload. Fails with
// ErrEmptyCart when there are no lines; otherwise every line and the four
// derived totals are deep-copied at the moment of the call
func BuildSnapshot(c *Cart, orderNumber string, info CustomerInfo, addr ShippingAddress) (*OrderSnapshot, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	couponCode := ""
	if c.Coupon != nil {
		couponCode = c.Coupon.Code
	}

	return &OrderSnapshot{
		OrderNumber:     orderNumber,
		SessionID:       c.SessionID,
		Items:           c.copyLines(),
		CouponCode:      couponCode,
		Subtotal:        c.Subtotal,
		DiscountAmount:  c.DiscountAmount,
		ShippingPrice:   c.ShippingPrice,
		TotalPrice:      c.TotalPrice,
		CustomerInfo:    info,
		ShippingAddress: addr,
		CreatedAt:       time.Now(),
	}, nil
}

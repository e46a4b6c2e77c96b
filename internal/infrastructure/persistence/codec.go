package persistence

import (
	"encoding/json"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Wire types for the persisted cart payload. Only raw contents are stored;
// derived totals are recomputed on load and never persisted

type storedPersonalization struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

type storedLine struct {
	ID               string                 `json:"id"`
	ProductID        string                 `json:"productId"`
	ProductSlug      string                 `json:"productSlug,omitempty"`
	Title            string                 `json:"title"`
	Image            string                 `json:"image,omitempty"`
	Team             string                 `json:"team,omitempty"`
	BasePrice        float64                `json:"basePrice"`
	Size             string                 `json:"size"`
	Quantity         int                    `json:"quantity"`
	Customization    *storedPersonalization `json:"customization,omitempty"`
	CustomizationFee float64                `json:"customizationFee"`
}

type storedCoupon struct {
	Code           string    `json:"code"`
	Kind           string    `json:"kind"`
	DiscountAmount float64   `json:"discountAmount"`
	AppliedAt      time.Time `json:"appliedAt"`
}

type storedCart struct {
	Items  []storedLine  `json:"items"`
	Coupon *storedCoupon `json:"coupon,omitempty"`
}

type storedCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type storedAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

type storedOrder struct {
	OrderNumber     string         `json:"orderNumber"`
	SessionID       string         `json:"sessionId"`
	Items           []storedLine   `json:"items"`
	CouponCode      string         `json:"couponCode,omitempty"`
	Subtotal        float64        `json:"subtotal"`
	DiscountAmount  float64        `json:"discountAmount"`
	ShippingPrice   float64        `json:"shippingPrice"`
	TotalPrice      float64        `json:"totalPrice"`
	Customer        storedCustomer `json:"customer"`
	ShippingAddress storedAddress  `json:"shippingAddress"`
	PreferenceID    string         `json:"preferenceId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// encodeCart serializes the cart's raw contents
func encodeCart(c *cart.Cart) ([]byte, error) {
	payload := storedCart{Items: make([]storedLine, 0, len(c.Lines))}
	for i := range c.Lines {
		payload.Items = append(payload.Items, encodeLine(&c.Lines[i]))
	}
	if c.Coupon != nil {
		payload.Coupon = &storedCoupon{
			Code:           c.Coupon.Code,
			Kind:           c.Coupon.Kind.String(),
			DiscountAmount: c.Coupon.DiscountAmount.Float64(),
			AppliedAt:      c.Coupon.AppliedAt,
		}
	}
	return json.Marshal(payload)
}

// decodeCart parses a stored payload into lines and coupon. The caller
// rehydrates the aggregate, which recomputes the derived totals
func decodeCart(payload []byte) ([]cart.Line, *cart.Coupon, error) {
	var stored storedCart
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, nil, cart.ErrPersistenceCorrupt
	}

	lines := make([]cart.Line, 0, len(stored.Items))
	for _, item := range stored.Items {
		if item.ProductID == "" || item.Size == "" || item.Quantity < 1 {
			return nil, nil, cart.ErrPersistenceCorrupt
		}
		lines = append(lines, decodeLine(item))
	}

	var coupon *cart.Coupon
	if stored.Coupon != nil {
		kind := cart.CouponKind(stored.Coupon.Kind)
		if !kind.IsValid() {
			return nil, nil, cart.ErrPersistenceCorrupt
		}
		coupon = &cart.Coupon{
			Code:           stored.Coupon.Code,
			Kind:           kind,
			DiscountAmount: valueobject.NewMoneyARSFromFloat(stored.Coupon.DiscountAmount),
			AppliedAt:      stored.Coupon.AppliedAt,
		}
	}
	return lines, coupon, nil
}

// encodeOrder serializes an order snapshot for the one-shot slot
func encodeOrder(snap *cart.OrderSnapshot) ([]byte, error) {
	items := make([]storedLine, 0, len(snap.Items))
	for i := range snap.Items {
		items = append(items, encodeLine(&snap.Items[i]))
	}
	return json.Marshal(storedOrder{
		OrderNumber:    snap.OrderNumber,
		SessionID:      snap.SessionID,
		Items:          items,
		CouponCode:     snap.CouponCode,
		Subtotal:       snap.Subtotal.Float64(),
		DiscountAmount: snap.DiscountAmount.Float64(),
		ShippingPrice:  snap.ShippingPrice.Float64(),
		TotalPrice:     snap.TotalPrice.Float64(),
		Customer: storedCustomer{
			Name:  snap.CustomerInfo.Name,
			Email: snap.CustomerInfo.Email,
			Phone: snap.CustomerInfo.Phone,
		},
		ShippingAddress: storedAddress{
			Street:     snap.ShippingAddress.Street,
			City:       snap.ShippingAddress.City,
			Province:   snap.ShippingAddress.Province,
			PostalCode: snap.ShippingAddress.PostalCode,
		},
		PreferenceID: snap.PreferenceID,
		CreatedAt:    snap.CreatedAt,
	})
}

// decodeOrder parses a stored order snapshot
func decodeOrder(payload []byte) (*cart.OrderSnapshot, error) {
	var stored storedOrder
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, cart.ErrPersistenceCorrupt
	}

	items := make([]cart.Line, 0, len(stored.Items))
	for _, item := range stored.Items {
		items = append(items, decodeLine(item))
	}
	return &cart.OrderSnapshot{
		OrderNumber:    stored.OrderNumber,
		SessionID:      stored.SessionID,
		Items:          items,
		CouponCode:     stored.CouponCode,
		Subtotal:       valueobject.NewMoneyARSFromFloat(stored.Subtotal),
		DiscountAmount: valueobject.NewMoneyARSFromFloat(stored.DiscountAmount),
		ShippingPrice:  valueobject.NewMoneyARSFromFloat(stored.ShippingPrice),
		TotalPrice:     valueobject.NewMoneyARSFromFloat(stored.TotalPrice),
		CustomerInfo: cart.CustomerInfo{
			Name:  stored.Customer.Name,
			Email: stored.Customer.Email,
			Phone: stored.Customer.Phone,
		},
		ShippingAddress: cart.ShippingAddress{
			Street:     stored.ShippingAddress.Street,
			City:       stored.ShippingAddress.City,
			Province:   stored.ShippingAddress.Province,
			PostalCode: stored.ShippingAddress.PostalCode,
		},
		PreferenceID: stored.PreferenceID,
		CreatedAt:    stored.CreatedAt,
	}, nil
}

func encodeLine(l *cart.Line) storedLine {
	stored := storedLine{
		ID:               l.ID,
		ProductID:        l.ProductID,
		ProductSlug:      l.ProductSlug,
		Title:            l.Title,
		Image:            l.Image,
		Team:             l.Team,
		BasePrice:        l.BasePrice.Float64(),
		Size:             l.Size,
		Quantity:         l.Quantity,
		CustomizationFee: l.CustomizationFee.Float64(),
	}
	if l.Customization != nil {
		stored.Customization = &storedPersonalization{
			Name:   l.Customization.Name,
			Number: l.Customization.Number,
		}
	}
	return stored
}

func decodeLine(item storedLine) cart.Line {
	var customization *strategy.Personalization
	if item.Customization != nil {
		customization = &strategy.Personalization{
			Name:   item.Customization.Name,
			Number: item.Customization.Number,
		}
	}
	return cart.Line{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductSlug:      item.ProductSlug,
		Title:            item.Title,
		Image:            item.Image,
		Team:             item.Team,
		BasePrice:        valueobject.NewMoneyARSFromFloat(item.BasePrice),
		Size:             item.Size,
		Quantity:         item.Quantity,
		Customization:    customization,
		CustomizationFee: valueobject.NewMoneyARSFromFloat(item.CustomizationFee),
	}
}

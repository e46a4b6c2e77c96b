package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// ==================== Requests ====================

// PersonalizationInput carries the optional shirt personalization
type PersonalizationInput struct {
	Name   string `json:"name" binding:"max=20"`
	Number string `json:"number" binding:"omitempty,shirtnumber,max=3"`
}

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID     string                `json:"productId" binding:"required,min=1,max=64"`
	ProductSlug   string                `json:"productSlug" binding:"max=128"`
	Title         string                `json:"title" binding:"required,min=1,max=200"`
	Image         string                `json:"image" binding:"max=512"`
	Team          string                `json:"team" binding:"max=100"`
	BasePrice     float64               `json:"basePrice" binding:"gte=0"`
	Size          string                `json:"size" binding:"required,min=1,max=8"`
	Quantity      int                   `json:"quantity" binding:"omitempty,min=1"`
	Customization *PersonalizationInput `json:"customization"`
}

// UpdateQuantityRequest represents a quantity change for a cart line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ApplyCouponRequest represents a coupon application attempt
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,min=1,max=64"`
}

// CheckoutRequest represents an order placement
type CheckoutRequest struct {
	Customer CustomerInput `json:"customer" binding:"required"`
	Address  AddressInput  `json:"address" binding:"required"`
}

// CustomerInput carries checkout contact data
type CustomerInput struct {
	Name  string `json:"name" binding:"required,min=1,max=128"`
	Email string `json:"email" binding:"required,email,max=128"`
	Phone string `json:"phone" binding:"max=32"`
}

// AddressInput carries the delivery address
type AddressInput struct {
	Street     string `json:"street" binding:"required,min=1,max=256"`
	City       string `json:"city" binding:"required,min=1,max=128"`
	Province   string `json:"province" binding:"max=128"`
	PostalCode string `json:"postalCode" binding:"max=16"`
}

// ==================== Responses ====================

// LineView is a cart line as exposed to clients
type LineView struct {
	ID               string                `json:"id"`
	ProductID        string                `json:"productId"`
	ProductSlug      string                `json:"productSlug,omitempty"`
	Title            string                `json:"title"`
	Image            string                `json:"image,omitempty"`
	Team             string                `json:"team,omitempty"`
	BasePrice        float64               `json:"basePrice"`
	Size             string                `json:"size"`
	Quantity         int                   `json:"quantity"`
	Customization    *PersonalizationInput `json:"customization,omitempty"`
	CustomizationFee float64               `json:"customizationFee"`
	UnitPrice        float64               `json:"unitPrice"`
	Amount           float64               `json:"amount"`
}

// CouponView is the active coupon as exposed to clients
type CouponView struct {
	Code           string  `json:"code"`
	Kind           string  `json:"kind"`
	DiscountAmount float64 `json:"discountAmount"`
}

// CartView is the full cart state returned by every cart operation
type CartView struct {
	SessionID        string      `json:"sessionId"`
	Items            []LineView  `json:"items"`
	Coupon           *CouponView `json:"coupon,omitempty"`
	CouponValidating bool        `json:"couponValidating"`
	UnitCount        int         `json:"unitCount"`
	Subtotal         float64     `json:"subtotal"`
	DiscountAmount   float64     `json:"discountAmount"`
	ShippingPrice    float64     `json:"shippingPrice"`
	TotalPrice       float64     `json:"totalPrice"`
}

// OrderView is a placed order as exposed to clients
type OrderView struct {
	OrderNumber    string        `json:"orderNumber"`
	Items          []LineView    `json:"items"`
	CouponCode     string        `json:"couponCode,omitempty"`
	Subtotal       float64       `json:"subtotal"`
	DiscountAmount float64       `json:"discountAmount"`
	ShippingPrice  float64       `json:"shippingPrice"`
	TotalPrice     float64       `json:"totalPrice"`
	Customer       CustomerInput `json:"customer"`
	Address        AddressInput  `json:"address"`
	PreferenceID   string        `json:"preferenceId,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// ==================== Mapping ====================

// ToCartView maps the aggregate to its client representation
func ToCartView(c *cart.Cart) *CartView {
	items := make([]LineView, 0, len(c.Lines))
	for i := range c.Lines {
		items = append(items, toLineView(&c.Lines[i]))
	}

	view := &CartView{
		SessionID:      c.SessionID,
		Items:          items,
		UnitCount:      c.UnitCount(),
		Subtotal:       c.Subtotal.Float64(),
		DiscountAmount: c.DiscountAmount.Float64(),
		ShippingPrice:  c.ShippingPrice.Float64(),
		TotalPrice:     c.TotalPrice.Float64(),
	}
	if c.Coupon != nil {
		view.Coupon = &CouponView{
			Code:           c.Coupon.Code,
			Kind:           c.Coupon.Kind.String(),
			DiscountAmount: c.Coupon.DiscountAmount.Float64(),
		}
	}
	return view
}

// ToOrderView maps an order snapshot to its client representation
func ToOrderView(snap *cart.OrderSnapshot) *OrderView {
	items := make([]LineView, 0, len(snap.Items))
	for i := range snap.Items {
		items = append(items, toLineView(&snap.Items[i]))
	}
	return &OrderView{
		OrderNumber:    snap.OrderNumber,
		Items:          items,
		CouponCode:     snap.CouponCode,
		Subtotal:       snap.Subtotal.Float64(),
		DiscountAmount: snap.DiscountAmount.Float64(),
		ShippingPrice:  snap.ShippingPrice.Float64(),
		TotalPrice:     snap.TotalPrice.Float64(),
		Customer: CustomerInput{
			Name:  snap.CustomerInfo.Name,
			Email: snap.CustomerInfo.Email,
			Phone: snap.CustomerInfo.Phone,
		},
		Address: AddressInput{
			Street:     snap.ShippingAddress.Street,
			City:       snap.ShippingAddress.City,
			Province:   snap.ShippingAddress.Province,
			PostalCode: snap.ShippingAddress.PostalCode,
		},
		PreferenceID: snap.PreferenceID,
		CreatedAt:    snap.CreatedAt,
	}
}

func toLineView(l *cart.Line) LineView {
	view := LineView{
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
		UnitPrice:        l.UnitPrice().Float64(),
		Amount:           l.Amount().Float64(),
	}
	if l.Customization != nil {
		view.Customization = &PersonalizationInput{
			Name:   l.Customization.Name,
			Number: l.Customization.Number,
		}
	}
	return view
}

func toPersonalization(in *PersonalizationInput) *strategy.Personalization {
	if in == nil {
		return nil
	}
	return &strategy.Personalization{Name: in.Name, Number: in.Number}
}

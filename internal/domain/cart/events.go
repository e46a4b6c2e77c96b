package cart

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// Event type constants
const (
	EventTypeLineAdded           = "CartLineAdded"
	EventTypeLineQuantityChanged = "CartLineQuantityChanged"
	EventTypeLineRemoved         = "CartLineRemoved"
	EventTypeCleared             = "CartCleared"
	EventTypeRestored            = "CartRestored"
	EventTypeCouponApplied       = "CartCouponApplied"
	EventTypeCouponRemoved       = "CartCouponRemoved"
	EventTypeOrderPlaced         = "OrderPlaced"
)

// LineInfo carries line data on cart events
type LineInfo struct {
	LineID    string  `json:"line_id"`
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func lineInfo(l *Line) LineInfo {
	return LineInfo{
		LineID:    l.ID,
		ProductID: l.ProductID,
		Title:     l.Title,
		Size:      l.Size,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice().Float64(),
	}
}

// TotalsInfo carries the derived totals at the moment an event was raised
type TotalsInfo struct {
	UnitCount      int     `json:"unit_count"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	ShippingPrice  float64 `json:"shipping_price"`
	TotalPrice     float64 `json:"total_price"`
}

func totalsInfo(c *Cart) TotalsInfo {
	return TotalsInfo{
		UnitCount:      c.UnitCount(),
		Subtotal:       c.Subtotal.Float64(),
		DiscountAmount: c.DiscountAmount.Float64(),
		ShippingPrice:  c.ShippingPrice.Float64(),
		TotalPrice:     c.TotalPrice.Float64(),
	}
}

// LineAddedEvent is raised when a line is created or its quantity is
// incremented by adding the same combination again
type LineAddedEvent struct {
	shared.BaseDomainEvent
	Line   LineInfo   `json:"line"`
	Totals TotalsInfo `json:"totals"`
}

// NewLineAddedEvent creates a new LineAddedEvent
func NewLineAddedEvent(c *Cart, l *Line) *LineAddedEvent {
	return &LineAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineAdded, AggregateTypeCart, c.ID, c.SessionID),
		Line:            lineInfo(l),
		Totals:          totalsInfo(c),
	}
}

// EventType returns the event type name
func (e *LineAddedEvent) EventType() string { return EventTypeLineAdded }

// LineQuantityChangedEvent is raised when an existing line's quantity is set
type LineQuantityChangedEvent struct {
	shared.BaseDomainEvent
	Line   LineInfo   `json:"line"`
	Totals TotalsInfo `json:"totals"`
}

// NewLineQuantityChangedEvent creates a new LineQuantityChangedEvent
func NewLineQuantityChangedEvent(c *Cart, l *Line) *LineQuantityChangedEvent {
	return &LineQuantityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineQuantityChanged, AggregateTypeCart, c.ID, c.SessionID),
		Line:            lineInfo(l),
		Totals:          totalsInfo(c),
	}
}

// EventType returns the event type name
func (e *LineQuantityChangedEvent) EventType() string { return EventTypeLineQuantityChanged }

// LineRemovedEvent is raised when a line is deleted, including the
// quantity-to-zero path
type LineRemovedEvent struct {
	shared.BaseDomainEvent
	Line   LineInfo   `json:"line"`
	Totals TotalsInfo `json:"totals"`
}

// NewLineRemovedEvent creates a new LineRemovedEvent
func NewLineRemovedEvent(c *Cart, l *Line) *LineRemovedEvent {
	return &LineRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLineRemoved, AggregateTypeCart, c.ID, c.SessionID),
		Line:            lineInfo(l),
		Totals:          totalsInfo(c),
	}
}

// EventType returns the event type name
func (e *LineRemovedEvent) EventType() string { return EventTypeLineRemoved }

// ClearedEvent is raised when the cart is emptied
type ClearedEvent struct {
	shared.BaseDomainEvent
}

// NewClearedEvent creates a new ClearedEvent
func NewClearedEvent(c *Cart) *ClearedEvent {
	return &ClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCleared, AggregateTypeCart, c.ID, c.SessionID),
	}
}

// EventType returns the event type name
func (e *ClearedEvent) EventType() string { return EventTypeCleared }

// RestoredEvent is raised when cart contents are restored from a backup
type RestoredEvent struct {
	shared.BaseDomainEvent
	Totals TotalsInfo `json:"totals"`
}

// NewRestoredEvent creates a new RestoredEvent
func NewRestoredEvent(c *Cart) *RestoredEvent {
	return &RestoredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestored, AggregateTypeCart, c.ID, c.SessionID),
		Totals:          totalsInfo(c),
	}
}

// EventType returns the event type name
func (e *RestoredEvent) EventType() string { return EventTypeRestored }

// CouponAppliedEvent is raised when a validated coupon is set on the cart
type CouponAppliedEvent struct {
	shared.BaseDomainEvent
	Code           string     `json:"code"`
	DiscountAmount float64    `json:"discount_amount"`
	Totals         TotalsInfo `json:"totals"`
}

// NewCouponAppliedEvent creates a new CouponAppliedEvent
func NewCouponAppliedEvent(c *Cart, coupon *Coupon) *CouponAppliedEvent {
	return &CouponAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponApplied, AggregateTypeCart, c.ID, c.SessionID),
		Code:            coupon.Code,
		DiscountAmount:  coupon.DiscountAmount.Float64(),
		Totals:          totalsInfo(c),
	}
}

// EventType returns the event type name
func (e *CouponAppliedEvent) EventType() string { return EventTypeCouponApplied }

// CouponRemovedEvent is raised when the active coupon is dropped
type CouponRemovedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewCouponRemovedEvent creates a new CouponRemovedEvent
func NewCouponRemovedEvent(c *Cart, coupon *Coupon) *CouponRemovedEvent {
	return &CouponRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCouponRemoved, AggregateTypeCart, c.ID, c.SessionID),
		Code:            coupon.Code,
	}
}

// EventType returns the event type name
func (e *CouponRemovedEvent) EventType() string { return EventTypeCouponRemoved }

// OrderPlacedEvent is raised when a checkout snapshot is successfully built
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CouponCode  string    `json:"coupon_code,omitempty"`
	ItemCount   int       `json:"item_count"`
	TotalPrice  float64   `json:"total_price"`
	PlacedAt    time.Time `json:"placed_at"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent from a checkout snapshot
func NewOrderPlacedEvent(c *Cart, snap *OrderSnapshot) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeCart, c.ID, c.SessionID),
		OrderNumber:     snap.OrderNumber,
		CouponCode:      snap.CouponCode,
		ItemCount:       len(snap.Items),
		TotalPrice:      snap.TotalPrice.Float64(),
		PlacedAt:        snap.CreatedAt,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string { return EventTypeOrderPlaced }

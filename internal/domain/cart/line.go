package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Line represents one row in the cart: a product/size/personalization
// combination and its quantity
type Line struct {
	ID               string
	ProductID        string
	ProductSlug      string
	Title            string
	Image            string
	Team             string
	BasePrice        valueobject.Money
	Size             string
	Quantity         int
	Customization    *strategy.Personalization
	CustomizationFee valueobject.Money
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineID derives the deterministic line identity from the product, size and
// personalization. Adding the same combination again increments quantity on
// the existing line instead of creating a duplicate
func LineID(productID, size string, p *strategy.Personalization) string {
	key := productID + "\x00" + size
	if p != nil && !p.IsZero() {
		key += "\x00" + p.Name + "\x00" + p.Number
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:12])
}

// NewLineInput carries the already-resolved catalog data for a new line.
// Display fields are copied at add-time and never re-fetched
type NewLineInput struct {
	ProductID     string
	ProductSlug   string
	Title         string
	Image         string
	Team          string
	BasePrice     valueobject.Money
	Size          string
	Quantity      int
	Customization *strategy.Personalization
}

// newLine validates the input and creates a line with its fee frozen.
// The fee rule is evaluated exactly once here
func newLine(in NewLineInput, feeRule strategy.CustomizationFeeRule) (*Line, error) {
	if in.ProductID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if in.Title == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_TITLE", "Product title cannot be empty")
	}
	if in.Size == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size cannot be empty")
	}
	if in.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if in.BasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	customization := in.Customization
	if customization != nil && customization.IsZero() {
		customization = nil
	}

	now := time.Now()
	return &Line{
		ID:               LineID(in.ProductID, in.Size, customization),
		ProductID:        in.ProductID,
		ProductSlug:      in.ProductSlug,
		Title:            in.Title,
		Image:            in.Image,
		Team:             in.Team,
		BasePrice:        in.BasePrice,
		Size:             in.Size,
		Quantity:         in.Quantity,
		Customization:    customization,
		CustomizationFee: feeRule.Fee(customization),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UnitPrice returns the effective per-unit price including the frozen
// customization fee
func (l *Line) UnitPrice() valueobject.Money {
	return l.BasePrice.MustAdd(l.CustomizationFee)
}

// Amount returns UnitPrice × Quantity
func (l *Line) Amount() valueobject.Money {
	return l.UnitPrice().MultiplyByInt(int64(l.Quantity))
}

// IsCustomized returns true if the line carries a personalization
func (l *Line) IsCustomized() bool {
	return l.Customization != nil && !l.Customization.IsZero()
}

// clone returns a deep copy of the line
func (l *Line) clone() Line {
	c := *l
	if l.Customization != nil {
		p := *l.Customization
		c.Customization = &p
	}
	return c
}

package strategy

import (
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ShippingTariff computes the shipping price for a cart
// The unit count is the sum of all line quantities, not the number of
// distinct lines
type ShippingTariff interface {
	Strategy
	// Price returns the shipping cost for the given total unit count
	Price(unitCount int) valueobject.Money
}

package fee

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// FixedFeeRule charges a flat per-unit surcharge for any personalized line,
// regardless of which personalization fields are set
type FixedFeeRule struct {
	strategy.BaseStrategy
	amount valueobject.Money
}

// NewFixedFeeRule creates a rule charging the given amount per personalized
// unit
func NewFixedFeeRule(amount decimal.Decimal) *FixedFeeRule {
	return &FixedFeeRule{
		BaseStrategy: strategy.NewBaseStrategy(
			"fixed_fee",
			strategy.StrategyTypeFee,
			"Flat per-unit surcharge for personalized lines",
		),
		amount: valueobject.NewMoneyARS(amount),
	}
}

// Fee returns the surcharge for the given personalization. Lines without
// personalization, or with all fields blank, carry no fee
func (r *FixedFeeRule) Fee(p *strategy.Personalization) valueobject.Money {
	if p == nil || p.IsZero() {
		return valueobject.ZeroARS()
	}
	return r.amount
}

// DefaultFixedFeeRule creates the storefront's standard customization fee
func DefaultFixedFeeRule() *FixedFeeRule {
	return NewFixedFeeRule(decimal.NewFromInt(20))
}

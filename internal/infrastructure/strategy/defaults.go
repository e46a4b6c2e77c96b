package strategy

import (
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/infrastructure/strategy/fee"
	"github.com/storefront/backend/internal/infrastructure/strategy/shipping"
)

// NewRegistryWithDefaults creates a registry with the storefront's standard
// strategies registered and set as defaults
func NewRegistryWithDefaults() (*StrategyRegistry, error) {
	return NewRegistry(shipping.DefaultStepTableTariff(), fee.DefaultFixedFeeRule())
}

// NewRegistry creates a registry seeded with the given tariff and fee rule,
// both set as the defaults for their type
func NewRegistry(tariff strategy.ShippingTariff, feeRule strategy.CustomizationFeeRule) (*StrategyRegistry, error) {
	r := NewStrategyRegistry()

	if err := r.RegisterShippingTariff(tariff); err != nil {
		return nil, err
	}
	if err := r.SetDefault(strategy.StrategyTypeShipping, tariff.Name()); err != nil {
		return nil, err
	}

	if err := r.RegisterFeeRule(feeRule); err != nil {
		return nil, err
	}
	if err := r.SetDefault(strategy.StrategyTypeFee, feeRule.Name()); err != nil {
		return nil, err
	}

	return r, nil
}

package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// StrategyRegistry manages pricing strategy registrations. The storefront
// ships one tariff and one fee rule by default, but alternates can be
// registered and selected by name from configuration
type StrategyRegistry struct {
	mu              sync.RWMutex
	shippingTariffs map[string]strategy.ShippingTariff
	feeRules        map[string]strategy.CustomizationFeeRule
	defaults        map[strategy.StrategyType]string
}

// NewStrategyRegistry creates a new strategy registry
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		shippingTariffs: make(map[string]strategy.ShippingTariff),
		feeRules:        make(map[string]strategy.CustomizationFeeRule),
		defaults:        make(map[strategy.StrategyType]string),
	}
}

// RegisterShippingTariff registers a shipping tariff
func (r *StrategyRegistry) RegisterShippingTariff(s strategy.ShippingTariff) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.shippingTariffs[name]; exists {
		return fmt.Errorf("%w: shipping tariff '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.shippingTariffs[name] = s
	return nil
}

// GetShippingTariff returns a shipping tariff by name, or the default if
// name is empty
func (r *StrategyRegistry) GetShippingTariff(name string) (strategy.ShippingTariff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeShipping]
		if name == "" {
			return nil, fmt.Errorf("%w: no default shipping tariff set", shared.ErrNotFound)
		}
	}

	s, exists := r.shippingTariffs[name]
	if !exists {
		return nil, fmt.Errorf("%w: shipping tariff '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// ListShippingTariffs returns all registered shipping tariff names
func (r *StrategyRegistry) ListShippingTariffs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.shippingTariffs))
	for name := range r.shippingTariffs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterFeeRule registers a customization fee rule
func (r *StrategyRegistry) RegisterFeeRule(s strategy.CustomizationFeeRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.feeRules[name]; exists {
		return fmt.Errorf("%w: fee rule '%s' already registered", shared.ErrAlreadyExists, name)
	}
	r.feeRules[name] = s
	return nil
}

// GetFeeRule returns a fee rule by name, or the default if name is empty
func (r *StrategyRegistry) GetFeeRule(name string) (strategy.CustomizationFeeRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		name = r.defaults[strategy.StrategyTypeFee]
		if name == "" {
			return nil, fmt.Errorf("%w: no default fee rule set", shared.ErrNotFound)
		}
	}

	s, exists := r.feeRules[name]
	if !exists {
		return nil, fmt.Errorf("%w: fee rule '%s' not found", shared.ErrNotFound, name)
	}
	return s, nil
}

// ListFeeRules returns all registered fee rule names
func (r *StrategyRegistry) ListFeeRules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.feeRules))
	for name := range r.feeRules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetDefault sets the default strategy for a type. The strategy must be
// registered first
func (r *StrategyRegistry) SetDefault(strategyType strategy.StrategyType, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch strategyType {
	case strategy.StrategyTypeShipping:
		if _, exists := r.shippingTariffs[name]; !exists {
			return fmt.Errorf("%w: shipping tariff '%s' not found", shared.ErrNotFound, name)
		}
	case strategy.StrategyTypeFee:
		if _, exists := r.feeRules[name]; !exists {
			return fmt.Errorf("%w: fee rule '%s' not found", shared.ErrNotFound, name)
		}
	default:
		return fmt.Errorf("%w: unknown strategy type '%s'", shared.ErrInvalidInput, strategyType)
	}

	r.defaults[strategyType] = name
	return nil
}

// GetDefault returns the default strategy name for a type
func (r *StrategyRegistry) GetDefault(strategyType strategy.StrategyType) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults[strategyType]
}

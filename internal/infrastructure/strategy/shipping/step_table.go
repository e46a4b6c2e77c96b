package shipping

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Step represents a single tariff step: the price charged once the cart
// holds at least MinUnits units
type Step struct {
	MinUnits int             `json:"min_units"`
	Price    decimal.Decimal `json:"price"`
}

// StepTableTariff implements unit-count based shipping pricing. The price
// depends only on the total number of units, never on weight, destination
// or line composition
type StepTableTariff struct {
	strategy.BaseStrategy
	steps []Step
}

// NewStepTableTariff creates a tariff from the given steps
// Steps may be provided in any order - they are sorted by min units ascending
func NewStepTableTariff(steps []Step) *StepTableTariff {
	sortedSteps := make([]Step, len(steps))
	copy(sortedSteps, steps)
	sort.Slice(sortedSteps, func(i, j int) bool {
		return sortedSteps[i].MinUnits < sortedSteps[j].MinUnits
	})

	return &StepTableTariff{
		BaseStrategy: strategy.NewBaseStrategy(
			"step_table",
			strategy.StrategyTypeShipping,
			"Shipping priced from the cart unit count via a step table",
		),
		steps: sortedSteps,
	}
}

// Steps returns a copy of the tariff steps
func (s *StepTableTariff) Steps() []Step {
	result := make([]Step, len(s.steps))
	copy(result, s.steps)
	return result
}

// Price returns the shipping cost for the given unit count
// It finds the highest step whose MinUnits is <= the unit count; an empty
// cart and counts below the first step ship free
func (s *StepTableTariff) Price(unitCount int) valueobject.Money {
	if unitCount <= 0 {
		return valueobject.ZeroARS()
	}

	// Steps are sorted ascending, iterate from the end
	for i := len(s.steps) - 1; i >= 0; i-- {
		if unitCount >= s.steps[i].MinUnits {
			return valueobject.NewMoneyARS(s.steps[i].Price)
		}
	}
	return valueobject.ZeroARS()
}

// DefaultStepTableTariff creates the storefront's standard tariff:
// single-unit orders pay the full rate, the rate drops per extra unit, and
// orders of four or more units ship free
func DefaultStepTableTariff() *StepTableTariff {
	return NewStepTableTariff([]Step{
		{MinUnits: 1, Price: decimal.NewFromInt(25)},
		{MinUnits: 2, Price: decimal.NewFromInt(20)},
		{MinUnits: 3, Price: decimal.NewFromInt(15)},
		{MinUnits: 4, Price: decimal.Zero},
	})
}

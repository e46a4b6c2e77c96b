package strategy

import (
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Personalization carries the optional per-line personalization fields
// passed to a fee rule
type Personalization struct {
	Name   string
	Number string
}

// IsZero returns true when no personalization field is set
func (p Personalization) IsZero() bool {
	return p.Name == "" && p.Number == ""
}

// CustomizationFeeRule computes the per-unit surcharge for a personalized
// cart line. The fee is evaluated once when the line is created and frozen
// on the line; later rule changes never reprice existing lines
type CustomizationFeeRule interface {
	Strategy
	// Fee returns the per-unit surcharge for the given personalization
	Fee(p *Personalization) valueobject.Money
}

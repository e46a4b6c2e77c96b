package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRecord is the database model for a coupon rule
type CouponRecord struct {
	Code      string          `gorm:"primaryKey;size:64"`
	Kind      string          `gorm:"size:16;not null"`
	Value     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for CouponRecord
func (CouponRecord) TableName() string {
	return "coupons"
}

// GormCouponRegistry implements cart.CouponRegistry using GORM
type GormCouponRegistry struct {
	db *gorm.DB
}

// NewGormCouponRegistry creates a new GormCouponRegistry
func NewGormCouponRegistry(db *gorm.DB) *GormCouponRegistry {
	return &GormCouponRegistry{db: db}
}

// Lookup resolves a normalized code to its rule
func (r *GormCouponRegistry) Lookup(ctx context.Context, code string) (*cart.Rule, error) {
	var record CouponRecord
	if err := r.db.WithContext(ctx).
		First(&record, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up coupon %s: %w", code, err)
	}

	kind := cart.CouponKind(record.Kind)
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_COUPON_RULE", "Stored coupon rule has an unknown kind")
	}

	return &cart.Rule{
		Code:      record.Code,
		Kind:      kind,
		Value:     record.Value,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Seed upserts coupon rules, used at startup to load the configured
// promotional codes
func (r *GormCouponRegistry) Seed(ctx context.Context, rules []cart.Rule) error {
	for _, rule := range rules {
		record := CouponRecord{
			Code:      cart.NormalizeCode(rule.Code),
			Kind:      rule.Kind.String(),
			Value:     rule.Value,
			ExpiresAt: rule.ExpiresAt,
		}
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"kind", "value", "expires_at", "updated_at"}),
			}).
			Create(&record).Error; err != nil {
			return fmt.Errorf("failed to seed coupon %s: %w", rule.Code, err)
		}
	}
	return nil
}

var _ cart.CouponRegistry = (*GormCouponRegistry)(nil)

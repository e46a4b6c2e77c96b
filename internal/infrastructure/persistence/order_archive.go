package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"gorm.io/gorm"
)

// OrderRecord is the database model for an archived order snapshot. The
// item list is stored as the same JSON payload the one-shot slot carries
type OrderRecord struct {
	OrderNumber    string    `gorm:"primaryKey;size:64"`
	SessionID      string    `gorm:"size:64;index;not null"`
	Items          string    `gorm:"type:text;not null"`
	CouponCode     string    `gorm:"size:64"`
	Subtotal       float64   `gorm:"not null"`
	DiscountAmount float64   `gorm:"not null"`
	ShippingPrice  float64   `gorm:"not null"`
	TotalPrice     float64   `gorm:"not null"`
	CustomerName   string    `gorm:"size:128"`
	CustomerEmail  string    `gorm:"size:128"`
	CustomerPhone  string    `gorm:"size:32"`
	Street         string    `gorm:"size:256"`
	City           string    `gorm:"size:128"`
	Province       string    `gorm:"size:128"`
	PostalCode     string    `gorm:"size:16"`
	PreferenceID   string    `gorm:"size:128"`
	PlacedAt       time.Time `gorm:"index;not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for OrderRecord
func (OrderRecord) TableName() string {
	return "orders"
}

// GormOrderArchive implements cart.SnapshotArchive using GORM
type GormOrderArchive struct {
	db *gorm.DB
}

// NewGormOrderArchive creates a new GormOrderArchive
func NewGormOrderArchive(db *gorm.DB) *GormOrderArchive {
	return &GormOrderArchive{db: db}
}

// Archive appends a placed order. Archiving the same order number twice is
// an error; order numbers are unique per placement
func (a *GormOrderArchive) Archive(ctx context.Context, snap *cart.OrderSnapshot) error {
	items := make([]storedLine, 0, len(snap.Items))
	for i := range snap.Items {
		items = append(items, encodeLine(&snap.Items[i]))
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	record := OrderRecord{
		OrderNumber:    snap.OrderNumber,
		SessionID:      snap.SessionID,
		Items:          string(itemsJSON),
		CouponCode:     snap.CouponCode,
		Subtotal:       snap.Subtotal.Float64(),
		DiscountAmount: snap.DiscountAmount.Float64(),
		ShippingPrice:  snap.ShippingPrice.Float64(),
		TotalPrice:     snap.TotalPrice.Float64(),
		CustomerName:   snap.CustomerInfo.Name,
		CustomerEmail:  snap.CustomerInfo.Email,
		CustomerPhone:  snap.CustomerInfo.Phone,
		Street:         snap.ShippingAddress.Street,
		City:           snap.ShippingAddress.City,
		Province:       snap.ShippingAddress.Province,
		PostalCode:     snap.ShippingAddress.PostalCode,
		PreferenceID:   snap.PreferenceID,
		PlacedAt:       snap.CreatedAt,
	}

	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to archive order %s: %w", snap.OrderNumber, err)
	}
	return nil
}

var _ cart.SnapshotArchive = (*GormOrderArchive)(nil)

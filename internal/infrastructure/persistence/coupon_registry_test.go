package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&CouponRecord{}, &OrderRecord{}))
	return db
}

func TestGormCouponRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("lookup returns the seeded rule", func(t *testing.T) {
		registry := NewGormCouponRegistry(testDB(t))
		expires := time.Now().Add(24 * time.Hour)
		require.NoError(t, registry.Seed(ctx, []cart.Rule{
			{Code: "SAVE20", Kind: cart.CouponKindFixed, Value: decimal.NewFromInt(20)},
			{Code: "TEN", Kind: cart.CouponKindPercent, Value: decimal.NewFromInt(10), ExpiresAt: &expires},
		}))

		rule, err := registry.Lookup(ctx, "SAVE20")
		require.NoError(t, err)
		assert.Equal(t, cart.CouponKindFixed, rule.Kind)
		assert.True(t, rule.Value.Equal(decimal.NewFromInt(20)))
		assert.Nil(t, rule.ExpiresAt)

		rule, err = registry.Lookup(ctx, "TEN")
		require.NoError(t, err)
		assert.Equal(t, cart.CouponKindPercent, rule.Kind)
		require.NotNil(t, rule.ExpiresAt)
	})

	t.Run("unknown code maps to not found", func(t *testing.T) {
		registry := NewGormCouponRegistry(testDB(t))
		_, err := registry.Lookup(ctx, "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("seed normalizes and upserts", func(t *testing.T) {
		registry := NewGormCouponRegistry(testDB(t))
		require.NoError(t, registry.Seed(ctx, []cart.Rule{
			{Code: " save20 ", Kind: cart.CouponKindFixed, Value: decimal.NewFromInt(20)},
		}))
		require.NoError(t, registry.Seed(ctx, []cart.Rule{
			{Code: "SAVE20", Kind: cart.CouponKindFixed, Value: decimal.NewFromInt(30)},
		}))

		rule, err := registry.Lookup(ctx, "SAVE20")
		require.NoError(t, err)
		assert.True(t, rule.Value.Equal(decimal.NewFromInt(30)))
	})
}

func TestGormOrderArchive(t *testing.T) {
	db := testDB(t)
	archive := NewGormOrderArchive(db)
	ctx := context.Background()

	c := buildCart(t, "sess-1")
	snap, err := cart.BuildSnapshot(c, "ORD-555",
		cart.CustomerInfo{Name: "Ada Gomez", Email: "ada@example.com", Phone: "+54 11 5555-0001"},
		cart.ShippingAddress{Street: "Av. Corrientes 1234", City: "Buenos Aires", Province: "CABA", PostalCode: "C1043"},
	)
	require.NoError(t, err)

	require.NoError(t, archive.Archive(ctx, snap))

	var record OrderRecord
	require.NoError(t, db.First(&record, "order_number = ?", "ORD-555").Error)
	assert.Equal(t, "sess-1", record.SessionID)
	assert.Equal(t, "Ada Gomez", record.CustomerName)
	assert.InDelta(t, snap.TotalPrice.Float64(), record.TotalPrice, 0.001)
	assert.Contains(t, record.Items, `"productId":"p1"`)

	// Order numbers are unique per placement
	assert.Error(t, archive.Archive(ctx, snap))
}

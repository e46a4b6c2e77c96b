package cart

import "github.com/storefront/backend/internal/domain/shared"

// Cart and coupon domain errors
var (
	// ErrCapacityExceeded is returned when a mutation would push the total
	// unit count above the configured maximum; the cart is left unchanged
	ErrCapacityExceeded = shared.NewDomainError("CAPACITY_EXCEEDED", "Cart unit limit reached")

	// ErrLineNotFound is returned when a quantity update targets a line
	// that is not in the cart
	ErrLineNotFound = shared.NewDomainError("LINE_NOT_FOUND", "Cart line not found")

	// ErrEmptyCart is returned when checkout is attempted with zero lines
	ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cannot check out an empty cart")

	// ErrCouponNotFound is returned when no coupon matches the given code
	ErrCouponNotFound = shared.NewDomainError("COUPON_NOT_FOUND", "Coupon code not found")

	// ErrCouponExpired is returned when the coupon is past its validity window
	ErrCouponExpired = shared.NewDomainError("COUPON_EXPIRED", "Coupon code has expired")

	// ErrCouponAlreadyApplied is returned when the same code is already active
	ErrCouponAlreadyApplied = shared.NewDomainError("COUPON_ALREADY_APPLIED", "Coupon is already applied")

	// ErrCouponValidationTimeout is returned when the registry lookup did not
	// complete in time; validation fails closed and the cart is unchanged
	ErrCouponValidationTimeout = shared.NewDomainError("COUPON_VALIDATION_TIMEOUT", "Coupon validation timed out")

	// ErrCouponValidationPending is returned when a second coupon application
	// is attempted while one is still being validated
	ErrCouponValidationPending = shared.NewDomainError("COUPON_VALIDATION_PENDING", "A coupon validation is already in progress")

	// ErrPersistenceCorrupt marks an unreadable persisted cart payload.
	// It is recovered internally by resetting to an empty cart and is never
	// surfaced to callers
	ErrPersistenceCorrupt = shared.NewDomainError("PERSISTENCE_CORRUPT", "Persisted cart payload is unreadable")
)

package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInvalidSession is used when the session header is missing
	ErrCodeInvalidSession = "INVALID_SESSION"
)

// Cart error codes, mirrored from the domain layer
const (
	ErrCodeCapacityExceeded = "CAPACITY_EXCEEDED"
	ErrCodeLineNotFound     = "LINE_NOT_FOUND"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeInvalidInput     = "INVALID_INPUT"
)

// Coupon error codes
const (
	ErrCodeCouponNotFound          = "COUPON_NOT_FOUND"
	ErrCodeCouponExpired           = "COUPON_EXPIRED"
	ErrCodeCouponAlreadyApplied    = "COUPON_ALREADY_APPLIED"
	ErrCodeCouponValidationTimeout = "COUPON_VALIDATION_TIMEOUT"
	ErrCodeCouponValidationPending = "COUPON_VALIDATION_PENDING"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeInvalidSession: http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,

	// Cart rule violations -> 422 Unprocessable Entity
	ErrCodeCapacityExceeded: http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:        http.StatusUnprocessableEntity,
	ErrCodeLineNotFound:     http.StatusNotFound,

	// Coupon outcomes
	ErrCodeCouponNotFound:          http.StatusNotFound,
	ErrCodeCouponExpired:           http.StatusUnprocessableEntity,
	ErrCodeCouponAlreadyApplied:    http.StatusConflict,
	ErrCodeCouponValidationTimeout: http.StatusGatewayTimeout,
	ErrCodeCouponValidationPending: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

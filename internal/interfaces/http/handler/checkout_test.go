package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutBody() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":  "Diego Fernández",
			"email": "diego@example.com",
		},
		"address": map[string]any{
			"street": "Av. Corrientes 1234",
			"city":   "Buenos Aires",
		},
	}
}

func TestCheckoutHandler_PlaceOrder(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", addItemBody(1))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/checkout", "session-1", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Contains(t, data["orderNumber"], "ORD-")
	assert.InDelta(t, 114.90, data["totalPrice"], 0.001)
	require.Len(t, s.archive.snaps, 1)

	// the cart is empty after checkout
	w = s.do(t, http.MethodGet, "/api/v1/cart", "session-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeData(t, w)["items"])
}

func TestCheckoutHandler_PlaceOrder_EmptyCart(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/checkout", "session-1", checkoutBody())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "EMPTY_CART", errorCode(t, w))
}

func TestCheckoutHandler_PlaceOrder_MissingCustomer(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", addItemBody(1))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/checkout", "session-1", map[string]any{
		"address": map[string]any{"street": "Av. Corrientes 1234", "city": "Buenos Aires"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_LastOrder_ReadOnce(t *testing.T) {
	s := newTestStack(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", addItemBody(1))
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/checkout", "session-1", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code)
	orderNumber := decodeData(t, w)["orderNumber"]

	w = s.do(t, http.MethodGet, "/api/v1/orders/last", "session-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, orderNumber, decodeData(t, w)["orderNumber"])

	// the confirmation slot is consumed by the first read
	w = s.do(t, http.MethodGet, "/api/v1/orders/last", "session-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

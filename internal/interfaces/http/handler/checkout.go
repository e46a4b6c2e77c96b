package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CheckoutHandler handles checkout and order confirmation endpoints
type CheckoutHandler struct {
	BaseHandler
	service *cartapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *cartapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.PlaceOrder)
	rg.GET("/orders/last", h.LastOrder)
}

// PlaceOrder freezes the cart into an order and empties it
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req cartapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.PlaceOrder(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// LastOrder returns the most recently placed order exactly once. The
// confirmation screen reads it after the checkout redirect; a refresh
// gets a 404
func (h *CheckoutHandler) LastOrder(c *gin.Context) {
	order, err := h.service.LastOrder(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

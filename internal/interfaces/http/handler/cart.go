package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles cart API endpoints
type CartHandler struct {
	BaseHandler
	service *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *cartapp.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	{
		carts.GET("", h.Get)
		carts.DELETE("", h.Clear)
		carts.POST("/restore", h.Restore)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:id", h.UpdateItemQuantity)
		carts.DELETE("/items/:id", h.RemoveItem)
		carts.POST("/coupon", h.ApplyCoupon)
		carts.DELETE("/coupon", h.RemoveCoupon)
	}
}

// Get returns the session's cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.AddItem(c.Request.Context(), getSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// UpdateItemQuantity changes the quantity of a cart line
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	var req cartapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.UpdateItemQuantity(c.Request.Context(), getSessionID(c), c.Param("id"), req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem deletes a cart line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.service.RemoveItem(c.Request.Context(), getSessionID(c), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear empties the cart, keeping a one-step undo backup
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.service.Clear(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Restore puts back the contents removed by the last clear
func (h *CartHandler) Restore(c *gin.Context) {
	view, err := h.service.Restore(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ApplyCoupon validates and applies a coupon code
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req cartapp.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.service.ApplyCoupon(c.Request.Context(), getSessionID(c), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveCoupon drops the active coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	view, err := h.service.RemoveCoupon(c.Request.Context(), getSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

package handler

import (
	"github.com/buzzcafe/billing-api/internal/application/service"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/request"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles the per-user draft cart HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles fetching the current cart
func (h *CartHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	cart := h.cartService.GetCart(c.Request.Context(), *userID)
	response.OK(c, "Cart retrieved successfully", cart)
}

// AddItem handles adding a menu item to the cart. Adding the same item
// again bumps its quantity instead of creating a second line.
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		response.BadRequest(c, "Invalid menu item ID")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), *userID, menuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", cart)
}

// IncreaseQty handles bumping a cart line's quantity
func (h *CartHandler) IncreaseQty(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	menuItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.IncreaseQty(c.Request.Context(), *userID, menuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity increased", cart)
}

// DecreaseQty handles lowering a cart line's quantity. Reaching zero
// removes the line.
func (h *CartHandler) DecreaseQty(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	menuItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.DecreaseQty(c.Request.Context(), *userID, menuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity decreased", cart)
}

// RemoveItem handles removing a cart line regardless of quantity
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	menuItemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), *userID, menuItemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed from cart", cart)
}

// Clear handles discarding the whole cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	h.cartService.ClearCart(c.Request.Context(), *userID)
	response.NoContent(c)
}

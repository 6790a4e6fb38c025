package request

// AddCartItemRequest represents a request to add a menu item to the cart
type AddCartItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required,uuid"`
}

package request

// UpdateSettingsRequest represents a shop settings update request
type UpdateSettingsRequest struct {
	ShopName      string `json:"shop_name" binding:"required,min=1,max=255"`
	Address       string `json:"address" binding:"omitempty,max=500"`
	Phone         string `json:"phone" binding:"omitempty,max=50"`
	Currency      string `json:"currency" binding:"omitempty,max=10"`
	FooterMessage string `json:"footer_message" binding:"omitempty,max=255"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopSettings is the singleton shop profile printed on receipts and
// analytics exports. Exactly one row exists; it is seeded at startup.
type ShopSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ShopName      string `gorm:"size:255;not null;default:'Buzz Cafe'" json:"shop_name"`
	Address       string `gorm:"type:text" json:"address"`
	Phone         string `gorm:"size:50" json:"phone"`
	Currency      string `gorm:"size:10;default:'Rs'" json:"currency"`
	FooterMessage string `gorm:"size:255;default:'Thank you! Visit Again'" json:"footer_message"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *ShopSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ShopSettings model
func (ShopSettings) TableName() string {
	return "shop_settings"
}

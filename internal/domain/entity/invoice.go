package entity

import (
	"encoding/json"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents a finalized bill. Invoices are write-once: they are
// created in a single transaction with their items and never updated.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNo     string             `gorm:"size:100;unique;not null" json:"invoice_no"`
	CustomerName  string             `gorm:"size:255;not null" json:"customer_name"`
	InvoiceType   enum.InvoiceType   `gorm:"default:0" json:"invoice_type"`
	TableNumber   string             `gorm:"size:50" json:"table_number"`
	PaymentMethod enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	Total         int64              `gorm:"not null;default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User  User          `gorm:"foreignKey:UserID" json:"-"`
	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(i),
		Total: i.GetTotalDecimal(),
	})
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// GetTotalDecimal returns the stored total as a decimal
func (i *Invoice) GetTotalDecimal() float64 {
	return float64(i.Total) / 100
}

// InvoiceItem is a snapshot of a menu item at sale time. Name and price are
// copied from the menu so later menu edits leave the invoice intact.
type InvoiceItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	MenuItemID uuid.UUID      `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Price      int64          `gorm:"not null" json:"-"` // Unit price in cents, excluded from JSON
	Qty        int            `gorm:"not null" json:"qty"`
	Total      int64          `gorm:"not null" json:"-"` // Line total in cents, excluded from JSON
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ii InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
		Total float64 `json:"total"`
	}{
		Alias: Alias(ii),
		Price: float64(ii.Price) / 100,
		Total: float64(ii.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (ii *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if ii.ID == uuid.Nil {
		ii.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

package repository

import (
	"context"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations.
// Invoices are write-once: Create persists an invoice together with its
// items in a single transaction, and there are no update operations.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *InvoiceCursorFilterParams) ([]entity.Invoice, error)
	// ListAllWithItems returns every invoice with items preloaded, newest
	// first, optionally bounded by an inclusive creation-date range. Used by
	// the analytics pipeline, which aggregates in memory.
	ListAllWithItems(ctx context.Context, startDate, endDate *time.Time) ([]entity.Invoice, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches customer name or table number
	StartDate  *time.Time
	EndDate    *time.Time
}

// InvoiceCursorFilterParams contains cursor-based filtering for invoice queries
type InvoiceCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

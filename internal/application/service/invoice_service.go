package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/enum"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	infraRepo "github.com/buzzcafe/billing-api/internal/infrastructure/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
	"github.com/buzzcafe/billing-api/pkg/pagination"
	"github.com/buzzcafe/billing-api/pkg/utils"
	"github.com/google/uuid"
)

// feedSnapshotSize caps how many invoices a live snapshot carries
const feedSnapshotSize = 100

// InvoiceService handles invoice creation and querying
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.SettingsRepository
	cartStore    *CartStore
	feed         *InvoiceFeed
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
	cartStore *CartStore,
	feed *InvoiceFeed,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		cartStore:    cartStore,
		feed:         feed,
	}
}

// SaveInvoiceInput represents the save invoice input. The items come from
// the user's in-memory cart, never from the request body.
type SaveInvoiceInput struct {
	UserID        uuid.UUID
	CustomerName  string
	InvoiceType   enum.InvoiceType
	TableNumber   string
	PaymentMethod enum.PaymentMethod
}

// SaveInvoice validates the draft, persists the invoice with its item
// snapshots in one transaction, and clears the cart afterwards. Validation
// runs entirely before any store write; a failed write leaves the cart
// untouched so the user can retry.
func (s *InvoiceService) SaveInvoice(ctx context.Context, input *SaveInvoiceInput) (*entity.Invoice, error) {
	cart := s.cartStore.Snapshot(input.UserID)

	if err := validateInvoiceDraft(input, cart); err != nil {
		return nil, err
	}

	tableNumber := strings.TrimSpace(input.TableNumber)
	if input.InvoiceType == enum.InvoiceTypeTakeaway {
		// Takeaway never carries a table, even if one was typed earlier
		tableNumber = ""
	}

	// The total is recomputed from the snapshot lines; a client-supplied
	// total is never trusted.
	items := make([]entity.InvoiceItem, 0, len(cart.Lines))
	var total int64
	for _, line := range cart.Lines {
		lineTotal := line.LineTotal()
		total += lineTotal
		items = append(items, entity.InvoiceItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Qty:        line.Qty,
			Total:      lineTotal,
		})
	}

	invoice := &entity.Invoice{
		UserID:        input.UserID,
		InvoiceNo:     utils.GenerateInvoiceNo(),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		InvoiceType:   input.InvoiceType,
		TableNumber:   tableNumber,
		PaymentMethod: input.PaymentMethod,
		Total:         total,
		Items:         items,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	// Only a confirmed write clears the draft
	s.cartStore.Clear(input.UserID)
	s.publishSnapshot(ctx, input.UserID)

	return invoice, nil
}

// validateInvoiceDraft enforces the save gate: a customer name, a table
// number for dine-in orders, and at least one line.
func validateInvoiceDraft(input *SaveInvoiceInput, cart *Cart) error {
	var fieldErrors []apperror.FieldError

	if strings.TrimSpace(input.CustomerName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "customer_name", Message: "Customer name is required",
		})
	}
	if !input.InvoiceType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "invoice_type", Message: "Invoice type must be Dine In or Takeaway",
		})
	}
	if !input.PaymentMethod.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "payment_method", Message: "Payment method must be Cash or Online",
		})
	}
	if input.InvoiceType == enum.InvoiceTypeDineIn && strings.TrimSpace(input.TableNumber) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "table_number", Message: "Table number is required for dine-in invoices",
		})
	}
	if cart.IsEmpty() {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "items", Message: "At least one item is required",
		})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// GetInvoice retrieves one of the user's invoices with its items
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	ctx = infraRepo.WithUser(ctx, userID)
	invoice, err := s.invoiceRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists the user's invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	invoices, total, err := s.invoiceRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// ListInvoicesWithCursor lists the user's invoices with keyset pagination
func (s *InvoiceService) ListInvoicesWithCursor(ctx context.Context, userID uuid.UUID, params *repository.InvoiceCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Invoice], error) {
	invoices, err := s.invoiceRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(invoices, params.Cursor.Limit,
		func(i entity.Invoice) string { return i.ID.String() },
		func(i entity.Invoice) time.Time { return i.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// Subscribe returns a live snapshot channel for the user's invoice list
// plus a cancel function that must always be called. An initial snapshot
// is published immediately so new subscribers never start empty-handed.
func (s *InvoiceService) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan []entity.Invoice, func()) {
	ch, cancel := s.feed.Subscribe(userID)
	s.publishSnapshot(ctx, userID)
	return ch, cancel
}

// BuildReceipt composes a printable receipt for an invoice. Line totals
// are qty x unit price; the grand total is the invoice's stored total.
func (s *InvoiceService) BuildReceipt(ctx context.Context, userID, invoiceID uuid.UUID) (*entity.Receipt, error) {
	invoice, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.ShopSettings{ShopName: "Buzz Cafe"}
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: settings.ShopName,
			Address:  settings.Address,
			Phone:    settings.Phone,
		},
		InvoiceNo:     invoice.InvoiceNo,
		Date:          invoice.CreatedAt.Format("02 Jan 2006 15:04"),
		Customer:      invoice.CustomerName,
		InvoiceType:   invoice.InvoiceType.String(),
		TableNumber:   invoice.TableNumber,
		PaymentMethod: invoice.PaymentMethod.String(),
		Total:         invoice.GetTotalDecimal(),
		Currency:      settings.Currency,
		FooterMessage: settings.FooterMessage,
	}

	for _, item := range invoice.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Qty,
			UnitPrice: float64(item.Price) / 100,
			Total:     float64(item.Total) / 100,
		})
	}

	return receipt, nil
}

// publishSnapshot pushes the user's current invoice list to the feed
func (s *InvoiceService) publishSnapshot(ctx context.Context, userID uuid.UUID) {
	if s.feed == nil || s.feed.SubscriberCount(userID) == 0 {
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: feedSnapshotSize},
	}
	invoices, _, err := s.invoiceRepo.List(ctx, userID, params)
	if err != nil {
		log.Printf("invoice feed: failed to build snapshot for user %s: %v", userID, err)
		return
	}
	s.feed.Publish(userID, invoices)
}

// InvoiceLocation returns the API path of an invoice's detail resource
func InvoiceLocation(id uuid.UUID) string {
	return fmt.Sprintf("/api/v1/invoices/%s", id)
}

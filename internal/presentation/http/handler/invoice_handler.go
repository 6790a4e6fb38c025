package handler

import (
	"io"
	"time"

	"github.com/buzzcafe/billing-api/internal/application/service"
	"github.com/buzzcafe/billing-api/internal/domain/enum"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/request"
	"github.com/buzzcafe/billing-api/internal/presentation/http/dto/response"
	"github.com/buzzcafe/billing-api/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	printerService *service.PrinterService
	exportService  *service.ExportService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService *service.InvoiceService,
	printerService *service.PrinterService,
	exportService *service.ExportService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		printerService: printerService,
		exportService:  exportService,
	}
}

// Save handles saving the current cart as an invoice. With "print": true
// the receipt is also sent to the thermal printer after the save.
func (h *InvoiceHandler) Save(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	// Unknown enum strings fall through as invalid values so the save
	// gate reports them as field errors alongside the other checks
	invoiceType, err := enum.ParseInvoiceType(req.InvoiceType)
	if err != nil {
		invoiceType = enum.InvoiceType(-1)
	}
	paymentMethod, err := enum.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		paymentMethod = enum.PaymentMethod(-1)
	}

	invoice, err := h.invoiceService.SaveInvoice(c.Request.Context(), &service.SaveInvoiceInput{
		UserID:        *userID,
		CustomerName:  req.CustomerName,
		InvoiceType:   invoiceType,
		TableNumber:   req.TableNumber,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	printed := false
	if req.Print {
		if _, err := h.printerService.PrintInvoiceReceipt(c.Request.Context(), *userID, invoice.ID); err == nil {
			printed = true
		}
	}

	c.Header("Location", service.InvoiceLocation(invoice.ID))
	response.Created(c, "Invoice saved successfully", gin.H{
		"invoice": invoice,
		"printed": printed,
	})
}

// List handles listing invoices (supports both page-based and cursor-based pagination)
func (h *InvoiceHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	startDate, err := parseDateParam(filter.StartDate, false)
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	endDate, err := parseDateParam(filter.EndDate, true)
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	if filter.Cursor != "" || filter.Limit > 0 {
		h.listWithCursor(c, *userID, &filter, startDate, endDate)
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		StartDate: startDate,
		EndDate:   endDate,
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// listWithCursor handles listing invoices with keyset pagination
func (h *InvoiceHandler) listWithCursor(c *gin.Context, userID uuid.UUID, filter *request.InvoiceFilterRequest, startDate, endDate *time.Time) {
	limit := 15
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	direction := c.DefaultQuery("direction", "next")

	params := &repository.InvoiceCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    filter.Cursor,
			Direction: pagination.CursorDirection(direction),
			Limit:     limit,
		},
		Search:    filter.Search,
		StartDate: startDate,
		EndDate:   endDate,
	}

	result, err := h.invoiceService.ListInvoicesWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Invoices retrieved successfully", result)
}

// Get handles getting a single invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Stream pushes live invoice-list snapshots to the client over SSE. Each
// event carries the full current list, so a reconnecting client is always
// consistent after a single event.
func (h *InvoiceHandler) Stream(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	ch, cancel := h.invoiceService.Subscribe(c.Request.Context(), *userID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case invoices, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("invoices", invoices)
			return true
		}
	})
}

// GetPDF renders the invoice's receipt as a downloadable PDF
func (h *InvoiceHandler) GetPDF(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	receipt, err := h.invoiceService.BuildReceipt(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.exportService.RenderReceiptPDF(receipt)
	if err != nil {
		response.InternalServerError(c, "Failed to render receipt PDF")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ReceiptPDFFilename(receipt.InvoiceNo)+`"`)
	c.Data(200, "application/pdf", data)
}

// Print sends the invoice's receipt to the thermal printer. The formatted
// receipt is returned so clients can render it when no printer is attached.
func (h *InvoiceHandler) Print(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	receipt, err := h.printerService.PrintInvoiceReceipt(c.Request.Context(), *userID, id)
	if err != nil {
		if receipt != nil {
			// Printing failed but the receipt is valid; surface both
			response.OK(c, "Receipt generated, printing failed", gin.H{
				"receipt": receipt,
				"printed": false,
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
		"printed": true,
	})
}

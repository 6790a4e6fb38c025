package request

// SaveInvoiceRequest represents the invoice save request. The items come
// from the server-side cart, not from the request body.
type SaveInvoiceRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	InvoiceType   string `json:"invoice_type" binding:"required"`
	TableNumber   string `json:"table_number"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Print         bool   `json:"print"`
}

// InvoiceFilterRequest represents invoice list filter parameters.
// Page/PerPage drive offset pagination; Cursor/Limit drive keyset
// pagination when a cursor is supplied.
type InvoiceFilterRequest struct {
	Search    string `form:"search"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Cursor    string `form:"cursor"`
	Limit     int    `form:"limit"`
}

// DateRangeRequest represents analytics date range parameters
type DateRangeRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

package entity

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"` // quantity x unit price
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from invoice data at print
// time. Total carries the invoice's stored total, not a recomputation.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	InvoiceNo     string        `json:"invoice_no"`
	Date          string        `json:"date"`
	Customer      string        `json:"customer,omitempty"`
	InvoiceType   string        `json:"invoice_type"`
	TableNumber   string        `json:"table_number,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	Total         float64       `json:"total"`
	Currency      string        `json:"currency,omitempty"`
	FooterMessage string        `json:"footer_message,omitempty"`
}

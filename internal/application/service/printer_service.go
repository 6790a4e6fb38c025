package service

import (
	"context"
	"fmt"
	"log"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/pkg/printer"
	"github.com/google/uuid"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer        printer.Printer
	invoiceService *InvoiceService
	printerType    string
	charWidth      int
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, invoiceService *InvoiceService, printerType string, charWidth int) *PrinterService {
	if charWidth <= 0 {
		charWidth = 32
	}
	return &PrinterService{
		printer:        p,
		invoiceService: invoiceService,
		printerType:    printerType,
		charWidth:      charWidth,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: "PRINTER TEST",
			Address:  "Test Address",
			Phone:    "+91-0000000000",
		},
		InvoiceNo:     "TEST-001",
		Date:          "Test Date",
		Customer:      "Test Customer",
		InvoiceType:   "Dine In",
		TableNumber:   "T1",
		PaymentMethod: "Cash",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		Total:         20.00,
		Currency:      "Rs",
		FooterMessage: "Thank you! Visit Again",
	}

	data := s.FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintInvoiceReceipt composes an invoice's receipt and sends it to the printer.
func (s *PrinterService) PrintInvoiceReceipt(ctx context.Context, userID, invoiceID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.invoiceService.BuildReceipt(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	data := s.FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (invoice %s): %v", invoiceID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.charWidth) // 57mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Invoice info
	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.InvoiceType != "" {
		doc.KeyValue("Type:", r.InvoiceType)
	}
	if r.TableNumber != "" {
		doc.KeyValue("Table:", r.TableNumber)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// The stored invoice total, never recomputed here
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%s %.2f", r.Currency, r.Total)).
		SetBold(false)

	doc.Separator('-')

	// Footer
	footer := r.FooterMessage
	if footer == "" {
		footer = "Thank you! Visit Again"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

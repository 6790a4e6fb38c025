package pdf

import (
	"bytes"
	"testing"
	"time"
)

func assertPDF(t *testing.T, data []byte) {
	t.Helper()
	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF, starts with %q", data[:4])
	}
}

func TestRenderReceipt(t *testing.T) {
	data, err := RenderReceipt(ReceiptData{
		ShopName:      "Buzz Cafe",
		ShopAddress:   "12 Hill Road",
		ShopPhone:     "+91-9876543210",
		InvoiceNo:     "INV-20240101-0001",
		CustomerName:  "Asha",
		InvoiceType:   "Dine In",
		TableNumber:   "T4",
		PaymentMethod: "Cash",
		Date:          "01 Jan 2024 12:30",
		Items: []ReceiptItem{
			{Name: "Masala Dosa", Qty: 2, LineTotal: "300.00"},
			{Name: "Filter Coffee", Qty: 1, LineTotal: "25.00"},
		},
		Total:         "325.00",
		Currency:      "Rs",
		FooterMessage: "Thank you! Visit Again",
	})
	if err != nil {
		t.Fatalf("render receipt: %v", err)
	}
	assertPDF(t, data)
}

func TestRenderReceiptWithManyItems(t *testing.T) {
	items := make([]ReceiptItem, 40)
	for i := range items {
		items[i] = ReceiptItem{Name: "Item", Qty: 1, LineTotal: "10.00"}
	}

	data, err := RenderReceipt(ReceiptData{
		ShopName:  "Buzz Cafe",
		InvoiceNo: "INV-20240101-0002",
		Date:      "01 Jan 2024 13:00",
		Items:     items,
		Total:     "400.00",
	})
	if err != nil {
		t.Fatalf("render receipt: %v", err)
	}
	assertPDF(t, data)
}

func TestRenderAnalyticsReport(t *testing.T) {
	data, err := RenderAnalyticsReport(ReportData{
		ShopName:     "Buzz Cafe",
		PeriodLabel:  "01 Jan 2024 - 31 Jan 2024",
		GeneratedAt:  time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		InvoiceCount: 42,
		TotalSales:   "12345.00",
		Currency:     "Rs",
		SalesByDate: []ReportSalesRow{
			{Date: "2024-01-01", Total: "150.00"},
			{Date: "2024-01-02", Total: "20.00"},
		},
		TopItems: []ReportItemRow{
			{Name: "Tea", Qty: 5},
			{Name: "Coffee", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	assertPDF(t, data)
}

func TestRenderAnalyticsReportEmptyPeriod(t *testing.T) {
	data, err := RenderAnalyticsReport(ReportData{
		ShopName:    "Buzz Cafe",
		GeneratedAt: time.Now(),
		TotalSales:  "0.00",
	})
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	assertPDF(t, data)
}

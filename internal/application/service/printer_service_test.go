package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/pkg/printer"
)

// capturePrinter records the bytes handed to Print for assertions.
type capturePrinter struct {
	data []byte
	err  error
}

func (p *capturePrinter) Print(data []byte) error {
	p.data = data
	return p.err
}

func (p *capturePrinter) Close() error      { return nil }
func (p *capturePrinter) IsConnected() bool { return true }

func sampleReceipt() *entity.Receipt {
	return &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: "Buzz Cafe",
			Address:  "12 Hill Road",
			Phone:    "+91-9876543210",
		},
		InvoiceNo:     "INV-20240101-0001",
		Date:          "01 Jan 2024 12:30",
		Customer:      "Asha",
		InvoiceType:   "Dine In",
		TableNumber:   "T4",
		PaymentMethod: "Cash",
		Items: []entity.ReceiptItem{
			{Name: "Dosa", Quantity: 2, UnitPrice: 150.00, Total: 300.00},
		},
		Total:         300.00,
		Currency:      "Rs",
		FooterMessage: "Thank you! Visit Again",
	}
}

func TestFormatReceiptCarriesStoredTotal(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), nil, "none", 32)

	data := svc.FormatReceipt(sampleReceipt())
	if len(data) == 0 {
		t.Fatal("expected ESC/POS bytes")
	}

	for _, want := range []string{
		"Buzz Cafe",
		"INV-20240101-0001",
		"2x Dosa",
		"@ 150.00 each",
		"TOTAL:",
		"Rs 300.00",
		"Thank you! Visit Again",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("receipt output missing %q", want)
		}
	}
}

func TestFormatReceiptSkipsEmptyFields(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), nil, "none", 32)

	receipt := sampleReceipt()
	receipt.TableNumber = ""
	receipt.FooterMessage = ""

	data := svc.FormatReceipt(receipt)
	if bytes.Contains(data, []byte("Table:")) {
		t.Fatal("takeaway receipt should not print a table line")
	}
	// An empty footer falls back to the default message
	if !bytes.Contains(data, []byte("Thank you! Visit Again")) {
		t.Fatal("expected the default footer message")
	}
}

func TestTestPrintSendsToPrinter(t *testing.T) {
	capture := &capturePrinter{}
	svc := NewPrinterService(capture, nil, "usb", 32)

	receipt, err := svc.TestPrint()
	if err != nil {
		t.Fatalf("test print: %v", err)
	}
	if receipt == nil || receipt.Header.ShopName != "PRINTER TEST" {
		t.Fatalf("unexpected test receipt: %+v", receipt)
	}
	if !bytes.Contains(capture.data, []byte("PRINTER TEST")) {
		t.Fatal("test page was not sent to the printer")
	}
}

func TestTestPrintReturnsReceiptOnPrintFailure(t *testing.T) {
	capture := &capturePrinter{err: errors.New("paper jam")}
	svc := NewPrinterService(capture, nil, "usb", 32)

	receipt, err := svc.TestPrint()
	if err == nil {
		t.Fatal("expected print error")
	}
	if receipt == nil {
		t.Fatal("receipt should still be returned so the caller can show it")
	}
}

func TestGetStatusReflectsConfiguration(t *testing.T) {
	svc := NewPrinterService(printer.NewNullPrinter(), nil, "none", 32)
	status := svc.GetStatus()
	if status.Configured {
		t.Fatal("type none should report not configured")
	}
	if status.Connected {
		t.Fatal("null printer should report not connected")
	}

	svc = NewPrinterService(&capturePrinter{}, nil, "network", 48)
	status = svc.GetStatus()
	if !status.Configured || !status.Connected || status.Type != "network" {
		t.Fatalf("unexpected status: %+v", status)
	}
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	infraRepo "github.com/buzzcafe/billing-api/internal/infrastructure/repository"
	"github.com/xuri/excelize/v2"
)

func setupExportTest(t *testing.T) (*invoiceTestEnv, *ExportService) {
	t.Helper()
	env := setupInvoiceTest(t)
	analytics := NewAnalyticsService(env.invoiceRepo)
	export := NewExportService(analytics, infraRepo.NewSettingsRepository(env.db))
	return env, export
}

func saveTestInvoice(t *testing.T, env *invoiceTestEnv, customer string, items ...int64) {
	t.Helper()
	for _, price := range items {
		env.fillCart(menuItem("Item", price))
	}
	input := validDineInInput(env.userID)
	input.CustomerName = customer
	if _, err := env.svc.SaveInvoice(context.Background(), input); err != nil {
		t.Fatalf("save invoice for %s: %v", customer, err)
	}
}

func TestExportCSV(t *testing.T) {
	env, export := setupExportTest(t)
	saveTestInvoice(t, env, "Asha", 15000)
	saveTestInvoice(t, env, "Ravi", 2500)

	data, err := export.ExportCSV(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Invoice No" || records[0][6] != "Total" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	body := string(data)
	if !strings.Contains(body, "Asha") || !strings.Contains(body, "150.00") {
		t.Fatalf("csv missing invoice data:\n%s", body)
	}
	if !strings.Contains(body, "Ravi") || !strings.Contains(body, "25.00") {
		t.Fatalf("csv missing invoice data:\n%s", body)
	}
}

func TestExportCSVEmptyRange(t *testing.T) {
	_, export := setupExportTest(t)

	data, err := export.ExportCSV(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the header, got %d records", len(records))
	}
}

func TestExportXLSX(t *testing.T) {
	env, export := setupExportTest(t)
	saveTestInvoice(t, env, "Asha", 15000)

	data, err := export.ExportXLSX(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	if err != nil {
		t.Fatalf("read Invoices sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][2] != "Asha" {
		t.Fatalf("unexpected customer cell: %v", rows[1])
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read Summary sheet: %v", err)
	}
	if len(summary) == 0 || summary[0][0] != "Date" {
		t.Fatalf("unexpected summary sheet: %v", summary)
	}
}

func TestExportSummaryPDF(t *testing.T) {
	env, export := setupExportTest(t)
	saveTestInvoice(t, env, "Asha", 15000)

	data, err := export.ExportSummaryPDF(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("summary export is not a PDF")
	}
}

func TestRenderReceiptPDFFromInvoice(t *testing.T) {
	env, export := setupExportTest(t)
	saveTestInvoice(t, env, "Asha", 15000)

	invoices, err := env.invoiceRepo.ListAllWithItems(context.Background(), nil, nil)
	if err != nil || len(invoices) != 1 {
		t.Fatalf("list invoices: %v (%d)", err, len(invoices))
	}

	receipt, err := env.svc.BuildReceipt(context.Background(), env.userID, invoices[0].ID)
	if err != nil {
		t.Fatalf("build receipt: %v", err)
	}

	data, err := export.RenderReceiptPDF(receipt)
	if err != nil {
		t.Fatalf("render receipt pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("receipt export is not a PDF")
	}
}

func TestReceiptPDFCarriesInvoiceDate(t *testing.T) {
	env, _ := setupExportTest(t)
	saveTestInvoice(t, env, "Asha", 15000)

	invoices, err := env.invoiceRepo.ListAllWithItems(context.Background(), nil, nil)
	if err != nil || len(invoices) != 1 {
		t.Fatalf("list invoices: %v (%d)", err, len(invoices))
	}

	receipt, err := env.svc.BuildReceipt(context.Background(), env.userID, invoices[0].ID)
	if err != nil {
		t.Fatalf("build receipt: %v", err)
	}

	want := invoices[0].CreatedAt.Format("02 Jan 2006 15:04")
	if receipt.Date != want {
		t.Fatalf("receipt date = %q, want %q", receipt.Date, want)
	}

	data := receiptPDFData(receipt)
	if data.Date != receipt.Date {
		t.Fatalf("pdf data date = %q, want the invoice date %q", data.Date, receipt.Date)
	}
}

func TestReceiptPDFFilename(t *testing.T) {
	if got := ReceiptPDFFilename("INV-20240101-0001"); got != "invoice-INV-20240101-0001.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
}

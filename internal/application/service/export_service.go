package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	"github.com/buzzcafe/billing-api/pkg/pdf"
	"github.com/xuri/excelize/v2"
)

// Export filenames served via Content-Disposition
const (
	AnalyticsCSVFilename  = "filtered-analytics.csv"
	AnalyticsXLSXFilename = "filtered-analytics.xlsx"
	AnalyticsPDFFilename  = "analytics-summary.pdf"
)

// ReceiptPDFFilename returns the download name for an invoice receipt PDF
func ReceiptPDFFilename(invoiceNo string) string {
	return fmt.Sprintf("invoice-%s.pdf", invoiceNo)
}

// ExportService renders analytics and receipts into downloadable files
type ExportService struct {
	analytics    *AnalyticsService
	settingsRepo repository.SettingsRepository
}

// NewExportService creates a new export service
func NewExportService(analytics *AnalyticsService, settingsRepo repository.SettingsRepository) *ExportService {
	return &ExportService{analytics: analytics, settingsRepo: settingsRepo}
}

var analyticsExportHeader = []string{
	"Invoice No", "Date", "Customer", "Type", "Table", "Payment", "Total",
}

func analyticsExportRow(inv entity.Invoice) []string {
	return []string{
		inv.InvoiceNo,
		inv.CreatedAt.Local().Format("2006-01-02 15:04"),
		inv.CustomerName,
		inv.InvoiceType.String(),
		inv.TableNumber,
		inv.PaymentMethod.String(),
		fmt.Sprintf("%.2f", inv.GetTotalDecimal()),
	}
}

// ExportCSV writes the filtered invoice list as CSV
func (s *ExportService) ExportCSV(ctx context.Context, start, end *time.Time) ([]byte, error) {
	invoices, err := s.analytics.GetFilteredInvoices(ctx, start, end)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(analyticsExportHeader); err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if err := w.Write(analyticsExportRow(inv)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX writes the filtered invoice list plus a summary sheet as XLSX
func (s *ExportService) ExportXLSX(ctx context.Context, start, end *time.Time) ([]byte, error) {
	invoices, err := s.analytics.GetFilteredInvoices(ctx, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const invoicesSheet = "Invoices"
	f.SetSheetName("Sheet1", invoicesSheet)

	header := make([]interface{}, len(analyticsExportHeader))
	for i, h := range analyticsExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(invoicesSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, inv := range invoices {
		row := analyticsExportRow(inv)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(invoicesSheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	salesByDate := SalesByDate(invoices)
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Date", "Total"}); err != nil {
		return nil, err
	}
	for i, p := range salesByDate {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{p.Date, p.Total}); err != nil {
			return nil, err
		}
	}
	totalRow := fmt.Sprintf("A%d", len(salesByDate)+3)
	if err := f.SetSheetRow(summarySheet, totalRow, &[]interface{}{"Total Sales", TotalSales(invoices)}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportSummaryPDF renders the analytics summary report as PDF
func (s *ExportService) ExportSummaryPDF(ctx context.Context, start, end *time.Time) ([]byte, error) {
	summary, err := s.analytics.GetSummary(ctx, start, end)
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

	data := pdf.ReportData{
		ShopName:     settings.ShopName,
		PeriodLabel:  periodLabel(start, end),
		GeneratedAt:  time.Now(),
		InvoiceCount: summary.InvoiceCount,
		TotalSales:   fmt.Sprintf("%.2f", summary.TotalSales),
		Currency:     settings.Currency,
	}
	for _, p := range summary.SalesByDate {
		data.SalesByDate = append(data.SalesByDate, pdf.ReportSalesRow{
			Date:  p.Date,
			Total: fmt.Sprintf("%.2f", p.Total),
		})
	}
	for _, p := range summary.TopItems {
		data.TopItems = append(data.TopItems, pdf.ReportItemRow{Name: p.Name, Qty: p.Qty})
	}

	return pdf.RenderAnalyticsReport(data)
}

// RenderReceiptPDF renders a receipt as a narrow single-page PDF
func (s *ExportService) RenderReceiptPDF(receipt *entity.Receipt) ([]byte, error) {
	return pdf.RenderReceipt(receiptPDFData(receipt))
}

// receiptPDFData maps a receipt onto the PDF renderer's input. The date
// is the invoice's creation time carried on the receipt, not render time.
func receiptPDFData(receipt *entity.Receipt) pdf.ReceiptData {
	data := pdf.ReceiptData{
		ShopName:      receipt.Header.ShopName,
		ShopAddress:   receipt.Header.Address,
		ShopPhone:     receipt.Header.Phone,
		InvoiceNo:     receipt.InvoiceNo,
		CustomerName:  receipt.Customer,
		InvoiceType:   receipt.InvoiceType,
		TableNumber:   receipt.TableNumber,
		PaymentMethod: receipt.PaymentMethod,
		Date:          receipt.Date,
		Total:         fmt.Sprintf("%.2f", receipt.Total),
		Currency:      receipt.Currency,
		FooterMessage: receipt.FooterMessage,
	}
	for _, item := range receipt.Items {
		data.Items = append(data.Items, pdf.ReceiptItem{
			Name:      item.Name,
			Qty:       item.Quantity,
			LineTotal: fmt.Sprintf("%.2f", item.Total),
		})
	}
	return data
}

func periodLabel(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	case start != nil:
		return fmt.Sprintf("From %s", start.Format("2006-01-02"))
	case end != nil:
		return fmt.Sprintf("Until %s", end.Format("2006-01-02"))
	default:
		return "All time"
	}
}

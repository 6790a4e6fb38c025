package service

import (
	"context"
	"sort"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
)

// DailySalesPoint is one calendar date's aggregated revenue
type DailySalesPoint struct {
	Date  string  `json:"date"` // ISO date, e.g. "2026-08-28"
	Total float64 `json:"total"`
}

// ItemSalesPoint is one menu item's aggregated quantity across invoices
type ItemSalesPoint struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// AnalyticsSummary is the aggregated dashboard payload
type AnalyticsSummary struct {
	StartDate    *time.Time        `json:"start_date,omitempty"`
	EndDate      *time.Time        `json:"end_date,omitempty"`
	InvoiceCount int               `json:"invoice_count"`
	TotalSales   float64           `json:"total_sales"`
	SalesByDate  []DailySalesPoint `json:"sales_by_date"`
	TopItems     []ItemSalesPoint  `json:"top_items"`
}

// FilterByDateRange returns the invoices created within the inclusive
// range. Either bound may be nil to leave that side open. The input slice
// is never mutated.
func FilterByDateRange(invoices []entity.Invoice, start, end *time.Time) []entity.Invoice {
	filtered := make([]entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if start != nil && inv.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && inv.CreatedAt.After(*end) {
			continue
		}
		filtered = append(filtered, inv)
	}
	return filtered
}

// SalesByDate groups invoice totals by local calendar date. The result is
// sorted ascending by date so chart axes and report rows are stable.
func SalesByDate(invoices []entity.Invoice) []DailySalesPoint {
	totals := make(map[string]int64)
	for _, inv := range invoices {
		day := inv.CreatedAt.Local().Format("2006-01-02")
		totals[day] += inv.Total
	}

	points := make([]DailySalesPoint, 0, len(totals))
	for day, cents := range totals {
		points = append(points, DailySalesPoint{Date: day, Total: float64(cents) / 100})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// TopItems sums sold quantities per exact item name across all invoice
// lines and returns them ranked by quantity descending, limited to the
// given count. Names tie-break alphabetically so the ranking is
// deterministic. A limit <= 0 returns every item.
func TopItems(invoices []entity.Invoice, limit int) []ItemSalesPoint {
	quantities := make(map[string]int)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			quantities[item.Name] += item.Qty
		}
	}

	points := make([]ItemSalesPoint, 0, len(quantities))
	for name, qty := range quantities {
		points = append(points, ItemSalesPoint{Name: name, Qty: qty})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Qty != points[j].Qty {
			return points[i].Qty > points[j].Qty
		}
		return points[i].Name < points[j].Name
	})

	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points
}

// TotalSales sums the stored invoice totals
func TotalSales(invoices []entity.Invoice) float64 {
	var cents int64
	for _, inv := range invoices {
		cents += inv.Total
	}
	return float64(cents) / 100
}

// AnalyticsService aggregates invoices for the dashboard and exports.
// The whole invoice set is fetched with items preloaded and aggregated in
// memory with the pure functions above.
type AnalyticsService struct {
	invoiceRepo repository.InvoiceRepository
	topItemsCap int
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(invoiceRepo repository.InvoiceRepository) *AnalyticsService {
	return &AnalyticsService{invoiceRepo: invoiceRepo, topItemsCap: 10}
}

// GetFilteredInvoices returns all invoices in the inclusive date range,
// items preloaded, newest first.
func (s *AnalyticsService) GetFilteredInvoices(ctx context.Context, start, end *time.Time) ([]entity.Invoice, error) {
	return s.invoiceRepo.ListAllWithItems(ctx, start, end)
}

// GetSummary builds the dashboard summary for the date range
func (s *AnalyticsService) GetSummary(ctx context.Context, start, end *time.Time) (*AnalyticsSummary, error) {
	invoices, err := s.invoiceRepo.ListAllWithItems(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{
		StartDate:    start,
		EndDate:      end,
		InvoiceCount: len(invoices),
		TotalSales:   TotalSales(invoices),
		SalesByDate:  SalesByDate(invoices),
		TopItems:     TopItems(invoices, s.topItemsCap),
	}, nil
}

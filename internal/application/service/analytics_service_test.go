package service

import (
	"testing"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
)

func invoiceOn(day time.Time, totalCents int64, items ...entity.InvoiceItem) entity.Invoice {
	return entity.Invoice{CreatedAt: day, Total: totalCents, Items: items}
}

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestSalesByDateGroupsAndSortsAscending(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(localDay(2024, 1, 2), 2000),
		invoiceOn(localDay(2024, 1, 1), 10000),
		invoiceOn(localDay(2024, 1, 1), 5000),
	}

	points := SalesByDate(invoices)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Date != "2024-01-01" || points[0].Total != 150.00 {
		t.Fatalf("expected 2024-01-01 / 150.00 first, got %+v", points[0])
	}
	if points[1].Date != "2024-01-02" || points[1].Total != 20.00 {
		t.Fatalf("expected 2024-01-02 / 20.00 second, got %+v", points[1])
	}
}

func TestTopItemsRankingAndTiebreak(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(localDay(2024, 1, 1), 0,
			entity.InvoiceItem{Name: "Tea", Qty: 3},
			entity.InvoiceItem{Name: "Coffee", Qty: 1},
		),
		invoiceOn(localDay(2024, 1, 2), 0,
			entity.InvoiceItem{Name: "Tea", Qty: 2},
			entity.InvoiceItem{Name: "Samosa", Qty: 1},
		),
	}

	points := TopItems(invoices, 10)
	if len(points) != 3 {
		t.Fatalf("expected 3 items, got %d", len(points))
	}
	if points[0].Name != "Tea" || points[0].Qty != 5 {
		t.Fatalf("expected Tea/5 first, got %+v", points[0])
	}
	// Coffee and Samosa both have qty 1; alphabetical order breaks the tie
	if points[1].Name != "Coffee" || points[2].Name != "Samosa" {
		t.Fatalf("expected alphabetical tiebreak, got %q then %q", points[1].Name, points[2].Name)
	}
}

func TestTopItemsLimit(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(localDay(2024, 1, 1), 0,
			entity.InvoiceItem{Name: "A", Qty: 3},
			entity.InvoiceItem{Name: "B", Qty: 2},
			entity.InvoiceItem{Name: "C", Qty: 1},
		),
	}

	if got := TopItems(invoices, 2); len(got) != 2 {
		t.Fatalf("expected 2 items with limit 2, got %d", len(got))
	}
	if got := TopItems(invoices, 0); len(got) != 3 {
		t.Fatalf("expected all items with limit 0, got %d", len(got))
	}
}

func TestFilterByDateRangeInclusiveBounds(t *testing.T) {
	jan1 := localDay(2024, 1, 1)
	jan2 := localDay(2024, 1, 2)
	jan3 := localDay(2024, 1, 3)
	invoices := []entity.Invoice{
		invoiceOn(jan1, 100),
		invoiceOn(jan2, 200),
		invoiceOn(jan3, 300),
	}

	got := FilterByDateRange(invoices, &jan1, &jan2)
	if len(got) != 2 {
		t.Fatalf("expected inclusive bounds to keep 2 invoices, got %d", len(got))
	}

	// Open-ended sides
	if got := FilterByDateRange(invoices, nil, &jan2); len(got) != 2 {
		t.Fatalf("expected 2 with open start, got %d", len(got))
	}
	if got := FilterByDateRange(invoices, &jan2, nil); len(got) != 2 {
		t.Fatalf("expected 2 with open end, got %d", len(got))
	}
	if got := FilterByDateRange(invoices, nil, nil); len(got) != 3 {
		t.Fatalf("expected all with no bounds, got %d", len(got))
	}

	// The input slice must not be mutated
	if invoices[0].CreatedAt != jan1 || len(invoices) != 3 {
		t.Fatal("input slice was mutated")
	}
}

func TestTotalSalesSumsStoredTotals(t *testing.T) {
	invoices := []entity.Invoice{
		invoiceOn(localDay(2024, 1, 1), 14999),
		invoiceOn(localDay(2024, 1, 2), 1),
	}
	if got := TotalSales(invoices); got != 150.00 {
		t.Fatalf("expected 150.00, got %v", got)
	}
	if got := TotalSales(nil); got != 0 {
		t.Fatalf("expected 0 for no invoices, got %v", got)
	}
}

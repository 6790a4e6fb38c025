package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReportSalesRow is one calendar date's sales total.
type ReportSalesRow struct {
	Date  string // ISO date, e.g. "2026-08-28"
	Total string
}

// ReportItemRow is one menu item's aggregated quantity.
type ReportItemRow struct {
	Name string
	Qty  int
}

// ReportData carries the aggregated analytics for a summary PDF.
type ReportData struct {
	ShopName     string
	PeriodLabel  string
	GeneratedAt  time.Time
	InvoiceCount int
	TotalSales   string
	Currency     string
	SalesByDate  []ReportSalesRow
	TopItems     []ReportItemRow
}

// RenderAnalyticsReport renders an A4 analytics summary PDF with a sales
// overview, a sales-by-date table, and a top-items table.
func RenderAnalyticsReport(data ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()

	m := maroto.New(cfg)

	addReportHeader(m, data)
	addReportSummary(m, data)
	addSalesByDateTable(m, data)
	addTopItemsTable(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: failed to render analytics report: %w", err)
	}
	return doc.GetBytes(), nil
}

func addReportHeader(m core.Maroto, data ReportData) {
	title := "Analytics Summary"
	if data.ShopName != "" {
		title = data.ShopName + " - Analytics Summary"
	}
	m.AddRow(10, text.NewCol(12, title, props.Text{
		Size:  14,
		Align: align.Center,
		Style: fontstyle.Bold,
	}))
	if data.PeriodLabel != "" {
		m.AddRow(6, text.NewCol(12, data.PeriodLabel, props.Text{
			Size:  9,
			Align: align.Center,
		}))
	}
	m.AddRow(5, text.NewCol(12, "Generated "+data.GeneratedAt.Format("02 Jan 2006 15:04"), props.Text{
		Size:  8,
		Align: align.Center,
	}))
	m.AddRows(line.NewRow(4))
}

func addReportSummary(m core.Maroto, data ReportData) {
	total := data.TotalSales
	if data.Currency != "" {
		total = data.Currency + " " + total
	}
	m.AddRow(7,
		text.NewCol(6, "Total Sales", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(6, total, props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRow(7,
		text.NewCol(6, "Invoices", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(6, fmt.Sprintf("%d", data.InvoiceCount), props.Text{Size: 10, Align: align.Right}),
	)
	m.AddRows(line.NewRow(4))
}

func addSalesByDateTable(m core.Maroto, data ReportData) {
	m.AddRow(8, text.NewCol(12, "Sales by Date", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(6,
		text.NewCol(6, "Date", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(6, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, r := range data.SalesByDate {
		m.AddRow(5,
			text.NewCol(6, r.Date, props.Text{Size: 9}),
			text.NewCol(6, r.Total, props.Text{Size: 9, Align: align.Right}),
		)
	}
	if len(data.SalesByDate) == 0 {
		m.AddRow(5, text.NewCol(12, "No sales in the selected period", props.Text{Size: 9, Style: fontstyle.Italic}))
	}
	m.AddRows(line.NewRow(4))
}

func addTopItemsTable(m core.Maroto, data ReportData) {
	m.AddRow(8, text.NewCol(12, "Top Items", props.Text{Size: 11, Style: fontstyle.Bold}))
	m.AddRow(6,
		text.NewCol(8, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(4, "Qty Sold", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, r := range data.TopItems {
		m.AddRow(5,
			text.NewCol(8, r.Name, props.Text{Size: 9}),
			text.NewCol(4, fmt.Sprintf("%d", r.Qty), props.Text{Size: 9, Align: align.Right}),
		)
	}
	if len(data.TopItems) == 0 {
		m.AddRow(5, text.NewCol(12, "No items in the selected period", props.Text{Size: 9, Style: fontstyle.Italic}))
	}
}

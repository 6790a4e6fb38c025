package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptItem is a single line on a printed receipt.
type ReceiptItem struct {
	Name      string
	Qty       int
	LineTotal string // qty x unit price, already formatted to 2 decimals
}

// ReceiptData carries everything needed to render a receipt PDF.
// Total is the stored invoice total, formatted; it is never recomputed
// here. Date is the invoice's creation time, already formatted.
type ReceiptData struct {
	ShopName      string
	ShopAddress   string
	ShopPhone     string
	InvoiceNo     string
	CustomerName  string
	InvoiceType   string
	TableNumber   string
	PaymentMethod string
	Date          string
	Items         []ReceiptItem
	Total         string
	Currency      string
	FooterMessage string
}

const (
	receiptWidthMM  = 57
	receiptMarginMM = 3
)

// RenderReceipt renders a narrow thermal-style receipt as a single-page PDF.
// The page height grows with the item count so lines never wrap or spill.
func RenderReceipt(data ReceiptData) ([]byte, error) {
	height := receiptHeight(len(data.Items))

	cfg := config.NewBuilder().
		WithDimensions(receiptWidthMM, height).
		WithLeftMargin(receiptMarginMM).
		WithRightMargin(receiptMarginMM).
		WithTopMargin(receiptMarginMM).
		Build()

	m := maroto.New(cfg)

	addReceiptHeader(m, data)
	addReceiptMeta(m, data)
	addReceiptItems(m, data)
	addReceiptTotal(m, data)

	if data.FooterMessage != "" {
		m.AddRows(line.NewRow(3))
		m.AddRow(5, text.NewCol(12, data.FooterMessage, props.Text{
			Size:  7,
			Align: align.Center,
			Style: fontstyle.Italic,
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: failed to render receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

// receiptHeight estimates the page height in mm for the given item count.
func receiptHeight(items int) float64 {
	const (
		base      = 60.0
		perItem   = 5.0
		minHeight = 90.0
	)
	h := base + perItem*float64(items)
	if h < minHeight {
		h = minHeight
	}
	return h
}

func addReceiptHeader(m core.Maroto, data ReceiptData) {
	m.AddRow(6, text.NewCol(12, data.ShopName, props.Text{
		Size:  10,
		Align: align.Center,
		Style: fontstyle.Bold,
	}))
	if data.ShopAddress != "" {
		m.AddRow(7, text.NewCol(12, data.ShopAddress, props.Text{
			Size:  6,
			Align: align.Center,
		}))
	}
	if data.ShopPhone != "" {
		m.AddRow(4, text.NewCol(12, data.ShopPhone, props.Text{
			Size:  6,
			Align: align.Center,
		}))
	}
	m.AddRows(line.NewRow(2))
}

func addReceiptMeta(m core.Maroto, data ReceiptData) {
	meta := [][2]string{
		{"Invoice", data.InvoiceNo},
		{"Customer", data.CustomerName},
		{"Type", data.InvoiceType},
	}
	if data.TableNumber != "" {
		meta = append(meta, [2]string{"Table", data.TableNumber})
	}
	meta = append(meta,
		[2]string{"Payment", data.PaymentMethod},
		[2]string{"Date", data.Date},
	)

	for _, kv := range meta {
		m.AddRow(4,
			text.NewCol(4, kv[0], props.Text{Size: 6}),
			text.NewCol(8, kv[1], props.Text{Size: 6, Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(2))
}

func addReceiptItems(m core.Maroto, data ReceiptData) {
	m.AddRow(4,
		text.NewCol(7, "Item", props.Text{Size: 6, Style: fontstyle.Bold}),
		text.NewCol(2, "Qty", props.Text{Size: 6, Style: fontstyle.Bold, Align: align.Center}),
		text.NewCol(3, "Amount", props.Text{Size: 6, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range data.Items {
		m.AddRow(4,
			text.NewCol(7, item.Name, props.Text{Size: 6}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 6, Align: align.Center}),
			text.NewCol(3, item.LineTotal, props.Text{Size: 6, Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(2))
}

func addReceiptTotal(m core.Maroto, data ReceiptData) {
	total := data.Total
	if data.Currency != "" {
		total = data.Currency + " " + total
	}
	m.AddRow(5,
		text.NewCol(6, "TOTAL", props.Text{Size: 8, Style: fontstyle.Bold}),
		text.NewCol(6, total, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
	)
}

// Package render turns an invoice snapshot into a single-page A4 PDF.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	mimage "github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	"github.com/openbill/invoicecraft/internal/invoice/format"
)

// Renderer produces a finalized invoice document from a snapshot. A failed
// render returns no output; renders are idempotent and safe to retry.
type Renderer interface {
	Render(snap Snapshot) ([]byte, error)
}

type pdfRenderer struct {
	log *zap.Logger
}

// NewRenderer builds the PDF renderer.
func NewRenderer(log *zap.Logger) Renderer {
	return &pdfRenderer{log: log}
}

// Render draws the document in a fixed stage order: header, metadata, item
// table, totals, payment section, footer, then serializes the page. Only the
// logo decode is recoverable; every other failure aborts the render.
func (r *pdfRenderer) Render(snap Snapshot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		Build()

	m := maroto.New(cfg)

	r.drawHeader(m, snap)
	r.drawMetadata(m, snap)
	r.drawItemTable(m, snap)
	r.drawTotals(m, snap)
	r.drawPayment(m, snap)
	r.drawNotes(m, snap)
	r.drawFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func (r *pdfRenderer) drawHeader(m core.Maroto, snap Snapshot) {
	logoCol := r.logoCol(snap.Logo)

	m.AddRow(16,
		col.New(8).Add(
			text.New("INVOICE", props.Text{
				Size:  20,
				Style: fontstyle.Bold,
			}),
			text.New("#"+snap.InvoiceNumber, props.Text{
				Size: 12,
				Top:  10,
			}),
		),
		logoCol,
	)
}

// logoCol returns the top-right logo cell, or an empty spacer when there is
// no logo or its bytes do not decode as PNG/JPEG. Logo absence is not an
// error; the slot is simply left blank.
func (r *pdfRenderer) logoCol(logo []byte) core.Col {
	if len(logo) == 0 {
		return col.New(4)
	}

	ext, err := detectImage(logo)
	if err != nil {
		r.log.Warn("skipping invoice logo", zap.Error(err))
		return col.New(4)
	}

	return mimage.NewFromBytesCol(4, logo, ext, props.Rect{
		Center:  false,
		Percent: 80,
	})
}

func detectImage(data []byte) (extension.Type, error) {
	_, kind, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode logo image: %w", err)
	}
	switch kind {
	case "png":
		return extension.Png, nil
	case "jpeg":
		return extension.Jpg, nil
	default:
		return "", fmt.Errorf("unsupported logo format %q", kind)
	}
}

func (r *pdfRenderer) drawMetadata(m core.Maroto, snap Snapshot) {
	m.AddRow(20,
		col.New(6).Add(
			text.New("Issue Date: "+snap.IssueDate, props.Text{Size: 10, Top: 0}),
			text.New("Due Date: "+snap.DueDate, props.Text{Size: 10, Top: 5}),
			text.New("Payment Terms: "+format.PaymentTermsLabel(snap.PaymentTerms), props.Text{Size: 10, Top: 10}),
			text.New(fmt.Sprintf("Currency: %s (%s)", snap.Currency, format.CurrencySymbol(snap.Currency)), props.Text{Size: 10, Top: 15}),
		),
		col.New(6),
	)

	if snap.BusinessDetails != "" || snap.ClientDetails != "" {
		m.AddRow(24,
			col.New(6).Add(
				text.New("From", props.Text{Size: 10, Style: fontstyle.Bold}),
				text.New(snap.BusinessDetails, props.Text{Size: 9, Top: 5}),
			),
			col.New(6).Add(
				text.New("To", props.Text{Size: 10, Style: fontstyle.Bold}),
				text.New(snap.ClientDetails, props.Text{Size: 9, Top: 5}),
			),
		)
	}
}

func (r *pdfRenderer) drawItemTable(m core.Maroto, snap Snapshot) {
	if len(snap.Items) == 0 {
		m.AddRow(12,
			text.NewCol(12, "No items have been added to this invoice.", props.Text{
				Size:  10,
				Align: align.Center,
				Top:   4,
			}),
		)
		return
	}

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range snap.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, strconv.FormatInt(item.Quantity, 10), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.Money(snap.Currency, item.Rate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, format.Money(snap.Currency, item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))
}

// totalLine is one label/value pair in the totals block.
type totalLine struct {
	Label string
	Value string
	Grand bool
}

// totalsLines assembles the totals block in its fixed order. Discount, tax
// and shipping lines are suppressed when their header value is zero; the
// grand total line is always present.
func totalsLines(snap Snapshot) []totalLine {
	lines := []totalLine{
		{Label: "Subtotal:", Value: format.Money(snap.Currency, snap.Totals.Subtotal)},
	}
	if snap.DiscountTotal > 0 {
		lines = append(lines, totalLine{
			Label: fmt.Sprintf("Discount (%s%%):", trimFloat(snap.DiscountTotal)),
			Value: "-" + format.Money(snap.Currency, snap.Totals.DiscountAmount),
		})
	}
	if snap.Tax > 0 {
		lines = append(lines, totalLine{
			Label: fmt.Sprintf("Tax (%s%%):", trimFloat(snap.Tax)),
			Value: format.Money(snap.Currency, snap.Totals.TaxAmount),
		})
	}
	if snap.Shipping > 0 {
		lines = append(lines, totalLine{
			Label: "Shipping:",
			Value: format.Money(snap.Currency, snap.Shipping),
		})
	}
	lines = append(lines, totalLine{
		Label: "Total Amount:",
		Value: format.Money(snap.Currency, snap.Totals.GrandTotal),
		Grand: true,
	})
	return lines
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *pdfRenderer) drawTotals(m core.Maroto, snap Snapshot) {
	for _, tl := range totalsLines(snap) {
		if tl.Grand {
			m.AddRow(2, col.New(6), line.NewCol(6))
			m.AddRow(9,
				col.New(6),
				text.NewCol(3, tl.Label, props.Text{Size: 11, Style: fontstyle.Bold}),
				text.NewCol(3, tl.Value, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
			)
			continue
		}
		m.AddRow(7,
			col.New(6),
			text.NewCol(3, tl.Label, props.Text{Size: 9}),
			text.NewCol(3, tl.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func (r *pdfRenderer) drawPayment(m core.Maroto, snap Snapshot) {
	if snap.PaymentMethod == "" {
		return
	}

	m.AddRow(10,
		col.New(12).Add(
			text.New("How does this invoice get paid?", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
		),
	)
	m.AddRow(6,
		text.NewCol(12, "Payment Method: "+format.PaymentMethodLabel(snap.PaymentMethod), props.Text{Size: 9}),
	)

	if snap.PaymentMethod == "bank_transfer" && snap.BankDetails != "" {
		m.AddRow(4, text.NewCol(12, "Bank Details:", props.Text{Size: 9}))
		// Line breaks in the bank details block are preserved verbatim.
		m.AddRow(16, text.NewCol(12, snap.BankDetails, props.Text{Size: 9}))
	}
}

func (r *pdfRenderer) drawNotes(m core.Maroto, snap Snapshot) {
	if snap.Notes != "" {
		m.AddRow(14,
			col.New(12).Add(
				text.New("Notes", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
				text.New(snap.Notes, props.Text{Size: 9, Top: 8}),
			),
		)
	}
	if snap.Terms != "" {
		m.AddRow(14,
			col.New(12).Add(
				text.New("Terms & Conditions", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
				text.New(snap.Terms, props.Text{Size: 9, Top: 8}),
			),
		)
	}
}

func (r *pdfRenderer) drawFooter(m core.Maroto) {
	m.AddRow(10,
		text.NewCol(12, "This invoice was created with InvoiceCraft.", props.Text{
			Size:  8,
			Align: align.Center,
			Top:   6,
		}),
	)
}

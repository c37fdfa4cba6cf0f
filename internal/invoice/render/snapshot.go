package render

import (
	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
)

// Snapshot is the complete, immutable set of invoice data consumed by one
// document generation. It is owned exclusively by the rendering call; the
// renderer never reaches back into storage.
type Snapshot struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	PaymentTerms  string
	Currency      string

	BusinessDetails string
	ClientDetails   string

	Items  []invoicedomain.InvoiceItem
	Totals invoicedomain.InvoiceTotals

	// Header percentages, kept for totals-block labels.
	DiscountTotal float64
	Tax           float64
	Shipping      float64

	PaymentMethod string
	BankDetails   string

	Notes string
	Terms string

	// Logo holds raw PNG/JPEG bytes, or nil when no logo was uploaded.
	Logo []byte
}

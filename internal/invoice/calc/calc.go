// Package calc computes invoice totals.
//
// Every function here is PURE:
// - No side effects
// - No I/O
// - Fully deterministic for identical input
//
// The chain never divides, so there is no divide-by-zero class of error.
// Out-of-range input is the caller's problem; the calculator neither clamps
// nor rejects.
package calc

import (
	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
)

// ItemAmount derives a line amount from quantity, unit rate and the
// per-item discount percentage.
func ItemAmount(quantity int64, rate, discount float64) float64 {
	base := float64(quantity) * rate
	return base - base*(discount/100)
}

// Normalize recomputes every item's Amount in place. Callers run it after
// any mutation of quantity, rate or discount; stored amounts are never
// trusted as source of truth.
func Normalize(items []invoicedomain.InvoiceItem) {
	for i := range items {
		items[i].Amount = ItemAmount(items[i].Quantity, items[i].Rate, items[i].Discount)
	}
}

// Compute derives the full totals chain from item amounts and the header
// percentages. Ordering is fixed: discount applies before tax, tax applies
// to the post-discount amount, shipping is a flat additive term after tax.
func Compute(items []invoicedomain.InvoiceItem, discountTotal, tax, shipping float64) invoicedomain.InvoiceTotals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}

	discountAmount := subtotal * (discountTotal / 100)
	afterDiscount := subtotal - discountAmount
	taxAmount := afterDiscount * (tax / 100)

	return invoicedomain.InvoiceTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		AfterDiscount:  afterDiscount,
		TaxAmount:      taxAmount,
		GrandTotal:     afterDiscount + taxAmount + shipping,
	}
}

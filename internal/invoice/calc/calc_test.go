package calc

import (
	"math"
	"testing"

	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
)

func TestItemAmount(t *testing.T) {
	assert.Equal(t, 100.0, ItemAmount(2, 50, 0))
	assert.Equal(t, 180.0, ItemAmount(1, 200, 10))
	assert.Equal(t, 0.0, ItemAmount(3, 0, 0))
	assert.Equal(t, 0.0, ItemAmount(4, 25, 100))
}

func TestCompute_NoAdjustments(t *testing.T) {
	items := []invoicedomain.InvoiceItem{
		{Quantity: 2, Rate: 50},
	}
	Normalize(items)

	totals := Compute(items, 0, 0, 0)
	assert.Equal(t, 100.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 100.0, totals.AfterDiscount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 100.0, totals.GrandTotal)
}

func TestCompute_FullChain(t *testing.T) {
	items := []invoicedomain.InvoiceItem{
		{Quantity: 1, Rate: 200, Discount: 10},
	}
	Normalize(items)
	assert.Equal(t, 180.0, items[0].Amount)

	totals := Compute(items, 10, 18, 15)
	assert.InDelta(t, 180.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 18.0, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 162.0, totals.AfterDiscount, 1e-9)
	assert.InDelta(t, 29.16, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 206.16, totals.GrandTotal, 1e-9)
}

func TestCompute_EmptyItems(t *testing.T) {
	totals := Compute(nil, 10, 18, 0)
	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.GrandTotal)
}

func TestCompute_ShippingNotTaxed(t *testing.T) {
	items := []invoicedomain.InvoiceItem{{Quantity: 1, Rate: 100}}
	Normalize(items)

	withShipping := Compute(items, 0, 20, 50)
	withoutShipping := Compute(items, 0, 20, 0)

	// Shipping is a flat post-tax term, so the tax amount must not move.
	assert.Equal(t, withoutShipping.TaxAmount, withShipping.TaxAmount)
	assert.InDelta(t, withoutShipping.GrandTotal+50, withShipping.GrandTotal, 1e-9)
}

func TestCompute_Idempotent(t *testing.T) {
	items := []invoicedomain.InvoiceItem{
		{Quantity: 3, Rate: 19.99, Discount: 5},
		{Quantity: 7, Rate: 0.33},
		{Quantity: 1, Rate: 1234.56, Discount: 12.5},
	}
	Normalize(items)

	first := Compute(items, 7.5, 21, 9.99)
	second := Compute(items, 7.5, 21, 9.99)
	assert.Equal(t, first, second)
}

func TestCompute_ClosedForm(t *testing.T) {
	cases := []struct {
		items                   []invoicedomain.InvoiceItem
		discount, tax, shipping float64
	}{
		{[]invoicedomain.InvoiceItem{{Quantity: 2, Rate: 50}}, 0, 0, 0},
		{[]invoicedomain.InvoiceItem{{Quantity: 1, Rate: 200, Discount: 10}}, 10, 18, 15},
		{[]invoicedomain.InvoiceItem{{Quantity: 5, Rate: 9.99, Discount: 50}, {Quantity: 2, Rate: 0.01}}, 100, 0, 3},
		{[]invoicedomain.InvoiceItem{{Quantity: 10, Rate: 7.77, Discount: 33.3}}, 2.5, 7.25, 0},
	}

	for _, tc := range cases {
		Normalize(tc.items)
		totals := Compute(tc.items, tc.discount, tc.tax, tc.shipping)

		var sum float64
		for _, item := range tc.items {
			sum += item.Amount
		}
		want := sum*(1-tc.discount/100)*(1+tc.tax/100) + tc.shipping
		if math.Abs(totals.GrandTotal-want) > 1e-9 {
			t.Fatalf("grand total %v, want %v", totals.GrandTotal, want)
		}
	}
}

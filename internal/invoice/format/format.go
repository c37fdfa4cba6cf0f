// Package format holds display formatting helpers shared by the renderer
// and the service layer. Everything here is pure.
package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for issue and due dates.
const DateLayout = "2006-01-02"

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

// DefaultNumberTemplate yields numbers like INV-001.
const DefaultNumberTemplate = "INV-{SEQ3}"

// CurrencySymbol maps an ISO-style currency code to its display glyph.
// Unknown codes fall back to "$"; this table must stay in sync with the
// rendered documents.
func CurrencySymbol(code string) string {
	switch code {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "CAD":
		return "CA$"
	case "AUD":
		return "A$"
	case "JPY", "CNY":
		return "¥"
	case "INR":
		return "₹"
	default:
		return "$"
	}
}

// Money renders a monetary value with the currency glyph prefix and exactly
// two decimal places, no thousands separators.
func Money(currency string, v float64) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol(currency), v)
}

// PaymentTermsLabel renders a terms code for display. "receipt" has a
// literal label; every other code renders upper-cased.
func PaymentTermsLabel(code string) string {
	if code == "receipt" {
		return "Due on receipt"
	}
	return strings.ToUpper(code)
}

// PaymentMethodLabel renders a payment method code for display.
func PaymentMethodLabel(code string) string {
	switch code {
	case "bank_transfer":
		return "Bank Transfer"
	case "paypal":
		return "PayPal"
	case "upi":
		return "UPI"
	case "payment_link":
		return "Payment Link"
	case "cash":
		return "Cash"
	default:
		return code
	}
}

// TermsDays returns the due-date offset in days for a payment terms code.
// Unknown codes behave like "receipt".
func TermsDays(code string) int {
	switch code {
	case "net7":
		return 7
	case "net15":
		return 15
	case "net30":
		return 30
	case "net45":
		return 45
	case "net60":
		return 60
	default:
		return 0
	}
}

// DueDate derives the due date from an issue date and a terms code.
func DueDate(issueDate, paymentTerms string) (string, error) {
	issued, err := time.Parse(DateLayout, issueDate)
	if err != nil {
		return "", fmt.Errorf("invalid issue date %q: %w", issueDate, err)
	}
	return issued.AddDate(0, 0, TermsDays(paymentTerms)).Format(DateLayout), nil
}

// InvoiceNumber formats a human-readable invoice number based on a
// template, issue time, and monotonic sequence. Supported tokens:
// {YYYY} {YY} {MM} {DD} {SEQ} {SEQn} (zero-padded to n digits).
func InvoiceNumber(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m // should never happen
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice number template: %s", out)
	}

	return out, nil
}

package domain

import (
	"context"
	"errors"
)

// CreateInvoiceRequest carries the writable invoice fields. Zero values for
// number, terms, currency and payment method are filled from configured
// defaults by the service.
type CreateInvoiceRequest struct {
	InvoiceNumber      string        `json:"invoiceNumber"`
	PaymentTerms       string        `json:"paymentTerms"`
	IssueDate          string        `json:"issueDate"`
	DueDate            string        `json:"dueDate"`
	Currency           string        `json:"currency"`
	LogoURL            *string       `json:"logoUrl"`
	Status             InvoiceStatus `json:"status"`
	Items              []InvoiceItem `json:"items"`
	DiscountTotal      float64       `json:"discountTotal"`
	Tax                float64       `json:"tax"`
	Shipping           float64       `json:"shipping"`
	BusinessDetails    string        `json:"businessDetails"`
	ClientDetails      string        `json:"clientDetails"`
	PaymentMethod      string        `json:"paymentMethod"`
	BankDetails        string        `json:"bankDetails"`
	PaypalDetails      string        `json:"paypalDetails"`
	UpiDetails         string        `json:"upiDetails"`
	PaymentLinkDetails string        `json:"paymentLinkDetails"`
	CashDetails        string        `json:"cashDetails"`
	Notes              string        `json:"notes"`
	Terms              string        `json:"terms"`
}

// UpdateInvoiceRequest is a partial patch; nil fields are left untouched.
type UpdateInvoiceRequest struct {
	InvoiceNumber      *string        `json:"invoiceNumber"`
	PaymentTerms       *string        `json:"paymentTerms"`
	IssueDate          *string        `json:"issueDate"`
	DueDate            *string        `json:"dueDate"`
	Currency           *string        `json:"currency"`
	LogoURL            *string        `json:"logoUrl"`
	Status             *InvoiceStatus `json:"status"`
	Items              []InvoiceItem  `json:"items"`
	DiscountTotal      *float64       `json:"discountTotal"`
	Tax                *float64       `json:"tax"`
	Shipping           *float64       `json:"shipping"`
	BusinessDetails    *string        `json:"businessDetails"`
	ClientDetails      *string        `json:"clientDetails"`
	PaymentMethod      *string        `json:"paymentMethod"`
	BankDetails        *string        `json:"bankDetails"`
	PaypalDetails      *string        `json:"paypalDetails"`
	UpiDetails         *string        `json:"upiDetails"`
	PaymentLinkDetails *string        `json:"paymentLinkDetails"`
	CashDetails        *string        `json:"cashDetails"`
	Notes              *string        `json:"notes"`
	Terms              *string        `json:"terms"`
}

// ListInvoicesRequest narrows a listing; a zero Limit returns every invoice.
type ListInvoicesRequest struct {
	Limit int `form:"limit"`
}

// RenderResult is a finalized document plus its suggested download filename.
type RenderResult struct {
	Filename string
	PDF      []byte
}

// SendEmailRequest addresses an invoice email. Subject and Message fall back
// to defaults derived from the invoice number.
type SendEmailRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string) (RenderResult, error)
	SendEmail(ctx context.Context, id string, req SendEmailRequest) error
}

var (
	ErrInvalidInvoiceID       = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound        = errors.New("invoice_not_found")
	ErrDuplicateInvoiceNumber = errors.New("duplicate_invoice_number")
	ErrNoItems                = errors.New("invoice_has_no_items")
	ErrItemInvalid            = errors.New("invoice_item_invalid")
	ErrInvalidStatus          = errors.New("invalid_status")
	ErrInvalidIssueDate       = errors.New("invalid_issue_date")
)

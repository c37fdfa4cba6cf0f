// Package domain contains persistence models for invoicing.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice represents a persisted invoice. Items live in a JSON column;
// they are a document owned by the invoice, not a separate table.
type Invoice struct {
	ID                 snowflake.ID   `gorm:"primaryKey" json:"id"`
	InvoiceNumber      string         `gorm:"type:text;not null;uniqueIndex:ux_invoices_number" json:"invoiceNumber"`
	PaymentTerms       string         `gorm:"type:text;not null" json:"paymentTerms"`
	IssueDate          string         `gorm:"type:text;not null" json:"issueDate"`
	DueDate            string         `gorm:"type:text;not null" json:"dueDate"`
	Currency           string         `gorm:"type:text;not null" json:"currency"`
	LogoURL            *string        `gorm:"type:text" json:"logoUrl,omitempty"`
	Status             InvoiceStatus  `gorm:"type:text;not null;default:'draft'" json:"status"`
	TotalAmount        float64        `gorm:"not null;default:0" json:"totalAmount"`
	Subtotal           float64        `gorm:"not null;default:0" json:"subtotal"`
	DiscountTotal      float64        `gorm:"not null;default:0" json:"discountTotal"`
	Tax                float64        `gorm:"not null;default:0" json:"tax"`
	Shipping           float64        `gorm:"not null;default:0" json:"shipping"`
	Items              datatypes.JSON `gorm:"not null;default:'[]'" json:"items"`
	BusinessDetails    string         `gorm:"type:text" json:"businessDetails"`
	ClientDetails      string         `gorm:"type:text" json:"clientDetails"`
	PaymentMethod      string         `gorm:"type:text;default:'bank_transfer'" json:"paymentMethod"`
	BankDetails        string         `gorm:"type:text" json:"bankDetails"`
	PaypalDetails      string         `gorm:"type:text" json:"paypalDetails"`
	UpiDetails         string         `gorm:"type:text" json:"upiDetails"`
	PaymentLinkDetails string         `gorm:"type:text" json:"paymentLinkDetails"`
	CashDetails        string         `gorm:"type:text" json:"cashDetails"`
	Notes              string         `gorm:"type:text" json:"notes"`
	Terms              string         `gorm:"type:text" json:"terms"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// ItemList decodes the JSON items column.
func (i *Invoice) ItemList() ([]InvoiceItem, error) {
	if len(i.Items) == 0 {
		return nil, nil
	}
	var items []InvoiceItem
	if err := json.Unmarshal(i.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetItems encodes items into the JSON items column.
func (i *Invoice) SetItems(items []InvoiceItem) error {
	if items == nil {
		items = []InvoiceItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	i.Items = datatypes.JSON(raw)
	return nil
}

// InvoiceItem represents a line on an invoice. Amount is derived from
// quantity, rate and discount; it is never edited independently.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    int64   `json:"quantity"`
	Rate        float64 `json:"rate"`
	Discount    float64 `json:"discount"`
	Amount      float64 `json:"amount"`
}

// NewItem returns an item row with form defaults.
func NewItem() InvoiceItem {
	return InvoiceItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
}

// InvoiceTotals is the canonical set of derived monetary totals. Values are
// unrounded; two-decimal display rounding happens only at render time.
type InvoiceTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	AfterDiscount  float64 `json:"afterDiscount"`
	TaxAmount      float64 `json:"taxAmount"`
	GrandTotal     float64 `json:"grandTotal"`
}

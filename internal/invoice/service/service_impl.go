// Package service implements the invoice domain service.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openbill/invoicecraft/internal/config"
	"github.com/openbill/invoicecraft/internal/invoice/calc"
	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/openbill/invoicecraft/internal/invoice/format"
	"github.com/openbill/invoicecraft/internal/invoice/render"
	"github.com/openbill/invoicecraft/internal/logo"
	"github.com/openbill/invoicecraft/internal/providers/email"
	"github.com/openbill/invoicecraft/pkg/db"
	"github.com/openbill/invoicecraft/pkg/db/option"
	"github.com/openbill/invoicecraft/pkg/repository"
)

// numberRetryLimit bounds how far an auto-generated invoice number will skip
// forward past existing numbers before giving up. A template without a
// sequence token never changes between attempts, so the loop must terminate.
const numberRetryLimit = 100

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     repository.Repository[invoicedomain.Invoice]
	Renderer render.Renderer
	Email    email.Provider
	Logos    *logo.Store
	Defaults *config.DefaultsHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     repository.Repository[invoicedomain.Invoice]
	renderer render.Renderer
	email    email.Provider
	logos    *logo.Store
	defaults *config.DefaultsHolder
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log,
		genID:    p.GenID,
		repo:     p.Repo,
		renderer: p.Renderer,
		email:    p.Email,
		logos:    p.Logos,
		defaults: p.Defaults,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	defaults := s.defaults.Get()

	if req.Currency == "" {
		req.Currency = defaults.Currency
	}
	if req.PaymentTerms == "" {
		req.PaymentTerms = defaults.PaymentTerms
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = defaults.PaymentMethod
	}
	if req.IssueDate == "" {
		req.IssueDate = time.Now().UTC().Format(format.DateLayout)
	}

	issuedAt, err := time.Parse(format.DateLayout, req.IssueDate)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidIssueDate
	}

	autoNumber := req.InvoiceNumber == ""
	var seq int64
	if autoNumber {
		count, err := s.repo.Count(ctx, &invoicedomain.Invoice{})
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		seq = count + 1
		number, err := format.InvoiceNumber(defaults.NumberTemplate, issuedAt, seq)
		if err != nil {
			return invoicedomain.Invoice{}, err
		}
		req.InvoiceNumber = number
	}

	if req.DueDate == "" {
		due, err := format.DueDate(req.IssueDate, req.PaymentTerms)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidIssueDate
		}
		req.DueDate = due
	}

	if req.Status == "" {
		req.Status = invoicedomain.InvoiceStatusDraft
	}
	if !invoicedomain.ValidStatus(req.Status) {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	items := prepareItems(req.Items)
	if req.Status != invoicedomain.InvoiceStatusDraft {
		if err := validateFinalized(items); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}
	totals := calc.Compute(items, req.DiscountTotal, req.Tax, req.Shipping)

	item := invoicedomain.Invoice{
		ID:                 s.genID.Generate(),
		InvoiceNumber:      req.InvoiceNumber,
		PaymentTerms:       req.PaymentTerms,
		IssueDate:          req.IssueDate,
		DueDate:            req.DueDate,
		Currency:           req.Currency,
		LogoURL:            req.LogoURL,
		Status:             req.Status,
		TotalAmount:        totals.GrandTotal,
		Subtotal:           totals.Subtotal,
		DiscountTotal:      req.DiscountTotal,
		Tax:                req.Tax,
		Shipping:           req.Shipping,
		BusinessDetails:    req.BusinessDetails,
		ClientDetails:      req.ClientDetails,
		PaymentMethod:      req.PaymentMethod,
		BankDetails:        req.BankDetails,
		PaypalDetails:      req.PaypalDetails,
		UpiDetails:         req.UpiDetails,
		PaymentLinkDetails: req.PaymentLinkDetails,
		CashDetails:        req.CashDetails,
		Notes:              req.Notes,
		Terms:              req.Terms,
	}
	if err := item.SetItems(items); err != nil {
		return invoicedomain.Invoice{}, err
	}

	// Deletions leave gaps, so a count-derived sequence can land on a number
	// that is still taken. Auto-generated numbers skip forward past those.
	for attempt := 0; ; attempt++ {
		err := s.repo.Create(ctx, &item)
		if err == nil {
			break
		}
		if !db.IsDuplicateKeyErr(err) {
			return invoicedomain.Invoice{}, err
		}
		if !autoNumber || attempt >= numberRetryLimit {
			return invoicedomain.Invoice{}, invoicedomain.ErrDuplicateInvoiceNumber
		}
		seq++
		number, nerr := format.InvoiceNumber(defaults.NumberTemplate, issuedAt, seq)
		if nerr != nil {
			return invoicedomain.Invoice{}, nerr
		}
		item.InvoiceNumber = number
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", item.ID.String()),
		zap.String("invoice_number", item.InvoiceNumber),
	)
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoicesRequest) ([]invoicedomain.Invoice, error) {
	opts := []option.QueryOption{option.WithOrderBy("created_at DESC, id DESC")}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}

	rows, err := s.repo.Find(ctx, &invoicedomain.Invoice{}, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]invoicedomain.Invoice, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	termsChanged := req.PaymentTerms != nil && *req.PaymentTerms != item.PaymentTerms
	dateChanged := req.IssueDate != nil && *req.IssueDate != item.IssueDate

	applyString(&item.InvoiceNumber, req.InvoiceNumber)
	applyString(&item.PaymentTerms, req.PaymentTerms)
	applyString(&item.IssueDate, req.IssueDate)
	applyString(&item.DueDate, req.DueDate)
	applyString(&item.Currency, req.Currency)
	applyString(&item.BusinessDetails, req.BusinessDetails)
	applyString(&item.ClientDetails, req.ClientDetails)
	applyString(&item.PaymentMethod, req.PaymentMethod)
	applyString(&item.BankDetails, req.BankDetails)
	applyString(&item.PaypalDetails, req.PaypalDetails)
	applyString(&item.UpiDetails, req.UpiDetails)
	applyString(&item.PaymentLinkDetails, req.PaymentLinkDetails)
	applyString(&item.CashDetails, req.CashDetails)
	applyString(&item.Notes, req.Notes)
	applyString(&item.Terms, req.Terms)
	applyFloat(&item.DiscountTotal, req.DiscountTotal)
	applyFloat(&item.Tax, req.Tax)
	applyFloat(&item.Shipping, req.Shipping)
	if req.LogoURL != nil {
		item.LogoURL = req.LogoURL
	}
	if req.Status != nil {
		if !invoicedomain.ValidStatus(*req.Status) {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
		}
		item.Status = *req.Status
	}

	if _, err := time.Parse(format.DateLayout, item.IssueDate); err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidIssueDate
	}

	// Terms or issue-date edits move the due date unless the caller pinned
	// one explicitly in the same patch.
	if (termsChanged || dateChanged) && req.DueDate == nil {
		due, err := format.DueDate(item.IssueDate, item.PaymentTerms)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidIssueDate
		}
		item.DueDate = due
	}

	items, err := item.ItemList()
	if err != nil {
		return invoicedomain.Invoice{}, fmt.Errorf("decode invoice items: %w", err)
	}
	if req.Items != nil {
		items = prepareItems(req.Items)
	} else {
		calc.Normalize(items)
	}

	if item.Status != invoicedomain.InvoiceStatusDraft {
		if err := validateFinalized(items); err != nil {
			return invoicedomain.Invoice{}, err
		}
	}

	totals := calc.Compute(items, item.DiscountTotal, item.Tax, item.Shipping)
	item.Subtotal = totals.Subtotal
	item.TotalAmount = totals.GrandTotal
	if err := item.SetItems(items); err != nil {
		return invoicedomain.Invoice{}, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return invoicedomain.Invoice{}, invoicedomain.ErrDuplicateInvoiceNumber
		}
		return invoicedomain.Invoice{}, err
	}
	return *item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, item.ID.String())
}

func (s *Service) load(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	parsed, err := parseID(strings.TrimSpace(id))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	item, err := s.repo.FindOne(ctx, &invoicedomain.Invoice{ID: parsed})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	return item, nil
}

func parseID(id string) (snowflake.ID, error) {
	return snowflake.ParseString(id)
}

// prepareItems assigns ids to new rows and recomputes every derived amount.
func prepareItems(items []invoicedomain.InvoiceItem) []invoicedomain.InvoiceItem {
	out := make([]invoicedomain.InvoiceItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	calc.Normalize(out)
	return out
}

// validateFinalized enforces the submission rules: at least one item, every
// item described, every quantity positive.
func validateFinalized(items []invoicedomain.InvoiceItem) error {
	if len(items) == 0 {
		return invoicedomain.ErrNoItems
	}
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 {
			return invoicedomain.ErrItemInvalid
		}
	}
	return nil
}

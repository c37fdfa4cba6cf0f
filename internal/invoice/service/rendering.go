package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/openbill/invoicecraft/internal/invoice/calc"
	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/openbill/invoicecraft/internal/invoice/render"
	"github.com/openbill/invoicecraft/internal/providers/email"
)

func (s *Service) RenderPDF(ctx context.Context, id string) (invoicedomain.RenderResult, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return invoicedomain.RenderResult{}, err
	}

	snap, err := s.snapshot(item)
	if err != nil {
		return invoicedomain.RenderResult{}, err
	}

	pdf, err := s.renderer.Render(snap)
	if err != nil {
		return invoicedomain.RenderResult{}, fmt.Errorf("render invoice %s: %w", item.InvoiceNumber, err)
	}

	return invoicedomain.RenderResult{
		Filename: fmt.Sprintf("Invoice_%s.pdf", item.InvoiceNumber),
		PDF:      pdf,
	}, nil
}

func (s *Service) SendEmail(ctx context.Context, id string, req invoicedomain.SendEmailRequest) error {
	result, err := s.RenderPDF(ctx, id)
	if err != nil {
		return err
	}

	item, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if req.Subject == "" {
		req.Subject = fmt.Sprintf("Invoice #%s", item.InvoiceNumber)
	}
	if req.Message == "" {
		req.Message = fmt.Sprintf("Please find attached invoice #%s.", item.InvoiceNumber)
	}

	attachment := &email.Attachment{
		Filename:    result.Filename,
		ContentType: "application/pdf",
		Data:        result.PDF,
	}
	if err := s.email.Send(ctx, req.To, req.From, req.Subject, req.Message, attachment); err != nil {
		return fmt.Errorf("send invoice %s: %w", item.InvoiceNumber, err)
	}

	s.log.Info("invoice emailed",
		zap.String("invoice_id", item.ID.String()),
		zap.String("to", req.To),
	)
	return nil
}

// snapshot freezes the stored row into renderer input. Amounts and totals are
// recomputed from the items so stale stored figures never reach the document.
func (s *Service) snapshot(item *invoicedomain.Invoice) (render.Snapshot, error) {
	items, err := item.ItemList()
	if err != nil {
		return render.Snapshot{}, fmt.Errorf("decode invoice items: %w", err)
	}
	calc.Normalize(items)
	totals := calc.Compute(items, item.DiscountTotal, item.Tax, item.Shipping)

	snap := render.Snapshot{
		InvoiceNumber:   item.InvoiceNumber,
		IssueDate:       item.IssueDate,
		DueDate:         item.DueDate,
		PaymentTerms:    item.PaymentTerms,
		Currency:        item.Currency,
		BusinessDetails: item.BusinessDetails,
		ClientDetails:   item.ClientDetails,
		Items:           items,
		Totals:          totals,
		DiscountTotal:   item.DiscountTotal,
		Tax:             item.Tax,
		Shipping:        item.Shipping,
		PaymentMethod:   item.PaymentMethod,
		BankDetails:     item.BankDetails,
		Notes:           item.Notes,
		Terms:           item.Terms,
	}

	// A missing or unreadable logo downgrades to a document without one.
	if item.LogoURL != nil && *item.LogoURL != "" {
		data, err := s.logos.Load(*item.LogoURL)
		if err != nil {
			s.log.Warn("invoice logo unavailable",
				zap.String("invoice_id", item.ID.String()),
				zap.String("logo_url", *item.LogoURL),
				zap.Error(err),
			)
		} else {
			snap.Logo = data
		}
	}

	return snap, nil
}

// Package email delivers rendered invoices as mail attachments.
package email

import "context"

// Attachment is a single binary mail attachment.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Provider interface {
	Send(ctx context.Context, to, from, subject, bodyText string, attachment *Attachment) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to, from, subject, bodyText string, attachment *Attachment) error {
	return nil
}

package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(ctx context.Context, to, from, subject, bodyText string, attachment *Attachment) error {
	if from == "" {
		from = p.cfg.From
	}

	msg, err := buildMessage(to, from, subject, bodyText, attachment)
	if err != nil {
		return fmt.Errorf("build mail message: %w", err)
	}

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	return smtp.SendMail(addr, auth, from, []string{to}, msg)
}

// buildMessage assembles a multipart/mixed MIME message with a plain-text
// body and an optional base64 attachment.
func buildMessage(to, from, subject, bodyText string, attachment *Attachment) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", w.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", `text/plain; charset="UTF-8"`)
	textPart, err := w.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(bodyText)); err != nil {
		return nil, err
	}

	if attachment != nil {
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", contentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
		attPart, err := w.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}
		// RFC 2045 caps base64 body lines at 76 characters.
		encoded := base64.StdEncoding.EncodeToString(attachment.Data)
		for len(encoded) > 0 {
			n := min(76, len(encoded))
			if _, err := attPart.Write([]byte(encoded[:n])); err != nil {
				return nil, err
			}
			if _, err := attPart.Write([]byte("\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[n:]
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

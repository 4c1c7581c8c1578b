package delivery

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Ensure SMTPProvider implements the Provider interface.
var _ Provider = (*SMTPProvider)(nil)

// SMTPProvider sends mail through a password-authenticated SMTP relay
// (an app password against smtp.gmail.com in the default setup).
type SMTPProvider struct {
	host     string
	port     int
	email    string
	password string
}

// NewSMTPProvider creates a new SMTP delivery provider.
func NewSMTPProvider(host string, port int, email, password string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, email: email, password: password}
}

func (p *SMTPProvider) Name() string { return "smtp" }

func (p *SMTPProvider) Available() bool {
	return p.email != "" && p.password != ""
}

// Deliver sends one plain-text message. smtp.SendMail negotiates STARTTLS
// with the server before authenticating.
func (p *SMTPProvider) Deliver(ctx context.Context, to, subject, body string) error {
	if !p.Available() {
		return fmt.Errorf("smtp credentials not configured")
	}

	log.Printf("[SMTPProvider] Sending email to %s via %s:%d", to, p.host, p.port)

	msg := buildMessage(p.email, to, subject, body)
	auth := smtp.PlainAuth("", p.email, p.password, p.host)
	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	if err := smtp.SendMail(addr, auth, p.email, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

// buildMessage assembles an RFC 822 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

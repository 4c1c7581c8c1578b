package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const gmailSendURL = "https://gmail.googleapis.com/gmail/v1/users/me/messages/send"

// Ensure GmailProvider implements the Provider interface.
var _ Provider = (*GmailProvider)(nil)

// GmailProvider sends mail through the Gmail REST API using an OAuth access
// token. Token acquisition and refresh happen outside this process; the
// provider only consumes the resulting bearer token.
type GmailProvider struct {
	token      string
	fromEmail  string
	sendURL    string
	httpClient *http.Client
}

// NewGmailProvider creates a new Gmail API delivery provider.
func NewGmailProvider(token, fromEmail string) *GmailProvider {
	return &GmailProvider{
		token:     token,
		fromEmail: fromEmail,
		sendURL:   gmailSendURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *GmailProvider) Name() string { return "gmail" }

func (p *GmailProvider) Available() bool {
	return p.token != ""
}

// Deliver sends one message via the Gmail API. The RFC 822 message is
// carried base64url-encoded in the "raw" field, as the API requires.
func (p *GmailProvider) Deliver(ctx context.Context, to, subject, body string) error {
	if !p.Available() {
		return fmt.Errorf("gmail oauth token not configured")
	}

	log.Printf("[GmailProvider] Sending email to %s via Gmail API", to)

	raw := base64.URLEncoding.EncodeToString(buildMessage(p.fromEmail, to, subject, body))
	payload, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return fmt.Errorf("failed to marshal gmail send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.sendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create gmail send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gmail send to %s failed: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 400))
		return fmt.Errorf("gmail send to %s failed: status=%d body=%s", to, resp.StatusCode, detail)
	}
	return nil
}

package delivery

import (
	"context"
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Ensure SlackProvider implements the Provider interface.
var _ Provider = (*SlackProvider)(nil)

// SlackProvider delivers the message into a Slack channel instead of a
// mailbox. Subject and body are folded into a single channel message; the
// recipient is recorded in the message so the channel sees who it was for.
type SlackProvider struct {
	botToken  string
	channelID string
}

// NewSlackProvider creates a new Slack delivery provider.
func NewSlackProvider(botToken, channelID string) *SlackProvider {
	return &SlackProvider{botToken: botToken, channelID: channelID}
}

func (p *SlackProvider) Name() string { return "slack" }

func (p *SlackProvider) Available() bool {
	return p.botToken != "" && p.channelID != ""
}

// Deliver posts the message to the configured channel.
func (p *SlackProvider) Deliver(ctx context.Context, to, subject, body string) error {
	if !p.Available() {
		return fmt.Errorf("slack bot token or channel not configured")
	}

	log.Printf("[SlackProvider] Posting message for %s to channel %s", to, p.channelID)

	text := fmt.Sprintf("*%s*\n%s\n_intended for: %s_", subject, body, to)
	client := slack.New(p.botToken)

	_, _, err := client.PostMessageContext(ctx, p.channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to Slack channel %s: %w", p.channelID, err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"inboxpilot-backend/internal/llm"
	"inboxpilot-backend/internal/models"
)

// systemPreamble describes the agent's persona and capabilities. The exact
// "Subject:" format contract matters: the field extractor parses replies
// that follow it.
const systemPreamble = "You are an AI assistant with the ability to send emails on the user's behalf. " +
	"When users ask you to send an email, generate a proper email with a relevant subject line and a professional body. " +
	"Format your response EXACTLY as: 'Subject: [appropriate subject]' followed by a newline and then the email body content. " +
	"Do not include any additional text like 'I will send this', 'Sending now', or any other commentary. " +
	"Just provide the subject and body content in proper email format."

// capabilityReminder restates the capability contract as the closing turn.
const capabilityReminder = "Remember: You have the ability to send emails. " +
	"When I ask you to send an email, acknowledge that you will send it and provide the message content " +
	"in the 'Subject:' format you were given."

// fallbackTemplate is the deterministic response used when the completion
// service is unreachable. It must embed the user's input verbatim.
const fallbackTemplate = "I received your message: %q, but the AI service is unreachable right now. Please try again in a moment."

// ResponseService wraps the opaque completion service. It formats the
// conversation history plus the system preamble into a request and returns
// generated text, or a deterministic fallback on failure. It never returns
// an error: every failure is absorbed here.
type ResponseService struct {
	completer llm.Completer
}

// NewResponseService creates a new ResponseService.
func NewResponseService(completer llm.Completer) *ResponseService {
	return &ResponseService{completer: completer}
}

// Generate produces the assistant reply for userInput given the prior
// history. extraContext carries best-effort enrichment summaries (weather,
// time) to fold into the request; empty entries are skipped.
func (s *ResponseService) Generate(ctx context.Context, history []models.Message, userInput string, extraContext ...string) string {
	turns := make([]llm.Turn, 0, len(history)+4)
	turns = append(turns, llm.Turn{Role: "system", Content: s.systemContent(extraContext)})

	for _, msg := range history {
		turns = append(turns, llm.Turn{Role: completionRole(msg.Role), Content: msg.Content})
	}

	turns = append(turns, llm.Turn{Role: "user", Content: userInput})
	turns = append(turns, llm.Turn{Role: "user", Content: capabilityReminder})

	reply, err := s.completer.Complete(ctx, turns)
	if err != nil {
		log.Printf("WARN [ResponseService] Completion failed, using fallback: %v", err)
		return fmt.Sprintf(fallbackTemplate, userInput)
	}
	return reply
}

func (s *ResponseService) systemContent(extraContext []string) string {
	parts := []string{systemPreamble}
	for _, ctx := range extraContext {
		if strings.TrimSpace(ctx) == "" {
			continue
		}
		parts = append(parts, "Current context you may use when relevant:\n"+ctx)
	}
	return strings.Join(parts, "\n\n")
}

// completionRole maps our role vocabulary to the completion service's.
func completionRole(role models.Role) string {
	if role == models.RoleAssistant {
		return "assistant"
	}
	return "user"
}

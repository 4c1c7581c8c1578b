package extract

import (
	"fmt"
	"regexp"
	"strings"

	"inboxpilot-backend/internal/intent"
)

// Fields is the structured result of extraction, consumed immediately by
// the dispatcher. It is never persisted.
type Fields struct {
	Recipient string
	Subject   string
	Body      string
}

// Input carries everything extraction may draw on. Extraction is
// deterministic given identical inputs: no randomness, no external calls.
type Input struct {
	UserInput      string
	AIResponse     string
	LastEmailUsed  string
	WeatherSummary string
}

// Terminal fallbacks. Every resolution chain ends in one of these, so
// extraction can never fail.
const (
	DefaultRecipient = "recipient@example.com"
	DefaultSubject   = "Message from AI Agent"
)

// A strategy derives one field from the input, reporting whether it matched.
// Strategies are tried in priority order; the first match wins. New patterns
// belong in these tables, not in the control flow.
type strategy struct {
	name  string
	apply func(Input) (string, bool)
}

var recipientStrategies = []strategy{
	{name: "address_in_user_input", apply: addressInUserInput},
	{name: "reuse_previous_address", apply: reusePreviousAddress},
}

var subjectStrategies = []strategy{
	{name: "subject_header_in_response", apply: subjectHeaderInResponse},
	{name: "subject_marker_in_user_input", apply: subjectMarkerInUserInput},
}

var bodyStrategies = []strategy{
	// The weather letter outranks response parsing: when the user asked
	// about the weather and a summary is available, the letter embeds it
	// verbatim regardless of what the model replied.
	{name: "weather_letter", apply: weatherLetter},
	{name: "text_after_subject_header", apply: textAfterSubjectHeader},
	{name: "body_marker_in_response", apply: bodyMarkerInResponse},
	{name: "greeting_sentence", apply: greetingSentence},
}

var (
	subjectHeaderRe = regexp.MustCompile(`(?mi)^\s*subject:\s*(.+)\s*$`)
	subjectMarkerRe = regexp.MustCompile(`(?i)\b(?:subject|title)\s*(?:is|:)?\s+(.+?)(?:[.!?]|$)`)
	bodyMarkerRe    = regexp.MustCompile(`(?is)\bbody:\s*(.+)$`)
	greetingRe      = regexp.MustCompile(`(?i)(?:^|[.!?\n])\s*((?:hello|hi|greetings)\b[^.!?\n]*[.!?]?)`)

	// sendingAnnouncementRe matches a trailing sentence that announces the
	// act of sending, which is commentary rather than email content.
	sendingAnnouncementRe = regexp.MustCompile(`(?is)\s*(?:i\s+will\s+send|i'll\s+send|i\s+am\s+sending|i\s+have\s+sent|sending)\b[^.!?]*[.!?]?\s*$`)
)

// Extract derives recipient, subject and body for the email side effect
// from the unstructured model reply and the user utterance. Best effort:
// every branch has a terminal fallback and this function never fails.
func Extract(in Input) Fields {
	return Fields{
		Recipient: resolve(in, recipientStrategies, DefaultRecipient),
		Subject:   resolve(in, subjectStrategies, DefaultSubject),
		Body:      resolve(in, bodyStrategies, strings.TrimSpace(in.AIResponse)),
	}
}

func resolve(in Input, strategies []strategy, fallback string) string {
	for _, s := range strategies {
		if value, ok := s.apply(in); ok {
			return value
		}
	}
	return fallback
}

// --- recipient strategies ---

func addressInUserInput(in Input) (string, bool) {
	if addr := intent.EmailAddressPattern.FindString(in.UserInput); addr != "" {
		return addr, true
	}
	return "", false
}

func reusePreviousAddress(in Input) (string, bool) {
	if in.LastEmailUsed != "" && intent.ReferencesPreviousEmail(in.UserInput) {
		return in.LastEmailUsed, true
	}
	return "", false
}

// --- subject strategies ---

func subjectHeaderInResponse(in Input) (string, bool) {
	if m := subjectHeaderRe.FindStringSubmatch(in.AIResponse); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func subjectMarkerInUserInput(in Input) (string, bool) {
	if m := subjectMarkerRe.FindStringSubmatch(in.UserInput); m != nil {
		subject := strings.TrimSpace(m[1])
		if subject != "" {
			return subject, true
		}
	}
	return "", false
}

// --- body strategies ---

func weatherLetter(in Input) (string, bool) {
	if in.WeatherSummary == "" || !intent.ShouldFetchWeather(in.UserInput) {
		return "", false
	}
	letter := fmt.Sprintf("Hello,\n\nHere is the weather update you asked for:\n\n%s\n\nStay safe out there!", in.WeatherSummary)
	return letter, true
}

func textAfterSubjectHeader(in Input) (string, bool) {
	loc := subjectHeaderRe.FindStringIndex(in.AIResponse)
	if loc == nil {
		return "", false
	}
	body := strings.TrimSpace(in.AIResponse[loc[1]:])
	body = strings.TrimSpace(sendingAnnouncementRe.ReplaceAllString(body, ""))
	if body == "" {
		return "", false
	}
	return body, true
}

func bodyMarkerInResponse(in Input) (string, bool) {
	if m := bodyMarkerRe.FindStringSubmatch(in.AIResponse); m != nil {
		body := strings.TrimSpace(m[1])
		if body != "" {
			return body, true
		}
	}
	return "", false
}

func greetingSentence(in Input) (string, bool) {
	if m := greetingRe.FindStringSubmatch(in.AIResponse); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

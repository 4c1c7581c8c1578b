package agent

import (
	"time"

	"inboxpilot-backend/internal/models"
)

// State names a stage of the pipeline. Runs record every state they enter
// so tests can assert reachable-state sets and transition coverage.
type State string

const (
	StateStart          State = "start"
	StateIngested       State = "ingested"
	StateRoutingWeather State = "routing_weather"
	StateRoutingTime    State = "routing_time"
	StateGenerated      State = "generated"
	StateStored         State = "stored"
	StateRoutingEmail   State = "routing_email"
	StateEmailSent      State = "email_sent"
	StateEmailSkipped   State = "email_skipped"
	StateComplete       State = "complete"
)

// RunState is the mutable working record for a single pipeline execution.
// It is created fresh per run and destroyed at end of run; only its side
// effects (persisted messages, sent email) outlive it.
type RunState struct {
	RunID     string `json:"run_id"`
	UserInput string `json:"user_input"`

	AIResponse string `json:"ai_response"`

	// Messages is the in-flight working copy of the conversation history
	// for the duration of this run.
	Messages []models.Message `json:"messages"`

	EmailSent      bool   `json:"email_sent"`
	EmailRecipient string `json:"email_recipient,omitempty"`
	EmailSubject   string `json:"email_subject,omitempty"`
	EmailBody      string `json:"email_body,omitempty"`
	EmailContent   string `json:"email_content,omitempty"`

	// LastEmailUsed is the one piece of cross-run routing state, owned by
	// the pipeline process rather than the memory store.
	LastEmailUsed string `json:"last_email_used,omitempty"`

	WeatherSummary string `json:"weather_summary,omitempty"`
	TimeSummary    string `json:"time_summary,omitempty"`

	TotalMessages int       `json:"total_messages"`
	IsComplete    bool      `json:"is_complete"`
	CompletedAt   time.Time `json:"completed_at"`

	// Trace records every state entered, in order.
	Trace []State `json:"trace"`
}

func (rs *RunState) enter(s State) {
	rs.Trace = append(rs.Trace, s)
}

// Visited reports whether the run entered the given state.
func (rs *RunState) Visited(s State) bool {
	for _, t := range rs.Trace {
		if t == s {
			return true
		}
	}
	return false
}

package agent

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"inboxpilot-backend/internal/delivery"
	"inboxpilot-backend/internal/extract"
	"inboxpilot-backend/internal/intent"
	"inboxpilot-backend/internal/models"
	"inboxpilot-backend/internal/services"
	"inboxpilot-backend/internal/store"

	"github.com/google/uuid"
)

// Summarizer is a best-effort enrichment lookup (weather, time). Errors
// mean "summary unavailable" and never fail a run.
type Summarizer interface {
	Summary(ctx context.Context) (string, error)
}

// Pipeline sequences one run: ingest the user message, generate a reply,
// persist the exchange, and conditionally dispatch the email side effect.
// No stage failure is fatal: every run terminates in a complete RunState.
//
// A single mutex serializes the whole load-modify-persist cycle, so
// concurrent runs against the shared history cannot interleave writes and
// lose messages. The mutex also guards lastEmailUsed.
type Pipeline struct {
	store      store.Store
	responses  *services.ResponseService
	dispatcher *delivery.Dispatcher
	weather    Summarizer // optional
	clock      Summarizer // optional

	mu            sync.Mutex
	lastEmailUsed string
}

// NewPipeline creates a Pipeline with explicit dependencies. weather and
// clock may be nil to disable those enrichment branches.
func NewPipeline(st store.Store, responses *services.ResponseService, dispatcher *delivery.Dispatcher, weather, clock Summarizer) *Pipeline {
	return &Pipeline{
		store:      st,
		responses:  responses,
		dispatcher: dispatcher,
		weather:    weather,
		clock:      clock,
	}
}

// Run executes the full pipeline for a single user utterance.
func (p *Pipeline) Run(ctx context.Context, userInput string) RunState {
	p.mu.Lock()
	defer p.mu.Unlock()

	rs := RunState{
		RunID:     uuid.NewString(),
		UserInput: userInput,
	}
	rs.enter(StateStart)
	log.Printf("[Pipeline] Run %s started", rs.RunID)

	// Ingest: load the durable history and append the user message.
	history, err := p.store.Load(ctx)
	if err != nil {
		// Load degrades to empty by contract; treat an error the same way.
		log.Printf("WARN [Pipeline] Failed to load history, starting empty: %v", err)
		history = nil
	}
	userMessage := models.NewMessage(models.RoleUser, userInput)
	rs.Messages = append(append([]models.Message{}, history...), userMessage)
	if err := p.store.Append(ctx, []models.Message{userMessage}); err != nil {
		log.Printf("WARN [Pipeline] Failed to persist user message (continuing with working copy): %v", err)
	}
	rs.enter(StateIngested)

	// Optional enrichment branches. Their absence must not block the main
	// path; failures leave the summaries empty.
	if p.weather != nil && intent.ShouldFetchWeather(userInput) {
		rs.enter(StateRoutingWeather)
		if summary, err := p.weather.Summary(ctx); err != nil {
			log.Printf("WARN [Pipeline] Weather summary unavailable: %v", err)
		} else {
			rs.WeatherSummary = summary
		}
	}
	if p.clock != nil && intent.ShouldFetchTime(userInput) {
		rs.enter(StateRoutingTime)
		if summary, err := p.clock.Summary(ctx); err != nil {
			log.Printf("WARN [Pipeline] Time summary unavailable: %v", err)
		} else {
			rs.TimeSummary = summary
		}
	}

	// Generate: the response service absorbs completion failures into a
	// deterministic fallback, so this always yields text.
	rs.AIResponse = p.responses.Generate(ctx, history, userInput, rs.WeatherSummary, rs.TimeSummary)
	rs.enter(StateGenerated)

	// Store the reply.
	assistantMessage := models.NewMessage(models.RoleAssistant, rs.AIResponse)
	rs.Messages = append(rs.Messages, assistantMessage)
	if err := p.store.Append(ctx, []models.Message{assistantMessage}); err != nil {
		log.Printf("WARN [Pipeline] Failed to persist assistant message (continuing with working copy): %v", err)
	}
	rs.enter(StateStored)

	// Email branch, gated on the original user input.
	if intent.ShouldSendEmail(userInput, p.lastEmailUsed) {
		rs.enter(StateRoutingEmail)
		p.runEmailBranch(ctx, &rs)
	} else {
		rs.EmailSent = false
		rs.enter(StateEmailSkipped)
	}
	rs.LastEmailUsed = p.lastEmailUsed

	rs.TotalMessages = len(rs.Messages)
	rs.IsComplete = true
	rs.CompletedAt = time.Now()
	rs.enter(StateComplete)
	log.Printf("[Pipeline] Run %s complete: email_sent=%t total_messages=%d", rs.RunID, rs.EmailSent, rs.TotalMessages)
	return rs
}

// runEmailBranch extracts dispatch fields from the reply and attempts
// delivery. Failures are absorbed into email_sent=false with a detail.
func (p *Pipeline) runEmailBranch(ctx context.Context, rs *RunState) {
	fields := extract.Extract(extract.Input{
		UserInput:      rs.UserInput,
		AIResponse:     rs.AIResponse,
		LastEmailUsed:  p.lastEmailUsed,
		WeatherSummary: rs.WeatherSummary,
	})
	rs.EmailRecipient = fields.Recipient
	rs.EmailSubject = fields.Subject
	rs.EmailBody = fields.Body

	// Remember any concrete recipient for "send it to the same email"
	// follow-ups, whether or not delivery succeeds.
	if fields.Recipient != extract.DefaultRecipient {
		p.lastEmailUsed = fields.Recipient
	}

	result := p.dispatcher.Dispatch(ctx, fields)
	rs.EmailSent = result.Sent
	rs.EmailContent = result.Detail
	if result.Sent {
		rs.enter(StateEmailSent)
	} else {
		rs.enter(StateEmailSkipped)
	}
}

// Reset clears the durable history and the cross-run routing state.
func (p *Pipeline) Reset(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to reset conversation memory: %w", err)
	}
	p.lastEmailUsed = ""
	log.Printf("[Pipeline] Conversation memory reset")
	return nil
}

// LastEmailUsed exposes the cross-run routing state, mainly for tests.
func (p *Pipeline) LastEmailUsed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastEmailUsed
}

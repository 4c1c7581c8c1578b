package models

// ChatRequest is the request body for POST /v1/chat and /v1/chat/stream.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the RunState-shaped result returned to front ends.
type ChatResponse struct {
	RunID          string `json:"run_id"`
	AIResponse     string `json:"ai_response"`
	EmailSent      bool   `json:"email_sent"`
	EmailContent   string `json:"email_content,omitempty"`
	WeatherSummary string `json:"weather_summary,omitempty"`
	TimeSummary    string `json:"time_summary,omitempty"`
	TotalMessages  int    `json:"total_messages"`
	Timestamp      string `json:"timestamp"`
}

// Stream event types emitted by POST /v1/chat/stream.
const (
	StreamEventPartial  = "partial"
	StreamEventComplete = "complete"
	StreamEventError    = "error"
)

// StreamEvent is a single SSE payload. Partial events carry a monotonic
// prefix of the final ai_response; the terminal complete event carries the
// full result record.
type StreamEvent struct {
	Type           string `json:"type"`
	Content        string `json:"content,omitempty"`
	AIResponse     string `json:"ai_response,omitempty"`
	EmailSent      bool   `json:"email_sent,omitempty"`
	EmailContent   string `json:"email_content,omitempty"`
	WeatherSummary string `json:"weather_summary,omitempty"`
	TimeSummary    string `json:"time_summary,omitempty"`
	TotalMessages  int    `json:"total_messages,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	IsComplete     bool   `json:"is_complete"`
	Error          string `json:"error,omitempty"`
}

// RecentMessagesResponse is the response for GET /v1/memory/recent.
type RecentMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// ClearMemoryResponse is the response for POST /v1/memory/clear.
type ClearMemoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"inboxpilot-backend/internal/agent"
	"inboxpilot-backend/internal/auth"
	"inboxpilot-backend/internal/models"
	"inboxpilot-backend/internal/store"
	"inboxpilot-backend/pkg/httputil"
)

// Runner is the pipeline surface the handlers depend on, kept narrow so
// tests can stub it.
type Runner interface {
	Run(ctx context.Context, userInput string) agent.RunState
	Reset(ctx context.Context) error
}

// ChatHandlers handles HTTP requests against the conversational agent.
type ChatHandlers struct {
	runner       Runner
	memory       store.Store
	adminKeyHash string

	// streamDelay paces word chunks on the streaming endpoint. Tests set
	// it to zero.
	streamDelay time.Duration
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(runner Runner, memory store.Store, adminKeyHash string) *ChatHandlers {
	return &ChatHandlers{
		runner:       runner,
		memory:       memory,
		adminKeyHash: adminKeyHash,
		streamDelay:  50 * time.Millisecond,
	}
}

// HandleChat runs the pipeline for one user message and returns the full
// result record.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	rs := h.runner.Run(r.Context(), req.Message)
	httputil.RespondJSON(w, http.StatusOK, toChatResponse(rs))
}

// HandleChatStream runs the pipeline and streams the ai_response as SSE
// word chunks. Every partial event carries a monotonic prefix of the final
// response; the terminal complete event carries the full result record.
func (h *ChatHandlers) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		log.Println("WARN [ChatHandlers] ResponseWriter does not support flushing, falling back to plain JSON")
		rs := h.runner.Run(r.Context(), req.Message)
		httputil.RespondJSON(w, http.StatusOK, toChatResponse(rs))
		return
	}

	rs := h.runner.Run(r.Context(), req.Message)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	words := strings.Fields(rs.AIResponse)
	var prefix strings.Builder
	for i, word := range words {
		if i > 0 {
			prefix.WriteString(" ")
		}
		prefix.WriteString(word)

		writeStreamEvent(w, models.StreamEvent{
			Type:       models.StreamEventPartial,
			Content:    prefix.String(),
			IsComplete: false,
		})
		flusher.Flush()

		if h.streamDelay > 0 {
			time.Sleep(h.streamDelay)
		}
	}

	writeStreamEvent(w, models.StreamEvent{
		Type:           models.StreamEventComplete,
		AIResponse:     rs.AIResponse,
		EmailSent:      rs.EmailSent,
		EmailContent:   rs.EmailContent,
		WeatherSummary: rs.WeatherSummary,
		TimeSummary:    rs.TimeSummary,
		TotalMessages:  rs.TotalMessages,
		Timestamp:      rs.CompletedAt.Format(time.RFC3339),
		IsComplete:     true,
	})
	flusher.Flush()
}

// HandleMemoryStats returns message counts by role.
func (h *ChatHandlers) HandleMemoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.memory.Stats(r.Context())
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to read memory stats: "+err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// HandleRecentMessages returns the most recent messages from memory.
// The count query parameter defaults to 5.
func (h *ChatHandlers) HandleRecentMessages(w http.ResponseWriter, r *http.Request) {
	count := 5
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid count parameter")
			return
		}
		count = parsed
	}

	messages, err := h.memory.Load(r.Context())
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to load messages: "+err.Error())
		return
	}
	if len(messages) > count {
		messages = messages[len(messages)-count:]
	}
	httputil.RespondJSON(w, http.StatusOK, models.RecentMessagesResponse{Messages: messages})
}

// HandleClearMemory resets the conversation memory to an empty, reloadable
// state. When an admin key hash is configured, the X-Admin-Key header must
// match it.
func (h *ChatHandlers) HandleClearMemory(w http.ResponseWriter, r *http.Request) {
	if h.adminKeyHash != "" {
		key := r.Header.Get("X-Admin-Key")
		if key == "" || !auth.CheckAdminKey(key, h.adminKeyHash) {
			httputil.RespondError(w, http.StatusUnauthorized, "Invalid or missing admin key")
			return
		}
	}

	if err := h.runner.Reset(r.Context()); err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to clear memory: "+err.Error())
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ClearMemoryResponse{
		Success: true,
		Message: "Chat memory cleared",
	})
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (models.ChatRequest, bool) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		httputil.RespondError(w, http.StatusBadRequest, "No message provided")
		return req, false
	}
	return req, true
}

func toChatResponse(rs agent.RunState) models.ChatResponse {
	return models.ChatResponse{
		RunID:          rs.RunID,
		AIResponse:     rs.AIResponse,
		EmailSent:      rs.EmailSent,
		EmailContent:   rs.EmailContent,
		WeatherSummary: rs.WeatherSummary,
		TimeSummary:    rs.TimeSummary,
		TotalMessages:  rs.TotalMessages,
		Timestamp:      rs.CompletedAt.Format(time.RFC3339),
	}
}

func writeStreamEvent(w http.ResponseWriter, event models.StreamEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding stream event: %v", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

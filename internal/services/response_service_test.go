package services

import (
	"context"
	"errors"
	"testing"

	"inboxpilot-backend/internal/llm"
	"inboxpilot-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAssemblesTurns(t *testing.T) {
	mock := &llm.MockCompleter{Reply: "Subject: Hi\nHello there."}
	svc := NewResponseService(mock)

	history := []models.Message{
		models.NewMessage(models.RoleUser, "first"),
		models.NewMessage(models.RoleAssistant, "second"),
	}

	reply := svc.Generate(context.Background(), history, "third")
	assert.Equal(t, "Subject: Hi\nHello there.", reply)

	require.Len(t, mock.Calls, 1)
	turns := mock.Calls[0]
	require.Len(t, turns, 5)

	assert.Equal(t, "system", turns[0].Role)
	assert.Contains(t, turns[0].Content, "Subject:")

	assert.Equal(t, llm.Turn{Role: "user", Content: "first"}, turns[1])
	assert.Equal(t, llm.Turn{Role: "assistant", Content: "second"}, turns[2])
	assert.Equal(t, llm.Turn{Role: "user", Content: "third"}, turns[3])

	// The capability reminder closes every request.
	assert.Equal(t, "user", turns[4].Role)
	assert.Contains(t, turns[4].Content, "Remember")
}

func TestGenerateFoldsExtraContextIntoSystemTurn(t *testing.T) {
	mock := &llm.MockCompleter{Reply: "ok"}
	svc := NewResponseService(mock)

	svc.Generate(context.Background(), nil, "hi", "WEATHER-CONTEXT", "", "TIME-CONTEXT")

	require.Len(t, mock.Calls, 1)
	system := mock.Calls[0][0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "WEATHER-CONTEXT")
	assert.Contains(t, system.Content, "TIME-CONTEXT")
}

func TestGenerateSkipsBlankExtraContext(t *testing.T) {
	mock := &llm.MockCompleter{Reply: "ok"}
	svc := NewResponseService(mock)

	svc.Generate(context.Background(), nil, "hi", "", "   ")

	require.Len(t, mock.Calls, 1)
	assert.NotContains(t, mock.Calls[0][0].Content, "Current context")
}

func TestGenerateFallbackOnCompleterFailure(t *testing.T) {
	mock := &llm.MockCompleter{Err: errors.New("connection refused")}
	svc := NewResponseService(mock)

	reply := svc.Generate(context.Background(), nil, "hi there")
	assert.Equal(t, `I received your message: "hi there", but the AI service is unreachable right now. Please try again in a moment.`, reply)

	// The fallback is deterministic for the same input.
	assert.Equal(t, reply, svc.Generate(context.Background(), nil, "hi there"))
}

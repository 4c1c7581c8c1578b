package store

import (
	"context"

	"inboxpilot-backend/internal/models"
)

// Store defines the interface for durable conversation memory.
// This allows for mocking in tests and switching between the file-backed
// and Postgres-backed implementations.
//
// Contract notes:
//   - Load degrades to an empty history (nil error) when no prior state
//     exists or the backing document is unreadable/corrupt. The system
//     favors availability over historical completeness.
//   - Append durably persists the full history (old + new) such that a
//     subsequent Load in a new process observes all appended messages.
//     Write failures are returned to the caller but are non-fatal to a run.
//   - Implementations assume a single designated writer per conversation;
//     the pipeline serializes its load-modify-persist cycle around them.
type Store interface {
	Load(ctx context.Context) ([]models.Message, error)
	Append(ctx context.Context, messages []models.Message) error
	Stats(ctx context.Context) (models.MemoryStats, error)
	Clear(ctx context.Context) error
}

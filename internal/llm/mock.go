package llm

import (
	"context"
	"fmt"
)

// MockCompleter is a canned Completer for tests and offline development.
type MockCompleter struct {
	// Reply, when set, is returned for every completion.
	Reply string
	// Err, when set, makes every completion fail.
	Err error
	// Calls records the turns of each request, latest last.
	Calls [][]Turn
}

var _ Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a MockCompleter that echoes the latest user turn.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

func (m *MockCompleter) Complete(ctx context.Context, turns []Turn) (string, error) {
	m.Calls = append(m.Calls, turns)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			return fmt.Sprintf("You said: %s", turns[i].Content), nil
		}
	}
	return "Hello! How can I help you today?", nil
}

package models

// MemoryDocument is the durable representation of the conversation history.
// It must round-trip through serialize/deserialize without loss of field
// order within a message or message order within the history.
type MemoryDocument struct {
	LastUpdated   string    `json:"last_updated"`
	TotalMessages int       `json:"total_messages"`
	Messages      []Message `json:"messages"`
}

// MemoryStats summarizes the state of the conversation memory.
type MemoryStats struct {
	TotalMessages     int    `json:"total_messages"`
	UserMessages      int    `json:"user_messages"`
	AssistantMessages int    `json:"assistant_messages"`
	LastUpdated       string `json:"last_updated"`
}

// StatsFor computes memory statistics over a message sequence.
func StatsFor(messages []Message, lastUpdated string) MemoryStats {
	stats := MemoryStats{
		TotalMessages: len(messages),
		LastUpdated:   lastUpdated,
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			stats.UserMessages++
		case RoleAssistant:
			stats.AssistantMessages++
		}
	}
	return stats
}

package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"inboxpilot-backend/internal/models"
	"inboxpilot-backend/internal/store"
)

// Compile-time check to ensure FileStore implements store.Store
var _ store.Store = (*FileStore)(nil)

// FileStore persists the conversation history as a single JSON document on
// disk. Every mutation rewrites the whole document; writes go through a
// temp file + rename so a crash mid-write never leaves a torn document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the full history from disk. A missing, unreadable or corrupt
// document degrades to an empty history rather than an error.
func (s *FileStore) Load(ctx context.Context) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.read()
	return doc.Messages, nil
}

// Append durably persists the given messages at the end of the history.
func (s *FileStore) Append(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	doc.Messages = append(doc.Messages, messages...)
	if err := s.write(doc); err != nil {
		return fmt.Errorf("failed to append %d message(s): %w", len(messages), err)
	}
	log.Printf("[FileStore] Appended %d message(s), history now %d", len(messages), len(doc.Messages))
	return nil
}

// Stats reports message counts by role.
func (s *FileStore) Stats(ctx context.Context) (models.MemoryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.read()
	return models.StatsFor(doc.Messages, doc.LastUpdated), nil
}

// Clear durably empties the history. The resulting document is valid and
// reloadable, so clearing twice is the same as clearing once.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(models.MemoryDocument{Messages: []models.Message{}}); err != nil {
		return fmt.Errorf("failed to clear memory: %w", err)
	}
	log.Printf("[FileStore] Memory cleared")
	return nil
}

// read loads the document from disk, degrading to empty on any failure.
func (s *FileStore) read() models.MemoryDocument {
	empty := models.MemoryDocument{Messages: []models.Message{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARN [FileStore] Could not read %s, starting empty: %v", s.path, err)
		}
		return empty
	}

	var doc models.MemoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("WARN [FileStore] Corrupt memory document %s, starting empty: %v", s.path, err)
		return empty
	}
	if doc.Messages == nil {
		doc.Messages = []models.Message{}
	}
	return doc
}

// write atomically replaces the on-disk document.
func (s *FileStore) write(doc models.MemoryDocument) error {
	doc.LastUpdated = time.Now().Format(time.RFC3339)
	doc.TotalMessages = len(doc.Messages)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp memory file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace memory file: %w", err)
	}
	return nil
}

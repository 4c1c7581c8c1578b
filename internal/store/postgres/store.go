package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"inboxpilot-backend/internal/models"
	"inboxpilot-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// dbtx is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists the conversation history as a single keyed JSONB
// document. The row-level lock taken during Append gives the
// load-modify-persist cycle compare-and-swap semantics across orchestrator
// instances, which the file store cannot offer.
type PostgresStore struct {
	db  *pgxpool.Pool
	key string
}

// NewPostgresStore creates a store over db holding the conversation document
// under the given key.
func NewPostgresStore(db *pgxpool.Pool, key string) *PostgresStore {
	return &PostgresStore{db: db, key: key}
}

// EnsureSchema creates the conversation_memory table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS conversation_memory (
			key        TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure conversation_memory schema: %w", err)
	}
	return nil
}

// Load reads the full history. A missing row or an undecodable document
// degrades to an empty history rather than an error.
func (s *PostgresStore) Load(ctx context.Context) ([]models.Message, error) {
	doc := s.read(ctx, s.db, false)
	return doc.Messages, nil
}

// Append durably persists the given messages at the end of the history.
// The document row is locked for the duration of the read-modify-write.
func (s *PostgresStore) Append(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin append transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	doc := s.read(ctx, tx, true)
	doc.Messages = append(doc.Messages, messages...)
	if err := s.write(ctx, tx, doc); err != nil {
		return fmt.Errorf("failed to append %d message(s): %w", len(messages), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}
	log.Printf("[PostgresStore] Appended %d message(s) to key %q, history now %d", len(messages), s.key, len(doc.Messages))
	return nil
}

// Stats reports message counts by role.
func (s *PostgresStore) Stats(ctx context.Context) (models.MemoryStats, error) {
	doc := s.read(ctx, s.db, false)
	return models.StatsFor(doc.Messages, doc.LastUpdated), nil
}

// Clear durably empties the history for this key.
func (s *PostgresStore) Clear(ctx context.Context) error {
	if err := s.write(ctx, s.db, models.MemoryDocument{Messages: []models.Message{}}); err != nil {
		return fmt.Errorf("failed to clear memory: %w", err)
	}
	log.Printf("[PostgresStore] Memory cleared for key %q", s.key)
	return nil
}

func (s *PostgresStore) read(ctx context.Context, q dbtx, forUpdate bool) models.MemoryDocument {
	empty := models.MemoryDocument{Messages: []models.Message{}}

	query := `SELECT document FROM conversation_memory WHERE key = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var raw []byte
	if err := q.QueryRow(ctx, query, s.key).Scan(&raw); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("WARN [PostgresStore] Could not read document for key %q, starting empty: %v", s.key, err)
		}
		return empty
	}

	var doc models.MemoryDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("WARN [PostgresStore] Corrupt document for key %q, starting empty: %v", s.key, err)
		return empty
	}
	if doc.Messages == nil {
		doc.Messages = []models.Message{}
	}
	return doc
}

func (s *PostgresStore) write(ctx context.Context, q dbtx, doc models.MemoryDocument) error {
	doc.LastUpdated = time.Now().Format(time.RFC3339)
	doc.TotalMessages = len(doc.Messages)

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal memory document: %w", err)
	}

	query := `
		INSERT INTO conversation_memory (key, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`
	if _, err := q.Exec(ctx, query, s.key, raw); err != nil {
		return fmt.Errorf("database error writing memory document: %w", err)
	}
	return nil
}

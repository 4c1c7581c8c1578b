// Command memctl manages the agent's conversation memory and local
// credentials: inspect or clear history, export it, mint API tokens, and
// prepare sealed secrets for the environment.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"inboxpilot-backend/internal/auth"
	"inboxpilot-backend/internal/config"
	"inboxpilot-backend/internal/crypto"
	"inboxpilot-backend/internal/models"
	"inboxpilot-backend/internal/store"
	filestore "inboxpilot-backend/internal/store/file"
	"inboxpilot-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func usage() {
	fmt.Println("Memory Management Commands:")
	fmt.Println("  memctl stats                  - Show memory statistics")
	fmt.Println("  memctl recent [n]             - Show the n most recent messages (default 5)")
	fmt.Println("  memctl full                   - Show all messages")
	fmt.Println("  memctl clear                  - Clear all memory")
	fmt.Println("  memctl export [file]          - Export memory to a JSON file")
	fmt.Println("  memctl token [client-id]      - Mint an API access token")
	fmt.Println("  memctl seal-secret <secret>   - Seal a secret with ENCRYPTION_KEY")
	fmt.Println("  memctl hash-admin-key <key>   - Produce an ADMIN_KEY_HASH value")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "stats":
		showStats(ctx, openStore(ctx, cfg))
	case "recent":
		count := 5
		if len(os.Args) > 2 {
			if parsed, err := strconv.Atoi(os.Args[2]); err == nil && parsed > 0 {
				count = parsed
			}
		}
		showMessages(ctx, openStore(ctx, cfg), count)
	case "full":
		showMessages(ctx, openStore(ctx, cfg), 0)
	case "clear":
		clearMemory(ctx, openStore(ctx, cfg))
	case "export":
		filename := "memory_export.json"
		if len(os.Args) > 2 {
			filename = os.Args[2]
		}
		exportMemory(ctx, openStore(ctx, cfg), filename)
	case "token":
		clientID := ""
		if len(os.Args) > 2 {
			clientID = os.Args[2]
		}
		mintToken(cfg, clientID)
	case "seal-secret":
		if len(os.Args) < 3 {
			log.Fatal("Usage: memctl seal-secret <secret>")
		}
		sealSecret(os.Args[2])
	case "hash-admin-key":
		if len(os.Args) < 3 {
			log.Fatal("Usage: memctl hash-admin-key <key>")
		}
		hashAdminKey(os.Args[2])
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		usage()
	}
}

// openStore picks the same backend the server would.
func openStore(ctx context.Context, cfg *config.Config) store.Store {
	if cfg.DatabaseURL == "" {
		return filestore.NewFileStore(cfg.MemoryFile)
	}

	dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v", err)
	}
	pgStore := postgres.NewPostgresStore(dbpool, cfg.MemoryKey)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("FATAL: Unable to ensure memory schema: %v", err)
	}
	return pgStore
}

func showStats(ctx context.Context, st store.Store) {
	stats, err := st.Stats(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to read stats: %v", err)
	}
	fmt.Println("Memory Statistics")
	fmt.Println("========================================")
	fmt.Printf("Total Messages:     %d\n", stats.TotalMessages)
	fmt.Printf("User Messages:      %d\n", stats.UserMessages)
	fmt.Printf("Assistant Messages: %d\n", stats.AssistantMessages)
	fmt.Printf("Last Updated:       %s\n", stats.LastUpdated)
}

func showMessages(ctx context.Context, st store.Store, count int) {
	messages, err := st.Load(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to load messages: %v", err)
	}
	if count > 0 && len(messages) > count {
		messages = messages[len(messages)-count:]
	}

	fmt.Printf("Messages (%d)\n", len(messages))
	fmt.Println("========================================")
	for i, msg := range messages {
		fmt.Printf("%d. %s: %s\n", i+1, msg.Role, msg.Content)
		fmt.Printf("   %s\n\n", msg.Timestamp)
	}
}

func clearMemory(ctx context.Context, st store.Store) {
	fmt.Print("Are you sure you want to clear all memory? (y/N): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "y" && confirm != "Y" {
		fmt.Println("Memory not cleared.")
		return
	}
	if err := st.Clear(ctx); err != nil {
		log.Fatalf("FATAL: Failed to clear memory: %v", err)
	}
	fmt.Println("Memory cleared successfully.")
}

func exportMemory(ctx context.Context, st store.Store, filename string) {
	messages, err := st.Load(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to load messages: %v", err)
	}

	doc := models.MemoryDocument{
		LastUpdated:   time.Now().Format(time.RFC3339),
		TotalMessages: len(messages),
		Messages:      messages,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("FATAL: Failed to marshal export: %v", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		log.Fatalf("FATAL: Failed to write %s: %v", filename, err)
	}
	fmt.Printf("Memory exported to %s\n", filename)
}

func mintToken(cfg *config.Config, clientID string) {
	token, err := auth.NewAccessToken(clientID, cfg.JWTSecret, cfg.TokenExpiration)
	if err != nil {
		log.Fatalf("FATAL: Failed to mint token: %v", err)
	}
	fmt.Println(token)
}

func sealSecret(secret string) {
	keyHex := os.Getenv("ENCRYPTION_KEY")
	if keyHex == "" {
		log.Fatal("FATAL: ENCRYPTION_KEY environment variable is not set.")
	}
	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		log.Fatalf("FATAL: Failed to decode ENCRYPTION_KEY from hex: %v", err)
	}
	aead, err := crypto.NewAESGCM(keyBytes)
	if err != nil {
		log.Fatalf("FATAL: Failed to create AES-GCM cipher: %v", err)
	}
	sealed, err := crypto.SealToHex(aead, secret)
	if err != nil {
		log.Fatalf("FATAL: Failed to seal secret: %v", err)
	}
	fmt.Println(sealed)
}

func hashAdminKey(key string) {
	hash, err := auth.HashAdminKey(key)
	if err != nil {
		log.Fatalf("FATAL: Failed to hash admin key: %v", err)
	}
	fmt.Println(hash)
}

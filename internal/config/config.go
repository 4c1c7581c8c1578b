package config

import (
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"time"

	"inboxpilot-backend/internal/crypto"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort string

	// Conversation memory. DatabaseURL switches the store backend from the
	// JSON file to Postgres when set.
	MemoryFile  string
	MemoryKey   string
	DatabaseURL string

	// Completion service (OpenAI-compatible).
	OpenAIKey         string
	OpenAIURL         string
	OpenAIModel       string
	OpenAITemperature float32
	OpenAIMaxTokens   int
	OpenAITimeout     time.Duration

	// Delivery service. Provider selects which registered variant handles
	// dispatch: "smtp", "gmail" or "slack".
	DeliveryProvider string
	SMTPHost         string
	SMTPPort         int
	SMTPEmail        string
	SMTPAppPassword  string
	GmailOAuthToken  string
	SlackBotToken    string
	SlackChannelID   string

	// Enrichment lookups.
	WeatherLatitude  float64
	WeatherLongitude float64
	Timezone         string

	// API auth. AuthEnabled gates the JWT middleware; AdminKeyHash (bcrypt)
	// guards the memory clear endpoint when set.
	AuthEnabled     bool
	JWTSecret       string
	TokenExpiration time.Duration
	AdminKeyHash    string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MemoryFile:  getEnv("MEMORY_FILE", "chat_memory.json"),
		MemoryKey:   getEnv("MEMORY_KEY", "default"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIURL:   getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o"),

		DeliveryProvider: getEnv("DELIVERY_PROVIDER", "smtp"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPEmail:        getEnv("SMTP_EMAIL", ""),
		SMTPAppPassword:  getEnv("SMTP_APP_PASSWORD", ""),
		GmailOAuthToken:  getEnv("GMAIL_OAUTH_TOKEN", ""),
		SlackBotToken:    getEnv("SLACK_BOT_TOKEN", ""),
		SlackChannelID:   getEnv("SLACK_CHANNEL_ID", ""),

		Timezone: getEnv("TIMEZONE", "Africa/Cairo"),

		JWTSecret:    getEnv("JWT_SECRET", "default-super-secret-key"), // CHANGE THIS IN PRODUCTION!
		AdminKeyHash: getEnv("ADMIN_KEY_HASH", ""),
	}

	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set. Responses will fall back to the unavailable template.")
	}

	cfg.OpenAITemperature = float32(getEnvFloat("OPENAI_TEMPERATURE", 0.7))
	cfg.OpenAIMaxTokens = getEnvInt("OPENAI_MAX_TOKENS", 500)
	cfg.OpenAITimeout = time.Duration(getEnvInt("OPENAI_TIMEOUT_SECONDS", 30)) * time.Second

	cfg.SMTPPort = getEnvInt("SMTP_PORT", 587)

	// Default location: Cairo, Egypt.
	cfg.WeatherLatitude = getEnvFloat("WEATHER_LATITUDE", 30.0626)
	cfg.WeatherLongitude = getEnvFloat("WEATHER_LONGITUDE", 31.2497)

	cfg.AuthEnabled = getEnvBool("AUTH_ENABLED", false)
	cfg.TokenExpiration = time.Hour * time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24))

	// The SMTP app password may be carried sealed (AES-GCM, hex) instead of
	// in the clear. ENCRYPTION_KEY must be 64 hex characters (32 bytes).
	if sealedPassword := getEnv("SMTP_APP_PASSWORD_ENC", ""); sealedPassword != "" {
		keyHex := getEnv("ENCRYPTION_KEY", "")
		if keyHex == "" {
			log.Fatal("FATAL: SMTP_APP_PASSWORD_ENC is set but ENCRYPTION_KEY is not.")
		}
		keyBytes, err := hex.DecodeString(keyHex)
		if err != nil {
			log.Fatalf("FATAL: Failed to decode ENCRYPTION_KEY from hex: %v", err)
		}
		if len(keyBytes) != 32 {
			log.Fatalf("FATAL: ENCRYPTION_KEY must be 32 bytes (64 hex characters) long, got %d bytes", len(keyBytes))
		}
		aead, err := crypto.NewAESGCM(keyBytes)
		if err != nil {
			log.Fatalf("FATAL: Failed to create AES-GCM cipher: %v", err)
		}
		password, err := crypto.OpenFromHex(aead, sealedPassword)
		if err != nil {
			log.Fatalf("FATAL: Failed to unseal SMTP_APP_PASSWORD_ENC: %v", err)
		}
		cfg.SMTPAppPassword = password
	}

	log.Printf("Loaded config: Port=%s, Provider=%s, Model=%s, Memory=%s, AuthEnabled=%t",
		cfg.HTTPPort, cfg.DeliveryProvider, cfg.OpenAIModel, memoryBackendLabel(cfg), cfg.AuthEnabled)

	return cfg, nil
}

func memoryBackendLabel(cfg *Config) string {
	if cfg.DatabaseURL != "" {
		return "postgres"
	}
	return "file:" + cfg.MemoryFile
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %f. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s', using default %t. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inboxpilot-backend/internal/agent"
	"inboxpilot-backend/internal/api"
	"inboxpilot-backend/internal/config"
	"inboxpilot-backend/internal/delivery"
	"inboxpilot-backend/internal/enrich"
	"inboxpilot-backend/internal/handlers"
	"inboxpilot-backend/internal/llm"
	"inboxpilot-backend/internal/services"
	"inboxpilot-backend/internal/store"
	filestore "inboxpilot-backend/internal/store/file"
	"inboxpilot-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting InboxPilot Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Conversation Memory Store
	var memory store.Store
	var dbpool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err = pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ping database: %v\n", err)
		}

		pgStore := postgres.NewPostgresStore(dbpool, cfg.MemoryKey)
		if err := pgStore.EnsureSchema(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ensure memory schema: %v\n", err)
		}
		memory = pgStore
		log.Println("Postgres memory store initialized.")
	} else {
		memory = filestore.NewFileStore(cfg.MemoryFile)
		log.Printf("File memory store initialized at %s.", cfg.MemoryFile)
	}

	// 3. Initialize Services
	completer := llm.NewClient(cfg.OpenAIKey, cfg.OpenAIURL, cfg.OpenAIModel,
		cfg.OpenAITemperature, cfg.OpenAIMaxTokens, cfg.OpenAITimeout)
	responseService := services.NewResponseService(completer)
	log.Println("ResponseService initialized.")

	// --- Delivery Provider Registry ---
	registry := delivery.NewRegistry()
	registry.Register(delivery.NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPAppPassword))
	registry.Register(delivery.NewGmailProvider(cfg.GmailOAuthToken, cfg.SMTPEmail))
	registry.Register(delivery.NewSlackProvider(cfg.SlackBotToken, cfg.SlackChannelID))
	dispatcher := delivery.NewDispatcher(registry, cfg.DeliveryProvider)
	log.Printf("Dispatcher initialized with provider %q.", cfg.DeliveryProvider)

	// --- Enrichment Services ---
	var weather agent.Summarizer = enrich.NewWeatherService(cfg.WeatherLatitude, cfg.WeatherLongitude, cfg.Timezone)
	var clock agent.Summarizer
	if timeService, err := enrich.NewTimeService(cfg.Timezone); err != nil {
		log.Printf("WARN: Time service disabled: %v", err)
	} else {
		clock = timeService
	}

	// 4. Initialize Pipeline, Handlers and Router
	pipeline := agent.NewPipeline(memory, responseService, dispatcher, weather, clock)
	log.Println("Pipeline initialized.")

	chatHandler := handlers.NewChatHandlers(pipeline, memory, cfg.AdminKeyHash)
	router := api.NewRouter(api.RouterDependencies{
		ChatHandler: chatHandler,
		Config:      cfg,
	})
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: avoid Slowloris-style connection pileups.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second, // Streaming responses hold the connection open
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
		log.Fatal("Forcing shutdown due to error.")
	}

	log.Println("Server shutdown complete.")
}

package api

import (
	"net/http"
	"time"

	"inboxpilot-backend/internal/config"
	"inboxpilot-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router
// setup, primarily handlers and configuration.
type RouterDependencies struct {
	ChatHandler *handlers.ChatHandlers
	Config      *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second)) // Runs block on the completion call

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// --- Agent Routes ---
	r.Route("/v1", func(r chi.Router) {
		if deps.Config.AuthEnabled {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))
		}

		if deps.ChatHandler == nil {
			panic("ChatHandler dependency is nil in router setup")
		}

		r.Post("/chat", deps.ChatHandler.HandleChat)
		r.Post("/chat/stream", deps.ChatHandler.HandleChatStream)

		r.Route("/memory", func(r chi.Router) {
			r.Get("/stats", deps.ChatHandler.HandleMemoryStats)
			r.Get("/recent", deps.ChatHandler.HandleRecentMessages)
			r.Post("/clear", deps.ChatHandler.HandleClearMemory)
		})
	})

	return r
}

package api

import (
	"log"
	"time"

	"eventchat-backend/internal/auth"
	"eventchat-backend/internal/config"
	"eventchat-backend/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	TokenHandler   *handlers.TokenHandler
	EventHandlers  *handlers.EventHandlers
	BotHandler     *handlers.BotHandler
	WebhookHandler *handlers.WebhookHandler
	HealthHandler  *handlers.HealthHandler
	Verifier       auth.Verifier // nil disables identity verification
	Config         *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Api-Secret", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Health Endpoints (no secret, no identity) ---
	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler.HandleHealth)
		r.Get("/healthz", deps.HealthHandler.HandleHealth)
	}

	// --- API Routes ---
	r.Group(func(r chi.Router) {
		r.Use(SharedSecretMiddleware(deps.Config.APISharedSecret))
		r.Use(IdentityMiddleware(deps.Verifier))

		if deps.TokenHandler != nil {
			r.Get("/token", deps.TokenHandler.HandleGetToken)
		} else {
			log.Println("WARN: TokenHandler dependency is nil, skipping /token route.")
		}

		if deps.EventHandlers != nil {
			r.Route("/events", func(r chi.Router) {
				r.Post("/create", deps.EventHandlers.HandleCreateEvent)
				r.Post("/join", deps.EventHandlers.HandleJoinEvent)
				r.Get("/{eventID}", deps.EventHandlers.HandleGetEvent)
			})
		} else {
			log.Println("WARN: EventHandlers dependency is nil, skipping /events routes.")
		}

		if deps.BotHandler != nil {
			r.Post("/chat/bot", deps.BotHandler.HandleBotMessage)
		} else {
			log.Println("WARN: BotHandler dependency is nil, skipping /chat/bot route.")
		}

		// The webhook is called by the chat backend, not by clients; it is
		// covered by the shared secret but carries no bearer identity.
		if deps.WebhookHandler != nil {
			r.Post("/webhook/message", deps.WebhookHandler.HandleMessage)
		} else {
			log.Println("WARN: WebhookHandler dependency is nil, skipping /webhook/message route.")
		}
	})

	return r
}

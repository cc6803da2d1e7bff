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

	"eventchat-backend/internal/api"
	"eventchat-backend/internal/auth"
	"eventchat-backend/internal/chatapi"
	"eventchat-backend/internal/config"
	"eventchat-backend/internal/handlers"
	"eventchat-backend/internal/llm"
	"eventchat-backend/internal/services"
	"eventchat-backend/internal/store"
	"eventchat-backend/internal/store/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting EventChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. History Store (Postgres when configured, in-memory otherwise)
	var historyStore store.HistoryStore
	historyStoreName := "memory"
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ping database: %v\n", err)
		}

		pgStore := postgres.NewHistoryStore(dbpool)
		if err := pgStore.EnsureSchema(dbCtx); err != nil {
			log.Fatalf("FATAL: Failed to ensure database schema: %v", err)
		}
		historyStore = pgStore
		historyStoreName = "postgres"
		log.Println("Postgres history store initialized.")
	} else {
		historyStore = store.NewMemoryStore()
		log.Println("WARN: DATABASE_URL not set; bot conversation history will not survive restarts.")
	}

	// 3. Chat Backend Client
	signer, err := chatapi.NewTokenSigner(cfg.ChatAPISecret)
	if err != nil {
		log.Fatalf("FATAL: Failed to create token signer: %v", err)
	}
	chatBackend, err := chatapi.NewClient(cfg.ChatAPIKey, cfg.ChatAPIBaseURL, signer)
	if err != nil {
		log.Fatalf("FATAL: Failed to create chat backend client: %v", err)
	}
	log.Println("Chat backend client initialized.")

	// 4. Identity Verifier (optional)
	var verifier auth.Verifier
	if cfg.IdentityVerificationEnabled() {
		verifier = auth.NewFirebaseVerifier(cfg.FirebaseProjectID)
		log.Printf("Identity verification enabled for project %s.", cfg.FirebaseProjectID)
	} else {
		log.Println("WARN: FIREBASE_PROJECT_ID not set; identity verification disabled. Callers must supply explicit user ids.")
	}

	// 5. Language Backend (optional)
	var languageBackend llm.LanguageBackend
	if cfg.BotEnabled() {
		gemini, err := llm.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("WARN: Failed to initialize language backend, bot disabled: %v", err)
		} else {
			languageBackend = gemini
			log.Printf("Language backend initialized (model: %s).", cfg.GeminiModel)
		}
	} else {
		log.Println("WARN: GEMINI_API_KEY not set; bot relay disabled.")
	}

	// 6. Services
	tokenService := services.NewTokenService(chatBackend, signer, cfg.TokenExpiration)
	log.Println("TokenService initialized.")
	eventService := services.NewEventService(chatBackend, cfg.ChatChannelType, cfg.EventLinkScheme)
	log.Println("EventService initialized.")
	channelCache := chatapi.NewChannelCache(512, 30*time.Second)
	gatekeeperService := services.NewGatekeeperService(chatBackend, channelCache, cfg.ChatChannelType)
	log.Println("GatekeeperService initialized.")
	botUser := chatapi.ChatUser{ID: cfg.BotUserID, Name: cfg.BotUserName}
	botService := services.NewBotService(chatBackend, historyStore, languageBackend, botUser, cfg.ChatChannelType)
	log.Println("BotService initialized.")

	// 7. Handlers
	includeDetail := !cfg.IsProduction()
	routerDeps := api.RouterDependencies{
		TokenHandler:   handlers.NewTokenHandler(tokenService, includeDetail),
		EventHandlers:  handlers.NewEventHandlers(eventService, includeDetail),
		BotHandler:     handlers.NewBotHandler(botService, includeDetail),
		WebhookHandler: handlers.NewWebhookHandler(gatekeeperService),
		HealthHandler: handlers.NewHealthHandler(
			cfg.ChatAPIKey,
			cfg.IdentityVerificationEnabled(),
			botService.Enabled(),
			historyStoreName,
		),
		Verifier: verifier,
		Config:   cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 8. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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
	}

	log.Println("Server shutdown complete.")
}

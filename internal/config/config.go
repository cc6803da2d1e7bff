package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	AppEnv          string
	DatabaseURL     string
	AllowedOrigins  []string
	APISharedSecret string

	// Chat backend (server-side credentials for the message gateway)
	ChatAPIKey      string
	ChatAPISecret   string
	ChatAPIBaseURL  string
	ChatChannelType string
	TokenExpiration time.Duration // 0 means non-expiring user tokens

	// Event channels
	EventLinkScheme string

	// Identity provider; empty project id disables verification
	FirebaseProjectID string

	// Bot relay; empty API key disables the bot
	GeminiAPIKey string
	GeminiModel  string
	BotUserID    string
	BotUserName  string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	chatKey := getEnv("CHAT_API_KEY", "")
	chatSecret := getEnv("CHAT_API_SECRET", "")
	if chatKey == "" || chatSecret == "" {
		log.Fatal("FATAL: CHAT_API_KEY and CHAT_API_SECRET environment variables must be set.")
	}

	tokenExpStr := getEnv("TOKEN_EXPIRATION_HOURS", "0")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil || tokenExpHours < 0 {
		log.Printf("Warning: Invalid TOKEN_EXPIRATION_HOURS '%s', using non-expiring tokens. Error: %v", tokenExpStr, err)
		tokenExpHours = 0
	}

	cfg := &Config{
		HTTPPort:          getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AllowedOrigins:    splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		APISharedSecret:   getEnv("API_SHARED_SECRET", ""),
		ChatAPIKey:        chatKey,
		ChatAPISecret:     chatSecret,
		ChatAPIBaseURL:    getEnv("CHAT_API_BASE_URL", "https://chat.stream-io-api.com"),
		ChatChannelType:   getEnv("CHAT_CHANNEL_TYPE", "messaging"),
		TokenExpiration:   time.Hour * time.Duration(tokenExpHours),
		EventLinkScheme:   getEnv("EVENT_LINK_SCHEME", "eventchat"),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		BotUserID:         getEnv("BOT_USER_ID", "eventbot"),
		BotUserName:       getEnv("BOT_USER_NAME", "Event Assistant"),
	}

	log.Printf("Loaded config: Port=%s, Env=%s, ChannelType=%s, IdentityVerification=%t, BotEnabled=%t",
		cfg.HTTPPort, cfg.AppEnv, cfg.ChatChannelType, cfg.IdentityVerificationEnabled(), cfg.BotEnabled())

	return cfg, nil
}

// IdentityVerificationEnabled reports whether bearer credentials are verified
// against the identity provider. When false the server runs in a degraded
// trust mode and callers must supply explicit user ids.
func (c *Config) IdentityVerificationEnabled() bool {
	return c.FirebaseProjectID != ""
}

// BotEnabled reports whether the bot relay has a language-backend credential.
func (c *Config) BotEnabled() bool {
	return c.GeminiAPIKey != ""
}

// IsProduction reports whether diagnostic error details should be suppressed.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Env variable %s not set, using default: %s", key, fallback)
	return fallback
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

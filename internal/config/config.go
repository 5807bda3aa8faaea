package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultProfanityPrompt = "You are a content moderator. Answer with a single word: \"true\" if the " +
		"following text contains profanity, insults or hate speech, otherwise \"false\".\n\nText: {text}"
	DefaultAutoReplyPrompt = "You are the author of a blog post. Write a short, polite reply to a reader's " +
		"comment. Reply with the comment text only.\n\nPost: {post}\n\nComment: {comment}"
	DefaultAutoReplyFallback = "Thank you for your comment!"
)

// Config holds every runtime setting of the server.
type Config struct {
	Port    string
	GinMode string

	DBDriver    string // postgres | sqlite
	DatabaseURL string

	SecretKey      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration

	LLMBaseURL        string
	LLMToken          string
	LLMModel          string
	LLMHTTPTimeout    time.Duration
	ModerationTimeout time.Duration
	ReplyTimeout      time.Duration

	ProfanityPrompt   string
	AutoReplyPrompt   string
	AutoReplyFallback string

	ModerateAutoReplies bool
	EnforceOwnership    bool

	CORSOrigins []string
	CacheSize   int

	LogLevel string
	LogFile  string
}

// Load reads .env (if present) and the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool) {
	foundEnv := godotenv.Load() == nil
	return FromEnv(), foundEnv
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	cfg := &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		DBDriver:    strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SecretKey:      getEnvOrDefault("SECRET_KEY", "secret_key_change_me"),
		JWTAlgorithm:   getEnvOrDefault("JWT_ALGORITHM", getEnvOrDefault("ALGORITHM", "HS256")),
		AccessTokenTTL: getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		LLMBaseURL:        getEnvOrDefault("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMToken:          getEnvOrDefault("LLM_TOKEN", os.Getenv("GOOGLE_API_KEY")),
		LLMModel:          getEnvOrDefault("LLM_MODEL", "gemini-1.5-flash"),
		LLMHTTPTimeout:    getDuration("LLM_HTTP_TIMEOUT", 20*time.Second),
		ModerationTimeout: getDuration("MODERATION_TIMEOUT", 10*time.Second),
		ReplyTimeout:      getDuration("REPLY_TIMEOUT", 20*time.Second),

		ProfanityPrompt:   getEnvOrDefault("PROMPT_FOR_PROFANITY", DefaultProfanityPrompt),
		AutoReplyPrompt:   getEnvOrDefault("PROMPT_FOR_AUTO_REPLY", DefaultAutoReplyPrompt),
		AutoReplyFallback: getEnvOrDefault("AUTO_REPLY_FALLBACK", DefaultAutoReplyFallback),

		ModerateAutoReplies: getBool("MODERATE_AUTO_REPLIES", false),
		EnforceOwnership:    getBool("ENFORCE_OWNERSHIP", false),

		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		CacheSize:   getInt("CACHE_SIZE", 500),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "server.log"),
	}

	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		if cfg.DBDriver == "sqlite" {
			cfg.DatabaseURL = "poshts.db"
		} else {
			cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=poshts port=5432 sslmode=disable TimeZone=UTC"
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// bare integers are seconds
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return i
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

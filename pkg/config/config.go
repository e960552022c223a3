package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	// Postgres
	DatabaseDSN string

	// AI provider
	AIProvider    string
	GeminiApiKey  string
	OllamaBaseURL string
	OllamaModel   string

	// Pipeline
	WorkerCount  int
	StageTimeout time.Duration
	PromptDir    string
	TaxonomyPath string

	// Redis (duplicate-delivery fast path, optional)
	RedisURL string

	// IMAP polling trigger (optional)
	IMAPHost     string
	IMAPUsername string
	IMAPPassword string
	IMAPUserID   string
	IMAPInterval time.Duration

	// Google Cloud push trigger (optional)
	GoogleProjectID   string
	GooglePubSubTopic string
	GoogleCredentials string

	// FCM notifications (optional)
	FirebaseCredentials string
	FCMTopic            string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	stageTimeout := 30 * time.Second
	if v := os.Getenv("STAGE_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			stageTimeout = parsed
		}
	}

	imapInterval := 2 * time.Minute
	if v := os.Getenv("IMAP_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			imapInterval = parsed
		}
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=expenseflow port=5432 sslmode=disable"),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		WorkerCount:  getEnvInt("PIPELINE_WORKERS", 3),
		StageTimeout: stageTimeout,
		PromptDir:    getEnv("PROMPT_DIR", "prompts"),
		TaxonomyPath: getEnv("TAXONOMY_PATH", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPUsername: getEnv("IMAP_USERNAME", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPUserID:   getEnv("IMAP_USER_ID", "default"),
		IMAPInterval: imapInterval,

		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", ""),
		GooglePubSubTopic: getEnv("GOOGLE_PUBSUB_TOPIC", "email-ingest"),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", ""),

		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		FCMTopic:            getEnv("FCM_TOPIC", "expenses"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
